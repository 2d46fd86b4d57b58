package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pokerleague/internal/ledger"
	"pokerleague/internal/models"
	"pokerleague/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
type stubRepo struct {
	mu sync.Mutex

	seasons       map[string]models.Season
	games         map[string]models.Game
	players       map[string]models.Player
	distributions []models.JackpotDistribution
	charges       []models.MembershipCharge
	settings      map[string]models.SystemSetting

	// beforeJackpotWrite runs before any jackpot write, outside the stub lock.
	beforeJackpotWrite func()
	// jackpotWriteSkew is added to every persisted jackpot to simulate a
	// store that does not read back what was written.
	jackpotWriteSkew float64
	jackpotWrites    int
	// beforeSeasonConfigWrite runs before a config write, outside the stub lock.
	beforeSeasonConfigWrite func()
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		seasons:  map[string]models.Season{},
		games:    map[string]models.Game{},
		players:  map[string]models.Player{},
		settings: map[string]models.SystemSetting{},
	}
}

func (s *stubRepo) GetSeason(ctx context.Context, id string) (*models.Season, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.seasons[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (s *stubRepo) GetSeasonBySlug(ctx context.Context, slug string) (*models.Season, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.seasons {
		if v.Slug == slug {
			out := v
			return &out, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) ListSeasons(ctx context.Context, params repository.ListSeasonsParams) ([]models.Season, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Season
	for _, v := range s.seasons {
		if params.IsActive != nil && v.IsActive != *params.IsActive {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) SaveSeason(ctx context.Context, item *models.Season) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seasons[item.ID] = *item
	return nil
}

func (s *stubRepo) UpdateSeasonConfig(ctx context.Context, item *models.Season) error {
	if s.beforeSeasonConfigWrite != nil {
		s.beforeSeasonConfigWrite()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.seasons[item.ID]
	if !ok {
		return errors.New("record not found")
	}
	v.Financial = item.Financial
	v.ScoreSchema = item.ScoreSchema
	v.WeeklyPrizeSchema = item.WeeklyPrizeSchema
	v.SeasonPrizeSchema = item.SeasonPrizeSchema
	v.EliminationReward = item.EliminationReward
	s.seasons[item.ID] = v
	return nil
}

func (s *stubRepo) UpdateSeasonJackpot(ctx context.Context, seasonID string, jackpot float64) error {
	if s.beforeJackpotWrite != nil {
		s.beforeJackpotWrite()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.seasons[seasonID]
	if !ok {
		return errors.New("record not found")
	}
	v.Jackpot = jackpot + s.jackpotWriteSkew
	s.seasons[seasonID] = v
	s.jackpotWrites++
	return nil
}

func (s *stubRepo) FinalizeSeason(ctx context.Context, season *models.Season, items []models.JackpotDistribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.distributions = append(s.distributions, items...)
	s.seasons[season.ID] = *season
	return nil
}

func (s *stubRepo) GetGame(ctx context.Context, id string) (*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.games[id]
	if !ok {
		return nil, nil
	}
	out := ledger.CloneGame(v)
	return &out, nil
}

func (s *stubRepo) listGames(seasonID string, finishedOnly bool) []models.Game {
	var out []models.Game
	for _, g := range s.games {
		if g.SeasonID != seasonID || (finishedOnly && !g.IsFinished) {
			continue
		}
		out = append(out, ledger.CloneGame(g))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (s *stubRepo) ListGamesBySeason(ctx context.Context, seasonID string) ([]models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listGames(seasonID, false), nil
}

func (s *stubRepo) ListFinishedGames(ctx context.Context, seasonID string) ([]models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listGames(seasonID, true), nil
}

func (s *stubRepo) NextGameNumber(ctx context.Context, seasonID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	last := 0
	for _, g := range s.games {
		if g.SeasonID == seasonID && g.Number > last {
			last = g.Number
		}
	}
	return last + 1, nil
}

func (s *stubRepo) SaveGame(ctx context.Context, item *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[item.ID] = ledger.CloneGame(*item)
	return nil
}

func (s *stubRepo) CompleteGame(ctx context.Context, item *models.Game, clubFundDelta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[item.ID] = ledger.CloneGame(*item)
	v := s.seasons[item.SeasonID]
	v.ClubFund += clubFundDelta
	s.seasons[item.SeasonID] = v
	return nil
}

func (s *stubRepo) AccrueGameJackpot(ctx context.Context, seasonID, gameID string, jackpot, contribution float64) error {
	if s.beforeJackpotWrite != nil {
		s.beforeJackpotWrite()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.games[gameID]
	if g.JackpotAccrued {
		return errors.New("game jackpot already accrued")
	}
	g.JackpotAccrued = true
	g.JackpotContribution = contribution
	s.games[gameID] = g
	v := s.seasons[seasonID]
	v.Jackpot = jackpot + s.jackpotWriteSkew
	s.seasons[seasonID] = v
	s.jackpotWrites++
	return nil
}

func (s *stubRepo) AppendJackpotDistributions(ctx context.Context, items []models.JackpotDistribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.distributions = append(s.distributions, items...)
	return nil
}

func (s *stubRepo) ListJackpotDistributions(ctx context.Context, seasonID string) ([]models.JackpotDistribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.JackpotDistribution
	for _, d := range s.distributions {
		if d.SeasonID == seasonID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *stubRepo) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.players[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (s *stubRepo) ListPlayers(ctx context.Context, params repository.ListPlayersParams) ([]models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Player
	for _, p := range s.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *stubRepo) ListPlayersByIDs(ctx context.Context, ids []string) ([]models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Player
	for _, id := range ids {
		if p, ok := s.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubRepo) SavePlayer(ctx context.Context, item *models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[item.ID] = *item
	return nil
}

func (s *stubRepo) ApplyMembershipCharges(ctx context.Context, items []models.MembershipCharge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.charges = append(s.charges, it)
		p := s.players[it.PlayerID]
		at := it.ChargedAt
		p.LastMembershipCharge = &at
		s.players[it.PlayerID] = p
	}
	return nil
}

func (s *stubRepo) ListMembershipCharges(ctx context.Context, params repository.ListMembershipChargesParams) ([]models.MembershipCharge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MembershipCharge
	for _, c := range s.charges {
		if params.SeasonID != nil && c.SeasonID != *params.SeasonID {
			continue
		}
		if params.PlayerID != nil && c.PlayerID != *params.PlayerID {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *stubRepo) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[item.Key] = *item
	return nil
}

func (s *stubRepo) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.settings[key]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (s *stubRepo) ListSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SystemSetting
	for _, v := range s.settings {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *stubRepo) CountSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.settings)), nil
}

var _ repository.Repository = (*stubRepo)(nil)
