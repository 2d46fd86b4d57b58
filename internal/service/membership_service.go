package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pokerleague/internal/ledger"
	"pokerleague/internal/models"
	"pokerleague/internal/repository"
)

// MembershipService bills periodic league dues at game time.
type MembershipService struct {
	Repo   repository.Repository
	Logger *zap.Logger
	// Location defines where billing periods start. Nil means UTC.
	Location *time.Location
}

type ChargeResult struct {
	GameID  string                    `json:"game_id"`
	Charged []models.MembershipCharge `json:"charged"`
	Skipped []ledger.ChargeDecision   `json:"skipped"`
}

type membershipContext struct {
	game     *models.Game
	params   models.FinancialParams
	gameDate time.Time
	players  []models.Player
	history  []models.Game
}

func (s *MembershipService) load(ctx context.Context, gameID string) (*membershipContext, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("membership service not configured")
	}
	game, err := s.Repo.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, notFound("game", gameID)
	}
	season, err := s.Repo.GetSeason(ctx, game.SeasonID)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return nil, notFound("season", game.SeasonID)
	}
	params := ledger.EffectiveParams(*game, *season)
	if !params.ClubMembershipFrequency.Valid() {
		return nil, invalid("financial_params.club_membership_frequency", "membership frequency is not configured")
	}

	ids := make([]string, 0, len(game.Players))
	for _, p := range game.Players {
		ids = append(ids, p.PlayerID)
	}
	rows, err := s.Repo.ListPlayersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Player, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	players := make([]models.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			players = append(players, p)
			continue
		}
		players = append(players, models.Player{ID: id})
	}

	history, err := s.Repo.ListFinishedGames(ctx, season.ID)
	if err != nil {
		return nil, err
	}
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	return &membershipContext{
		game:     game,
		params:   params,
		gameDate: game.Date.In(loc),
		players:  players,
		history:  history,
	}, nil
}

// EvaluateMembershipCharges decides for every player of the game whether dues
// are owed, with a reason for each player that is skipped.
func (s *MembershipService) EvaluateMembershipCharges(ctx context.Context, gameID string) ([]ledger.ChargeDecision, error) {
	mc, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return ledger.EvaluateCharges(mc.players, mc.params.ClubMembershipFrequency, mc.gameDate, mc.history), nil
}

// ChargeMemberships records a charge for every player that owes dues and
// moves their last charge date to the game date.
func (s *MembershipService) ChargeMemberships(ctx context.Context, gameID string) (*ChargeResult, error) {
	mc, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if mc.params.ClubMembershipValue <= 0 {
		return nil, invalid("financial_params.club_membership_value", "membership value is not configured")
	}
	freq := mc.params.ClubMembershipFrequency
	decisions := ledger.EvaluateCharges(mc.players, freq, mc.gameDate, mc.history)
	result := &ChargeResult{GameID: mc.game.ID}
	periodStart := ledger.PeriodStart(mc.gameDate, freq)
	gameID = mc.game.ID
	for _, d := range decisions {
		if !d.Due {
			result.Skipped = append(result.Skipped, d)
			continue
		}
		result.Charged = append(result.Charged, models.MembershipCharge{
			ID:          uuid.NewString(),
			SeasonID:    mc.game.SeasonID,
			PlayerID:    d.PlayerID,
			GameID:      &gameID,
			Amount:      mc.params.ClubMembershipValue,
			Frequency:   freq,
			PeriodStart: periodStart,
			ChargedAt:   mc.gameDate,
		})
	}
	if err := s.Repo.ApplyMembershipCharges(ctx, result.Charged); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("memberships charged",
			zap.String("game_id", mc.game.ID),
			zap.Int("charged", len(result.Charged)),
			zap.Int("skipped", len(result.Skipped)),
		)
	}
	return result, nil
}

func (s *MembershipService) ListCharges(ctx context.Context, params repository.ListMembershipChargesParams) ([]models.MembershipCharge, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("membership service not configured")
	}
	return s.Repo.ListMembershipCharges(ctx, params)
}
