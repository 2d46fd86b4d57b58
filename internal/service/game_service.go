package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pokerleague/internal/ledger"
	"pokerleague/internal/models"
	"pokerleague/internal/repository"
)

// GameService drives a single game from creation to settlement. Callers
// serialize operations per game.
type GameService struct {
	Repo       repository.Repository
	Jackpot    *JackpotService
	Membership *MembershipService
	Settings   *SystemSettingsService
	Logger     *zap.Logger
	Now        func() time.Time
}

type CreateGameInput struct {
	SeasonID       string    `json:"season_id"`
	Date           time.Time `json:"date"`
	TotalPrizePool float64   `json:"total_prize_pool"`
	// PrizePoolNetOfJackpot defaults to true.
	PrizePoolNetOfJackpot *bool `json:"prize_pool_net_of_jackpot"`
}

type AddPlayerInput struct {
	PlayerID               string `json:"player_id"`
	BuyIn                  bool   `json:"buy_in"`
	JoinedDinner           bool   `json:"joined_dinner"`
	ParticipatesInClubFund bool   `json:"participates_in_club_fund"`
}

func (s *GameService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// CreateGame opens the next game of an active season and snapshots the
// season's current rates onto it.
func (s *GameService) CreateGame(ctx context.Context, in CreateGameInput) (*models.Game, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("game service not configured")
	}
	if in.TotalPrizePool < 0 {
		return nil, invalid("total_prize_pool", "must not be negative")
	}
	season, err := s.Repo.GetSeason(ctx, strings.TrimSpace(in.SeasonID))
	if err != nil {
		return nil, err
	}
	if season == nil {
		return nil, notFound("season", in.SeasonID)
	}
	if !season.IsActive {
		return nil, invalid("season_id", "season has ended")
	}
	number, err := s.Repo.NextGameNumber(ctx, season.ID)
	if err != nil {
		return nil, err
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	net := true
	if in.PrizePoolNetOfJackpot != nil {
		net = *in.PrizePoolNetOfJackpot
	}
	game := &models.Game{
		ID:                    uuid.NewString(),
		SeasonID:              season.ID,
		Number:                number,
		Date:                  date,
		TotalPrizePool:        in.TotalPrizePool,
		PrizePoolNetOfJackpot: net,
		Financial:             season.Financial,
	}
	if err := s.Repo.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	s.logInfo("game created", zap.String("season_id", season.ID), zap.String("game_id", game.ID), zap.Int("number", number))
	return game, nil
}

func (s *GameService) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("game service not configured")
	}
	game, err := s.Repo.GetGame(ctx, strings.TrimSpace(gameID))
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, notFound("game", gameID)
	}
	return game, nil
}

func (s *GameService) ListGames(ctx context.Context, seasonID string) ([]models.Game, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("game service not configured")
	}
	season, err := s.Repo.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return nil, notFound("season", seasonID)
	}
	return s.Repo.ListGamesBySeason(ctx, seasonID)
}

// openGame loads a game that may still be edited.
func (s *GameService) openGame(ctx context.Context, gameID string) (*models.Game, error) {
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.IsFinished {
		return nil, invalid("game_id", "game is finished")
	}
	return game, nil
}

func (s *GameService) seasonOf(ctx context.Context, game *models.Game) (*models.Season, error) {
	season, err := s.Repo.GetSeason(ctx, game.SeasonID)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return nil, notFound("season", game.SeasonID)
	}
	return season, nil
}

// AddPlayer seats a league member. Players cannot join once eliminations have
// started, since positions are counted from the active roster.
func (s *GameService) AddPlayer(ctx context.Context, gameID string, in AddPlayerInput) (*models.Game, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("game service not configured")
	}
	game, err := s.openGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	playerID := strings.TrimSpace(in.PlayerID)
	if playerID == "" {
		return nil, invalid("player_id", "is required")
	}
	player, err := s.Repo.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, notFound("player", playerID)
	}
	if p, _ := game.Player(playerID); p != nil {
		return nil, invalid("player_id", "player already in game")
	}
	for _, p := range game.Players {
		if p.Position != nil {
			return nil, invalid("player_id", "players cannot join after eliminations started")
		}
	}
	game.Players = append(game.Players, models.GamePlayer{
		GameID:                 game.ID,
		PlayerID:               playerID,
		Seat:                   len(game.Players) + 1,
		BuyIn:                  in.BuyIn,
		JoinedDinner:           in.JoinedDinner,
		ParticipatesInClubFund: in.ParticipatesInClubFund,
		ClubFundContribution:   ledger.ClubFundSnapshot(in.ParticipatesInClubFund, game.Financial),
	})
	if err := s.Repo.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *GameService) RecordRebuy(ctx context.Context, gameID, playerID string, count int) (*models.Game, error) {
	return s.updatePlayer(ctx, gameID, playerID, func(_ *models.Game, p *models.GamePlayer) error {
		if count < 1 {
			return invalid("count", "must be at least 1")
		}
		if !ledger.IsActive(*p) {
			return invalid("player_id", "player is not active")
		}
		p.Rebuys += count
		return nil
	})
}

func (s *GameService) RecordAddon(ctx context.Context, gameID, playerID string, count int) (*models.Game, error) {
	return s.updatePlayer(ctx, gameID, playerID, func(_ *models.Game, p *models.GamePlayer) error {
		if count < 1 {
			return invalid("count", "must be at least 1")
		}
		if !ledger.IsActive(*p) {
			return invalid("player_id", "player is not active")
		}
		p.Addons += count
		return nil
	})
}

func (s *GameService) SetDinnerParticipation(ctx context.Context, gameID, playerID string, joined bool) (*models.Game, error) {
	return s.updatePlayer(ctx, gameID, playerID, func(_ *models.Game, p *models.GamePlayer) error {
		p.JoinedDinner = joined
		return nil
	})
}

// SetClubFundParticipation re-evaluates the flag and rewrites the snapshot
// from the game's rates.
func (s *GameService) SetClubFundParticipation(ctx context.Context, gameID, playerID string, participates bool) (*models.Game, error) {
	return s.updatePlayer(ctx, gameID, playerID, func(g *models.Game, p *models.GamePlayer) error {
		season, err := s.seasonOf(ctx, g)
		if err != nil {
			return err
		}
		p.ParticipatesInClubFund = participates
		p.ClubFundContribution = ledger.ClubFundSnapshot(participates, ledger.EffectiveParams(*g, *season))
		return nil
	})
}

func (s *GameService) updatePlayer(ctx context.Context, gameID, playerID string, fn func(*models.Game, *models.GamePlayer) error) (*models.Game, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("game service not configured")
	}
	game, err := s.openGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	p, _ := game.Player(strings.TrimSpace(playerID))
	if p == nil {
		return nil, invalid("player_id", "player is not in game")
	}
	if err := fn(game, p); err != nil {
		return nil, err
	}
	if err := s.resettleIfPositioned(ctx, game); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// resettleIfPositioned keeps balances current once every player has a position.
func (s *GameService) resettleIfPositioned(ctx context.Context, game *models.Game) error {
	if !ledger.FullyPositioned(game.Players) {
		return nil
	}
	season, err := s.seasonOf(ctx, game)
	if err != nil {
		return err
	}
	*game = ledger.Settle(*game, *season)
	return nil
}

// RecordDinnerCost sets the total dinner bill. Nil clears it.
func (s *GameService) RecordDinnerCost(ctx context.Context, gameID string, cost *float64) (*models.Game, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("game service not configured")
	}
	if cost != nil && *cost < 0 {
		return nil, invalid("dinner_cost", "must not be negative")
	}
	game, err := s.openGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	game.DinnerCost = cost
	if err := s.resettleIfPositioned(ctx, game); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *GameService) EliminatePlayer(ctx context.Context, gameID, playerID, eliminatorID string) (*models.Game, error) {
	return s.EliminatePlayers(ctx, gameID, []string{playerID}, eliminatorID)
}

// EliminatePlayers records players knocked out in the same hand. The first
// listed player finishes worst.
func (s *GameService) EliminatePlayers(ctx context.Context, gameID string, playerIDs []string, eliminatorID string) (*models.Game, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("game service not configured")
	}
	game, err := s.openGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(playerIDs))
	for _, id := range playerIDs {
		ids = append(ids, strings.TrimSpace(id))
	}
	next, err := ledger.EliminateBatch(*game, ids, strings.TrimSpace(eliminatorID), s.now())
	if err != nil {
		return nil, fromLedger(err)
	}
	if err := s.resettleIfPositioned(ctx, &next); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveGame(ctx, &next); err != nil {
		return nil, err
	}
	s.logInfo("players eliminated",
		zap.String("game_id", next.ID),
		zap.Strings("player_ids", ids),
		zap.String("eliminated_by", eliminatorID),
		zap.Int("active_left", ledger.ActiveCount(next.Players)),
	)
	return &next, nil
}

// SwapPositions corrects the finishing order of two players, also on
// finished games. Only the two players are re-settled.
func (s *GameService) SwapPositions(ctx context.Context, gameID, playerA, playerB string) (*models.Game, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("game service not configured")
	}
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	season, err := s.seasonOf(ctx, game)
	if err != nil {
		return nil, err
	}
	next, err := ledger.SwapPositions(*game, *season, strings.TrimSpace(playerA), strings.TrimSpace(playerB))
	if err != nil {
		return nil, fromLedger(err)
	}
	if err := s.Repo.SaveGame(ctx, &next); err != nil {
		return nil, err
	}
	s.logInfo("positions swapped", zap.String("game_id", next.ID), zap.String("player_a", playerA), zap.String("player_b", playerB))
	return &next, nil
}

// SettleGame recomputes points, prize and balance for every positioned player.
// Finished games are rejected; they are only re-settled through SwapPositions.
func (s *GameService) SettleGame(ctx context.Context, gameID string) (*models.Game, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("game service not configured")
	}
	game, err := s.openGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	season, err := s.seasonOf(ctx, game)
	if err != nil {
		return nil, err
	}
	next := ledger.Settle(*game, *season)
	if err := s.Repo.SaveGame(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// FinishGame closes a fully positioned game: settle, add club-fund
// contributions to the season, then accrue the jackpot.
func (s *GameService) FinishGame(ctx context.Context, gameID string) (*models.Game, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("game service not configured")
	}
	game, err := s.openGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if len(game.Players) == 0 {
		return nil, invalid("game_id", "game has no players")
	}
	next, _ := ledger.AssignWinner(*game)
	if !ledger.FullyPositioned(next.Players) {
		return nil, invalid("game_id", "%d players still active", ledger.ActiveCount(next.Players))
	}
	season, err := s.seasonOf(ctx, &next)
	if err != nil {
		return nil, err
	}
	if !season.IsActive {
		return nil, invalid("season_id", "season has ended")
	}
	next = ledger.Settle(next, *season)
	finishedAt := s.now()
	next.IsFinished = true
	next.FinishedAt = &finishedAt

	clubFund := 0.0
	for _, p := range next.Players {
		clubFund += p.ClubFundContribution
	}
	if err := s.Repo.CompleteGame(ctx, &next, clubFund); err != nil {
		return nil, err
	}
	s.logInfo("game finished",
		zap.String("game_id", next.ID),
		zap.String("season_id", next.SeasonID),
		zap.Float64("club_fund", clubFund),
	)

	if s.Settings.IsEnabled(ctx, FeatureJackpotAutoAccrue, true) && s.Jackpot != nil {
		contribution, err := s.Jackpot.AccrueGame(ctx, next.ID)
		if err != nil {
			// The reconcile job accrues games left behind here.
			s.logWarn("jackpot accrual deferred", zap.String("game_id", next.ID), zap.Error(err))
		} else {
			next.JackpotAccrued = true
			next.JackpotContribution = contribution
		}
	}
	if s.Settings.IsEnabled(ctx, FeatureMembershipAutoCharge, false) && s.Membership != nil {
		if _, err := s.Membership.ChargeMemberships(ctx, next.ID); err != nil {
			s.logWarn("membership auto charge failed", zap.String("game_id", next.ID), zap.Error(err))
		}
	}
	return &next, nil
}

func (s *GameService) logInfo(msg string, fields ...zap.Field) {
	if s == nil || s.Logger == nil {
		return
	}
	s.Logger.Info(msg, fields...)
}

func (s *GameService) logWarn(msg string, fields ...zap.Field) {
	if s == nil || s.Logger == nil {
		return
	}
	s.Logger.Warn(msg, fields...)
}
