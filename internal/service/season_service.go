package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"pokerleague/internal/ledger"
	"pokerleague/internal/models"
	"pokerleague/internal/repository"
)

type SeasonService struct {
	Repo    repository.Repository
	Jackpot *JackpotService
	Logger  *zap.Logger
	Now     func() time.Time
}

type SeasonConfigInput struct {
	Financial         models.FinancialParams         `json:"financial_params"`
	ScoreSchema       []models.ScoreEntry            `json:"score_schema"`
	WeeklyPrizeSchema []models.PrizeEntry            `json:"weekly_prize_schema"`
	SeasonPrizeSchema []models.PrizeEntry            `json:"season_prize_schema"`
	EliminationReward models.EliminationRewardConfig `json:"elimination_reward"`
}

type CreateSeasonInput struct {
	Name      string    `json:"name"`
	StartedAt time.Time `json:"started_at"`
	SeasonConfigInput
}

type EndSeasonResult struct {
	Season        *models.Season               `json:"season"`
	Distributions []models.JackpotDistribution `json:"distributions"`
	Standings     []ledger.Standing            `json:"standings"`
}

func (s *SeasonService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// validateConfig rejects rates no game could be settled with. Schema shape is
// left alone; lookups tolerate gaps and sums other than 100.
func validateConfig(in SeasonConfigInput) error {
	f := in.Financial
	for field, v := range map[string]float64{
		"buy_in":                 f.BuyIn,
		"rebuy":                  f.Rebuy,
		"addon":                  f.Addon,
		"jackpot_contribution":   f.JackpotContribution,
		"club_fund_contribution": f.ClubFundContribution,
		"club_membership_value":  f.ClubMembershipValue,
	} {
		if v < 0 {
			return invalid("financial_params."+field, "must not be negative")
		}
	}
	if f.ClubMembershipFrequency != "" && !f.ClubMembershipFrequency.Valid() {
		return invalid("financial_params.club_membership_frequency", "must be weekly, monthly or quarterly")
	}
	for _, e := range in.ScoreSchema {
		if e.Position < 1 || e.Points < 0 {
			return invalid("score_schema", "position %d: positions start at 1 and points must not be negative", e.Position)
		}
	}
	for field, schema := range map[string][]models.PrizeEntry{
		"weekly_prize_schema": in.WeeklyPrizeSchema,
		"season_prize_schema": in.SeasonPrizeSchema,
	} {
		for _, e := range schema {
			if e.Position < 1 || e.Percentage < 0 {
				return invalid(field, "position %d: positions start at 1 and percentages must not be negative", e.Position)
			}
		}
	}
	r := in.EliminationReward
	if r.Enabled && r.RewardType != models.RewardTypePoints && r.RewardType != models.RewardTypeMoney {
		return invalid("elimination_reward.reward_type", "must be points or money")
	}
	if r.MaxRewardsPerGame < 0 {
		return invalid("elimination_reward.max_rewards_per_game", "must not be negative")
	}
	return nil
}

func applyConfig(season *models.Season, in SeasonConfigInput) {
	season.Financial = in.Financial
	season.ScoreSchema = in.ScoreSchema
	season.WeeklyPrizeSchema = in.WeeklyPrizeSchema
	season.SeasonPrizeSchema = in.SeasonPrizeSchema
	season.EliminationReward = in.EliminationReward
	if season.EliminationReward.Frequency < 1 {
		season.EliminationReward.Frequency = 1
	}
}

func (s *SeasonService) CreateSeason(ctx context.Context, in CreateSeasonInput) (*models.Season, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("season service not configured")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if err := validateConfig(in.SeasonConfigInput); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	sl := slug.Make(name)
	existing, err := s.Repo.GetSeasonBySlug(ctx, sl)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		sl = sl + "-" + id[:8]
	}
	started := in.StartedAt
	if started.IsZero() {
		started = s.now()
	}
	season := &models.Season{
		ID:        id,
		Name:      name,
		Slug:      sl,
		IsActive:  true,
		StartedAt: started,
	}
	applyConfig(season, in.SeasonConfigInput)
	if err := s.Repo.SaveSeason(ctx, season); err != nil {
		return nil, err
	}
	s.logInfo("season created", zap.String("season_id", season.ID), zap.String("slug", season.Slug))
	return season, nil
}

// UpdateSeasonConfig changes rates and schemas for games created from now on.
// Existing games keep their snapshot.
func (s *SeasonService) UpdateSeasonConfig(ctx context.Context, seasonID string, in SeasonConfigInput) (*models.Season, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("season service not configured")
	}
	if err := validateConfig(in); err != nil {
		return nil, err
	}
	season, err := s.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if !season.IsActive {
		return nil, invalid("season_id", "season has ended")
	}
	applyConfig(season, in)
	season.UpdatedAt = s.now()
	if err := s.Repo.UpdateSeasonConfig(ctx, season); err != nil {
		return nil, err
	}
	updated, err := s.Repo.GetSeason(ctx, season.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, notFound("season", season.ID)
	}
	return updated, nil
}

// GetSeason resolves a season by id or slug.
func (s *SeasonService) GetSeason(ctx context.Context, ref string) (*models.Season, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("season service not configured")
	}
	ref = strings.TrimSpace(ref)
	season, err := s.Repo.GetSeason(ctx, ref)
	if err != nil {
		return nil, err
	}
	if season == nil {
		season, err = s.Repo.GetSeasonBySlug(ctx, ref)
		if err != nil {
			return nil, err
		}
	}
	if season == nil {
		return nil, notFound("season", ref)
	}
	return season, nil
}

func (s *SeasonService) ListSeasons(ctx context.Context, params repository.ListSeasonsParams) ([]models.Season, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("season service not configured")
	}
	return s.Repo.ListSeasons(ctx, params)
}

// SeasonRanking ranks players over the season's finished games.
func (s *SeasonService) SeasonRanking(ctx context.Context, seasonID string) ([]ledger.Standing, error) {
	season, err := s.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	games, err := s.Repo.ListFinishedGames(ctx, season.ID)
	if err != nil {
		return nil, err
	}
	cfg := season.EliminationReward
	return ledger.Standings(games, &cfg), nil
}

func (s *SeasonService) ListDistributions(ctx context.Context, seasonID string) ([]models.JackpotDistribution, error) {
	season, err := s.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListJackpotDistributions(ctx, season.ID)
}

// EndSeason pays out the jackpot along the season prize schema and closes the
// season. It cannot be undone.
func (s *SeasonService) EndSeason(ctx context.Context, seasonID string) (*EndSeasonResult, error) {
	season, err := s.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if !season.IsActive {
		return nil, invalid("season_id", "season is not active")
	}

	var result *EndSeasonResult
	run := func() error {
		current, err := s.Repo.GetSeason(ctx, season.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("season", season.ID)
		}
		if !current.IsActive {
			return invalid("season_id", "season is not active")
		}
		games, err := s.Repo.ListFinishedGames(ctx, current.ID)
		if err != nil {
			return err
		}
		if s.Jackpot != nil {
			accrued := 0
			for _, g := range games {
				if g.JackpotAccrued {
					continue
				}
				_, ok, err := s.Jackpot.accrueLocked(ctx, g.ID)
				if err != nil {
					return err
				}
				if ok {
					accrued++
				}
			}
			if accrued > 0 {
				if current, err = s.Repo.GetSeason(ctx, season.ID); err != nil {
					return err
				}
				if current == nil {
					return notFound("season", season.ID)
				}
				s.logInfo("pending games accrued before season end",
					zap.String("season_id", season.ID),
					zap.Int("games", accrued),
				)
			}
		}
		cfg := current.EliminationReward
		standings := ledger.Standings(games, &cfg)
		dists := ledger.Distribute(*current, ledger.RankingIDs(standings))
		now := s.now()
		for i := range dists {
			dists[i].ID = uuid.NewString()
			dists[i].CreatedAt = now
		}

		ended := *current
		ended.Jackpot = 0
		ended.IsActive = false
		ended.EndedAt = &now
		if err := s.Repo.FinalizeSeason(ctx, &ended, dists); err != nil {
			return err
		}
		result = &EndSeasonResult{Season: &ended, Distributions: dists, Standings: standings}
		s.logInfo("season ended",
			zap.String("season_id", ended.ID),
			zap.Float64("jackpot", current.Jackpot),
			zap.Int("distributions", len(dists)),
		)
		return nil
	}

	if s.Jackpot != nil {
		err = s.Jackpot.withSeasonLock(ctx, season.ID, run)
		s.Jackpot.forget(ctx, season.ID)
	} else {
		err = run()
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SeasonService) logInfo(msg string, fields ...zap.Field) {
	if s == nil || s.Logger == nil {
		return
	}
	s.Logger.Info(msg, fields...)
}
