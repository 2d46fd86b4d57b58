package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"pokerleague/internal/cache"
	"pokerleague/internal/ledger"
	"pokerleague/internal/repository"
)

// JackpotService owns every write to a season's jackpot. Writes for one season
// are serialized by a per-season lock; a second writer is rejected rather than
// queued.
type JackpotService struct {
	Repo     repository.Repository
	Cache    cache.Store
	Settings *SystemSettingsService
	Logger   *zap.Logger

	// SettleDelay keeps the lock held after the confirming re-read.
	SettleDelay time.Duration
	CacheTTL    time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// JackpotSnapshot is the confirmed jackpot state kept in the cache.
type JackpotSnapshot struct {
	SeasonID    string    `json:"season_id"`
	Jackpot     float64   `json:"jackpot"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// ConsistencyWarning reports drift between the stored jackpot and the sum of
// finished game contributions. It is informational, never an error.
type ConsistencyWarning struct {
	SeasonID    string  `json:"season_id"`
	Accumulated float64 `json:"accumulated"`
	Recomputed  float64 `json:"recomputed"`
	Difference  float64 `json:"difference"`
}

func (w ConsistencyWarning) String() string {
	return fmt.Sprintf("season %s jackpot drift: accumulated=%.2f recomputed=%.2f", w.SeasonID, w.Accumulated, w.Recomputed)
}

type JackpotReport struct {
	SeasonID     string              `json:"season_id"`
	Jackpot      float64             `json:"jackpot"`
	Recomputed   float64             `json:"recomputed"`
	AccruedGames []string            `json:"accrued_games,omitempty"`
	Warning      *ConsistencyWarning `json:"warning,omitempty"`
	Corrected    bool                `json:"corrected"`
}

func (s *JackpotService) seasonLock(seasonID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks == nil {
		s.locks = map[string]*sync.Mutex{}
	}
	l, ok := s.locks[seasonID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[seasonID] = l
	}
	return l
}

// withSeasonLock runs fn holding the season lock, then waits SettleDelay
// before releasing it.
func (s *JackpotService) withSeasonLock(ctx context.Context, seasonID string, fn func() error) error {
	l := s.seasonLock(seasonID)
	if !l.TryLock() {
		return ErrJackpotUpdateInFlight
	}
	defer l.Unlock()
	if err := fn(); err != nil {
		return err
	}
	if s.SettleDelay > 0 {
		t := time.NewTimer(s.SettleDelay)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
	}
	return nil
}

// UpdateJackpot applies delta to the season jackpot, clamped at zero.
func (s *JackpotService) UpdateJackpot(ctx context.Context, seasonID string, delta float64) (float64, error) {
	if s == nil || s.Repo == nil {
		return 0, errors.New("jackpot service not configured")
	}
	var out float64
	err := s.withSeasonLock(ctx, seasonID, func() error {
		v, err := s.applyLocked(ctx, seasonID, delta, func(next float64) error {
			return s.Repo.UpdateSeasonJackpot(ctx, seasonID, next)
		})
		out = v
		return err
	})
	return out, err
}

// applyLocked is the read, write, confirm cycle. The caller holds the season lock.
func (s *JackpotService) applyLocked(ctx context.Context, seasonID string, delta float64, persist func(next float64) error) (float64, error) {
	season, err := s.Repo.GetSeason(ctx, seasonID)
	if err != nil {
		return 0, err
	}
	if season == nil {
		return 0, notFound("season", seasonID)
	}
	if !season.IsActive {
		return 0, invalid("season_id", "season has ended")
	}
	next := ledger.ApplyDelta(season.Jackpot, delta)
	if err := persist(next); err != nil {
		return 0, err
	}
	return s.confirm(ctx, seasonID, next)
}

func (s *JackpotService) confirm(ctx context.Context, seasonID string, want float64) (float64, error) {
	confirmed, err := s.Repo.GetSeason(ctx, seasonID)
	if err != nil {
		return 0, err
	}
	if confirmed == nil {
		return 0, notFound("season", seasonID)
	}
	if confirmed.Jackpot != want {
		return confirmed.Jackpot, fmt.Errorf("jackpot confirm mismatch for season %s: wrote %.2f read %.2f", seasonID, want, confirmed.Jackpot)
	}
	s.storeSnapshot(ctx, seasonID, confirmed.Jackpot)
	return confirmed.Jackpot, nil
}

func (s *JackpotService) storeSnapshot(ctx context.Context, seasonID string, jackpot float64) {
	snap := JackpotSnapshot{SeasonID: seasonID, Jackpot: jackpot, ConfirmedAt: time.Now().UTC()}
	if err := cache.SetJSON(ctx, s.Cache, cache.JackpotKey(seasonID), snap, s.CacheTTL); err != nil {
		s.logWarn("jackpot cache set failed", zap.String("season_id", seasonID), zap.Error(err))
	}
}

// AccrueGame adds a finished game's contribution to its season exactly once.
func (s *JackpotService) AccrueGame(ctx context.Context, gameID string) (float64, error) {
	if s == nil || s.Repo == nil {
		return 0, errors.New("jackpot service not configured")
	}
	game, err := s.Repo.GetGame(ctx, gameID)
	if err != nil {
		return 0, err
	}
	if game == nil {
		return 0, notFound("game", gameID)
	}
	if !game.IsFinished {
		return 0, invalid("game_id", "game is not finished")
	}
	var contribution float64
	err = s.withSeasonLock(ctx, game.SeasonID, func() error {
		c, _, err := s.accrueLocked(ctx, game.ID)
		contribution = c
		return err
	})
	return contribution, err
}

// accrueLocked re-reads the game under the season lock so a game is never
// accrued twice.
func (s *JackpotService) accrueLocked(ctx context.Context, gameID string) (float64, bool, error) {
	game, err := s.Repo.GetGame(ctx, gameID)
	if err != nil {
		return 0, false, err
	}
	if game == nil {
		return 0, false, notFound("game", gameID)
	}
	if game.JackpotAccrued || !game.IsFinished {
		return 0, false, nil
	}
	season, err := s.Repo.GetSeason(ctx, game.SeasonID)
	if err != nil {
		return 0, false, err
	}
	if season == nil {
		return 0, false, notFound("season", game.SeasonID)
	}
	contribution := ledger.GameContribution(*game, ledger.EffectiveParams(*game, *season))
	_, err = s.applyLocked(ctx, game.SeasonID, contribution, func(next float64) error {
		return s.Repo.AccrueGameJackpot(ctx, game.SeasonID, game.ID, next, contribution)
	})
	if err != nil {
		return 0, false, err
	}
	s.logInfo("jackpot accrued",
		zap.String("season_id", game.SeasonID),
		zap.String("game_id", game.ID),
		zap.Float64("contribution", contribution),
	)
	return contribution, true, nil
}

// RecalculateJackpot accrues any finished game that was missed, then compares
// the stored jackpot with the sum over finished games and corrects drift.
func (s *JackpotService) RecalculateJackpot(ctx context.Context, seasonID string) (*JackpotReport, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("jackpot service not configured")
	}
	season, err := s.Repo.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return nil, notFound("season", seasonID)
	}
	if !season.IsActive {
		return nil, invalid("season_id", "season has ended")
	}

	report := &JackpotReport{SeasonID: seasonID}
	err = s.withSeasonLock(ctx, seasonID, func() error {
		games, err := s.Repo.ListFinishedGames(ctx, seasonID)
		if err != nil {
			return err
		}
		for _, g := range games {
			if g.JackpotAccrued {
				continue
			}
			if _, ok, err := s.accrueLocked(ctx, g.ID); err != nil {
				return err
			} else if ok {
				report.AccruedGames = append(report.AccruedGames, g.ID)
			}
		}

		current, err := s.Repo.GetSeason(ctx, seasonID)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("season", seasonID)
		}
		report.Recomputed = ledger.Recompute(*current, games)
		report.Jackpot = current.Jackpot
		if sameAmount(current.Jackpot, report.Recomputed) {
			s.storeSnapshot(ctx, seasonID, current.Jackpot)
			return nil
		}

		report.Warning = &ConsistencyWarning{
			SeasonID:    seasonID,
			Accumulated: current.Jackpot,
			Recomputed:  report.Recomputed,
			Difference:  report.Recomputed - current.Jackpot,
		}
		s.logWarn("jackpot drift detected",
			zap.String("season_id", seasonID),
			zap.Float64("accumulated", current.Jackpot),
			zap.Float64("recomputed", report.Recomputed),
		)
		if err := s.Repo.UpdateSeasonJackpot(ctx, seasonID, report.Recomputed); err != nil {
			return err
		}
		confirmed, err := s.confirm(ctx, seasonID, report.Recomputed)
		if err != nil {
			return err
		}
		report.Jackpot = confirmed
		report.Corrected = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// CurrentJackpot serves the confirmed snapshot from the cache, falling back to storage.
func (s *JackpotService) CurrentJackpot(ctx context.Context, seasonID string) (*JackpotSnapshot, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("jackpot service not configured")
	}
	var snap JackpotSnapshot
	found, err := cache.GetJSON(ctx, s.Cache, cache.JackpotKey(seasonID), &snap)
	if err != nil {
		s.logWarn("jackpot cache get failed", zap.String("season_id", seasonID), zap.Error(err))
	}
	if found {
		return &snap, nil
	}
	season, err := s.Repo.GetSeason(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return nil, notFound("season", seasonID)
	}
	s.storeSnapshot(ctx, seasonID, season.Jackpot)
	return &JackpotSnapshot{SeasonID: seasonID, Jackpot: season.Jackpot, ConfirmedAt: time.Now().UTC()}, nil
}

// ReconcileActiveSeasons is the cron entry: recalculate every active season.
func (s *JackpotService) ReconcileActiveSeasons(ctx context.Context) {
	if s == nil || s.Repo == nil {
		return
	}
	if !s.Settings.IsEnabled(ctx, FeatureJackpotReconcile, true) {
		return
	}
	active := true
	seasons, err := s.Repo.ListSeasons(ctx, repository.ListSeasonsParams{IsActive: &active, Limit: 500})
	if err != nil {
		s.logWarn("jackpot reconcile: list seasons failed", zap.Error(err))
		return
	}
	for _, season := range seasons {
		report, err := s.RecalculateJackpot(ctx, season.ID)
		if errors.Is(err, ErrJackpotUpdateInFlight) {
			s.logInfo("jackpot reconcile: skipped busy season", zap.String("season_id", season.ID))
			continue
		}
		if err != nil {
			s.logWarn("jackpot reconcile failed", zap.String("season_id", season.ID), zap.Error(err))
			continue
		}
		if report.Warning != nil || len(report.AccruedGames) > 0 {
			s.logInfo("jackpot reconciled",
				zap.String("season_id", season.ID),
				zap.Float64("jackpot", report.Jackpot),
				zap.Int("accrued_games", len(report.AccruedGames)),
				zap.Bool("corrected", report.Corrected),
			)
		}
	}
}

// sameAmount ignores float noise below a hundredth of a cent.
func sameAmount(a, b float64) bool {
	return math.Abs(a-b) < 1e-4
}

func (s *JackpotService) forget(ctx context.Context, seasonID string) {
	if s == nil || s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, cache.JackpotKey(seasonID)); err != nil {
		s.logWarn("jackpot cache delete failed", zap.String("season_id", seasonID), zap.Error(err))
	}
}

func (s *JackpotService) logInfo(msg string, fields ...zap.Field) {
	if s == nil || s.Logger == nil {
		return
	}
	s.Logger.Info(msg, fields...)
}

func (s *JackpotService) logWarn(msg string, fields ...zap.Field) {
	if s == nil || s.Logger == nil {
		return
	}
	s.Logger.Warn(msg, fields...)
}
