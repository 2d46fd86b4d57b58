package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pokerleague/internal/cache"
	"pokerleague/internal/models"
)

type league struct {
	repo       *stubRepo
	cache      *cache.MemoryStore
	settings   *SystemSettingsService
	jackpot    *JackpotService
	seasons    *SeasonService
	games      *GameService
	players    *PlayerService
	membership *MembershipService
}

var testNow = time.Date(2026, 8, 20, 22, 0, 0, 0, time.UTC)

func newLeague() *league {
	repo := newStubRepo()
	mem := cache.NewMemoryStore()
	settings := &SystemSettingsService{Repo: repo}
	jackpot := &JackpotService{Repo: repo, Cache: mem, Settings: settings}
	membership := &MembershipService{Repo: repo}
	now := func() time.Time { return testNow }
	return &league{
		repo:       repo,
		cache:      mem,
		settings:   settings,
		jackpot:    jackpot,
		seasons:    &SeasonService{Repo: repo, Jackpot: jackpot, Now: now},
		games:      &GameService{Repo: repo, Jackpot: jackpot, Membership: membership, Settings: settings, Now: now},
		players:    &PlayerService{Repo: repo},
		membership: membership,
	}
}

func exampleConfig() SeasonConfigInput {
	return SeasonConfigInput{
		Financial: models.FinancialParams{
			BuyIn:                   15,
			Rebuy:                   10,
			Addon:                   5,
			JackpotContribution:     5,
			ClubFundContribution:    2,
			ClubMembershipValue:     20,
			ClubMembershipFrequency: models.FrequencyMonthly,
		},
		ScoreSchema: []models.ScoreEntry{
			{Position: 1, Points: 10}, {Position: 2, Points: 7}, {Position: 3, Points: 5},
		},
		WeeklyPrizeSchema: []models.PrizeEntry{
			{Position: 1, Percentage: 50}, {Position: 2, Percentage: 30}, {Position: 3, Percentage: 20},
		},
		SeasonPrizeSchema: []models.PrizeEntry{
			{Position: 1, Percentage: 60}, {Position: 2, Percentage: 40},
		},
	}
}

func (l *league) newSeason(t *testing.T, name string) *models.Season {
	t.Helper()
	season, err := l.seasons.CreateSeason(context.Background(), CreateSeasonInput{
		Name:              name,
		SeasonConfigInput: exampleConfig(),
	})
	if err != nil {
		t.Fatalf("create season: %v", err)
	}
	return season
}

func (l *league) seedPlayers(n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("p%d", i)
		l.repo.players[id] = models.Player{ID: id, Name: fmt.Sprintf("Player %d", i)}
		ids = append(ids, id)
	}
	return ids
}

// openGame creates a game with every player bought in.
func (l *league) openGame(t *testing.T, seasonID string, date time.Time, pool float64, ids []string) *models.Game {
	t.Helper()
	ctx := context.Background()
	game, err := l.games.CreateGame(ctx, CreateGameInput{SeasonID: seasonID, Date: date, TotalPrizePool: pool})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	for _, id := range ids {
		if game, err = l.games.AddPlayer(ctx, game.ID, AddPlayerInput{PlayerID: id, BuyIn: true}); err != nil {
			t.Fatalf("add player %s: %v", id, err)
		}
	}
	return game
}

// playGame knocks players out from the last id to the second; the first id wins.
func (l *league) playGame(t *testing.T, seasonID string, date time.Time, pool float64, ids []string) *models.Game {
	t.Helper()
	ctx := context.Background()
	game := l.openGame(t, seasonID, date, pool, ids)
	for i := len(ids) - 1; i >= 1; i-- {
		var err error
		if game, err = l.games.EliminatePlayer(ctx, game.ID, ids[i], ids[0]); err != nil {
			t.Fatalf("eliminate %s: %v", ids[i], err)
		}
	}
	game, err := l.games.FinishGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("finish game: %v", err)
	}
	return game
}
