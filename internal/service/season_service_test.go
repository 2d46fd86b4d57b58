package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"pokerleague/internal/models"
)

func TestCreateSeasonSlugAndDefaults(t *testing.T) {
	ctx := context.Background()
	l := newLeague()
	first := l.newSeason(t, "Liga Quinta-Feira 2026")
	if first.Slug != "liga-quinta-feira-2026" || !first.IsActive {
		t.Fatalf("slug=%q active=%v", first.Slug, first.IsActive)
	}
	if first.EliminationReward.Frequency != 1 {
		t.Fatalf("frequency=%d want=1", first.EliminationReward.Frequency)
	}
	second := l.newSeason(t, "Liga Quinta-Feira 2026")
	if second.Slug == first.Slug || !strings.HasPrefix(second.Slug, first.Slug+"-") {
		t.Fatalf("second slug=%q", second.Slug)
	}
	got, err := l.seasons.GetSeason(ctx, first.Slug)
	if err != nil || got.ID != first.ID {
		t.Fatalf("by slug=%v err=%v", got, err)
	}
}

func TestCreateSeasonValidation(t *testing.T) {
	ctx := context.Background()
	l := newLeague()
	if _, err := l.seasons.CreateSeason(ctx, CreateSeasonInput{}); !IsValidation(err) {
		t.Fatalf("empty name err=%v", err)
	}
	cfg := exampleConfig()
	cfg.Financial.Rebuy = -1
	if _, err := l.seasons.CreateSeason(ctx, CreateSeasonInput{Name: "x", SeasonConfigInput: cfg}); !IsValidation(err) {
		t.Fatalf("negative rebuy err=%v", err)
	}
	cfg = exampleConfig()
	cfg.Financial.ClubMembershipFrequency = "yearly"
	if _, err := l.seasons.CreateSeason(ctx, CreateSeasonInput{Name: "x", SeasonConfigInput: cfg}); !IsValidation(err) {
		t.Fatalf("bad frequency err=%v", err)
	}
	cfg = exampleConfig()
	cfg.WeeklyPrizeSchema = append(cfg.WeeklyPrizeSchema, models.PrizeEntry{Position: 0, Percentage: 10})
	if _, err := l.seasons.CreateSeason(ctx, CreateSeasonInput{Name: "x", SeasonConfigInput: cfg}); !IsValidation(err) {
		t.Fatalf("position 0 err=%v", err)
	}
}

func TestEndSeasonDistributesJackpot(t *testing.T) {
	ctx := context.Background()
	l := newLeague()
	season := l.newSeason(t, "Finale")
	ids := l.seedPlayers(10)
	l.playGame(t, season.ID, testNow, 150, ids)
	l.playGame(t, season.ID, testNow.Add(7*24*time.Hour), 150, []string{"p2", "p1", "p3", "p4", "p5", "p6", "p7", "p8", "p9", "p10"})

	ranking, err := l.seasons.SeasonRanking(ctx, season.ID)
	if err != nil {
		t.Fatalf("ranking: %v", err)
	}
	// p1: 10+7, p2: 7+10, tie broken by prize (75+45 each) then id
	if ranking[0].PlayerID != "p1" || ranking[1].PlayerID != "p2" || ranking[0].Points != 17 {
		t.Fatalf("ranking=%+v", ranking[:2])
	}

	result, err := l.seasons.EndSeason(ctx, season.ID)
	if err != nil {
		t.Fatalf("end season: %v", err)
	}
	if len(result.Distributions) != 2 {
		t.Fatalf("distributions=%d want=2", len(result.Distributions))
	}
	d := result.Distributions[0]
	if d.PlayerID != "p1" || d.PrizeAmount != 60 || d.TotalJackpot != 100 || d.ID == "" {
		t.Fatalf("first=%+v", d)
	}
	if result.Distributions[1].PrizeAmount != 40 {
		t.Fatalf("second=%+v", result.Distributions[1])
	}

	stored, _ := l.repo.GetSeason(ctx, season.ID)
	if stored.IsActive || stored.Jackpot != 0 || stored.EndedAt == nil {
		t.Fatalf("season after end=%+v", stored)
	}
	if _, err := l.seasons.EndSeason(ctx, season.ID); !IsValidation(err) {
		t.Fatalf("second end err=%v want validation", err)
	}
	if _, err := l.games.CreateGame(ctx, CreateGameInput{SeasonID: season.ID}); !IsValidation(err) {
		t.Fatalf("create game on ended season err=%v", err)
	}
	if _, err := l.jackpot.UpdateJackpot(ctx, season.ID, 5); !IsValidation(err) {
		t.Fatalf("jackpot on ended season err=%v", err)
	}
	dists, _ := l.seasons.ListDistributions(ctx, season.ID)
	if len(dists) != 2 {
		t.Fatalf("stored distributions=%d", len(dists))
	}
}

func TestEndSeasonSkipsUnrankedPositions(t *testing.T) {
	ctx := context.Background()
	l := newLeague()
	season := l.newSeason(t, "Tiny")
	s := l.repo.seasons[season.ID]
	s.Jackpot = 80
	s.SeasonPrizeSchema = []models.PrizeEntry{{Position: 1, Percentage: 50}, {Position: 5, Percentage: 50}}
	l.repo.seasons[season.ID] = s
	l.seedPlayers(2)
	l.playGame(t, season.ID, testNow, 0, []string{"p1", "p2"})

	result, err := l.seasons.EndSeason(ctx, season.ID)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if len(result.Distributions) != 1 || result.Distributions[0].PrizeAmount != 45 {
		t.Fatalf("distributions=%+v", result.Distributions)
	}
}

func TestSeasonNotFound(t *testing.T) {
	ctx := context.Background()
	l := newLeague()
	if _, err := l.seasons.SeasonRanking(ctx, "nope"); !IsNotFound(err) {
		t.Fatalf("err=%v want not found", err)
	}
	if _, err := l.seasons.EndSeason(ctx, "nope"); !IsNotFound(err) {
		t.Fatalf("err=%v want not found", err)
	}
}

func TestEndSeasonAccruesPendingGames(t *testing.T) {
	ctx := context.Background()
	l := newLeague()
	season := l.newSeason(t, "Deferred")
	ids := l.seedPlayers(4)
	l.playGame(t, season.ID, testNow, 60, ids)
	if err := l.settings.SetEnabled(ctx, FeatureJackpotAutoAccrue, false); err != nil {
		t.Fatalf("switch: %v", err)
	}
	second := l.playGame(t, season.ID, testNow.Add(7*24*time.Hour), 60, ids)
	if second.JackpotAccrued {
		t.Fatalf("second game accrued with auto accrue off")
	}
	if got := l.repo.seasons[season.ID].Jackpot; got != 20 {
		t.Fatalf("jackpot before end=%v want=20", got)
	}

	result, err := l.seasons.EndSeason(ctx, season.ID)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	paid := 0.0
	for _, d := range result.Distributions {
		paid += d.PrizeAmount
		if d.TotalJackpot != 40 {
			t.Fatalf("total_jackpot=%v want=40", d.TotalJackpot)
		}
	}
	if paid != 40 {
		t.Fatalf("distributed=%v want=40", paid)
	}
	stored, _ := l.repo.GetGame(ctx, second.ID)
	if !stored.JackpotAccrued || stored.JackpotContribution != 20 {
		t.Fatalf("second game accrued=%v contribution=%v", stored.JackpotAccrued, stored.JackpotContribution)
	}
}

func TestUpdateSeasonConfigKeepsConcurrentJackpot(t *testing.T) {
	ctx := context.Background()
	l := newLeague()
	season := l.newSeason(t, "Rates")
	l.repo.beforeSeasonConfigWrite = func() {
		if err := l.repo.UpdateSeasonJackpot(ctx, season.ID, 40); err != nil {
			t.Errorf("jackpot write: %v", err)
		}
	}

	cfg := exampleConfig()
	cfg.Financial.Rebuy = 12
	updated, err := l.seasons.UpdateSeasonConfig(ctx, season.ID, cfg)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	stored := l.repo.seasons[season.ID]
	if stored.Jackpot != 40 || updated.Jackpot != 40 {
		t.Fatalf("jackpot stored=%v returned=%v want=40", stored.Jackpot, updated.Jackpot)
	}
	if stored.Financial.Rebuy != 12 {
		t.Fatalf("rebuy=%v want=12", stored.Financial.Rebuy)
	}
}
