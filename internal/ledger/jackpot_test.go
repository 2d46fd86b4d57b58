package ledger

import (
	"testing"

	"pokerleague/internal/models"
)

func TestGameContributionEightBuyIns(t *testing.T) {
	g := tenPlayerGame()
	g.Players[8].BuyIn = false
	g.Players[9].BuyIn = false
	got := GameContribution(g, models.FinancialParams{JackpotContribution: 5})
	if got != 40 {
		t.Fatalf("contribution=%v want=40", got)
	}
}

func TestRecomputeMatchesIncrementalInAnyOrder(t *testing.T) {
	season := exampleSeason()
	var games []models.Game
	for i, buyIns := range []int{8, 10, 3} {
		g := tenPlayerGame()
		g.ID = string(rune('a' + i))
		g.IsFinished = true
		for j := range g.Players {
			g.Players[j].BuyIn = j < buyIns
		}
		games = append(games, g)
	}
	games[2].Financial = models.FinancialParams{JackpotContribution: 2}

	forward := 0.0
	for _, g := range games {
		forward = ApplyDelta(forward, GameContribution(g, EffectiveParams(g, season)))
	}
	backward := 0.0
	for i := len(games) - 1; i >= 0; i-- {
		backward = ApplyDelta(backward, GameContribution(games[i], EffectiveParams(games[i], season)))
	}
	full := Recompute(season, games)
	if full != forward || full != backward || full != 96 {
		t.Fatalf("full=%v forward=%v backward=%v want=96", full, forward, backward)
	}

	games[1].IsFinished = false
	if got := Recompute(season, games); got != 46 {
		t.Fatalf("recompute=%v want=46", got)
	}
}

func TestApplyDeltaClampsAtZero(t *testing.T) {
	if got := ApplyDelta(10, -25); got != 0 {
		t.Fatalf("jackpot=%v want=0", got)
	}
}

func TestDistribute(t *testing.T) {
	season := exampleSeason()
	season.Jackpot = 500
	season.SeasonPrizeSchema = []models.PrizeEntry{
		{Position: 2, Percentage: 30},
		{Position: 1, Percentage: 70},
		{Position: 4, Percentage: 10},
	}
	got := Distribute(season, []string{"p9", "p3", "p5"})
	if len(got) != 2 {
		t.Fatalf("len=%d want=2", len(got))
	}
	if got[0].PlayerID != "p9" || got[0].PrizeAmount != 350 || got[0].TotalJackpot != 500 {
		t.Fatalf("first=%+v", got[0])
	}
	if got[1].PlayerID != "p3" || got[1].PrizeAmount != 150 || got[1].Position != 2 {
		t.Fatalf("second=%+v", got[1])
	}
}
