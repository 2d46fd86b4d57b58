package ledger

import (
	"reflect"
	"testing"
	"time"
)

func TestSettleTenPlayerExample(t *testing.T) {
	season := exampleSeason()
	g := Settle(finishedInOrder(tenPlayerGame()), season)

	p1, _ := g.Player("p1")
	if p1.Prize != 75 || p1.Points != 10 || p1.Balance != 60 {
		t.Fatalf("winner prize=%v points=%v balance=%v want=75/10/60", p1.Prize, p1.Points, p1.Balance)
	}
	p4, _ := g.Player("p4")
	if p4.Prize != 0 || p4.Points != 0 || p4.Balance != -15 {
		t.Fatalf("p4 prize=%v points=%v balance=%v", p4.Prize, p4.Points, p4.Balance)
	}
}

func TestSettlePrizeSumBound(t *testing.T) {
	season := exampleSeason()
	g := Settle(finishedInOrder(tenPlayerGame()), season)
	total := 0.0
	for _, p := range g.Players {
		total += p.Prize
	}
	if total != g.TotalPrizePool {
		t.Fatalf("prize sum=%v want=%v", total, g.TotalPrizePool)
	}

	season.WeeklyPrizeSchema = season.WeeklyPrizeSchema[:2]
	g = Settle(g, season)
	total = 0
	for _, p := range g.Players {
		total += p.Prize
	}
	if total > g.TotalPrizePool {
		t.Fatalf("prize sum=%v exceeds pool=%v", total, g.TotalPrizePool)
	}
}

func TestSettleIsIdempotent(t *testing.T) {
	season := exampleSeason()
	g := finishedInOrder(tenPlayerGame())
	g.DinnerCost = floatPtr(100)
	g.Players[0].JoinedDinner = true
	g.Players[4].JoinedDinner = true
	g.Players[2].Rebuys = 2

	once := Settle(g, season)
	twice := Settle(once, season)
	if !reflect.DeepEqual(once.Players, twice.Players) {
		t.Fatalf("settle not idempotent")
	}
}

func TestSettleLeavesUnpositionedUntouched(t *testing.T) {
	season := exampleSeason()
	g := tenPlayerGame()
	g.Players[5].Points = 42
	g.Players[5].Balance = -3
	g, _ = Eliminate(g, "p2", "", time.Now())
	g = Settle(g, season)
	if g.Players[5].Points != 42 || g.Players[5].Balance != -3 {
		t.Fatalf("unpositioned figures changed: %+v", g.Players[5])
	}
}

func TestSettleDinnerSplit(t *testing.T) {
	season := exampleSeason()
	g := finishedInOrder(tenPlayerGame())
	g.DinnerCost = floatPtr(60)
	g.Players[0].JoinedDinner = true
	g.Players[1].JoinedDinner = true
	g.Players[2].JoinedDinner = true
	g = Settle(g, season)
	p1, _ := g.Player("p1")
	if p1.Balance != 40 {
		t.Fatalf("balance=%v want=40", p1.Balance)
	}
}

func TestSettleGrossPoolWithholdsJackpot(t *testing.T) {
	season := exampleSeason()
	g := finishedInOrder(tenPlayerGame())
	g.TotalPrizePool = 200
	g.PrizePoolNetOfJackpot = false
	g = Settle(g, season)
	p1, _ := g.Player("p1")
	// 200 - 10 buy-ins x 5 = 150, half to the winner
	if p1.Prize != 75 {
		t.Fatalf("prize=%v want=75", p1.Prize)
	}
}
