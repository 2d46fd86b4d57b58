package ledger

import (
	"testing"

	"pokerleague/internal/models"
)

func TestSessionCost(t *testing.T) {
	params := models.FinancialParams{BuyIn: 15, Rebuy: 10, Addon: 5, ClubFundContribution: 3}
	p := models.GamePlayer{
		BuyIn:                true,
		Rebuys:               2,
		Addons:               1,
		JoinedDinner:         true,
		ClubFundContribution: 2,
	}
	got := SessionCost(p, params, floatPtr(90), 3)
	// 15 + 20 + 5 + 30 + 2 (snapshot, not the live rate of 3)
	if got != 72 {
		t.Fatalf("cost=%v want=72", got)
	}
}

func TestDinnerShareGuards(t *testing.T) {
	joined := models.GamePlayer{JoinedDinner: true}
	if got := DinnerShare(joined, nil, 4); got != 0 {
		t.Fatalf("unset cost share=%v want=0", got)
	}
	if got := DinnerShare(joined, floatPtr(100), 0); got != 0 {
		t.Fatalf("zero participants share=%v want=0", got)
	}
	if got := DinnerShare(models.GamePlayer{}, floatPtr(100), 4); got != 0 {
		t.Fatalf("not joined share=%v want=0", got)
	}
	if got := DinnerShare(joined, floatPtr(100), 4); got != 25 {
		t.Fatalf("share=%v want=25", got)
	}
}

func TestClubFundSnapshot(t *testing.T) {
	params := models.FinancialParams{ClubFundContribution: 4}
	if got := ClubFundSnapshot(true, params); got != 4 {
		t.Fatalf("snapshot=%v want=4", got)
	}
	if got := ClubFundSnapshot(false, params); got != 0 {
		t.Fatalf("snapshot=%v want=0", got)
	}
}

func TestEffectiveParamsFallsBackToSeason(t *testing.T) {
	season := exampleSeason()
	g := models.Game{}
	if got := EffectiveParams(g, season); got.BuyIn != 15 {
		t.Fatalf("buy_in=%v want=15", got.BuyIn)
	}
	g.Financial = models.FinancialParams{BuyIn: 20}
	if got := EffectiveParams(g, season); got.BuyIn != 20 {
		t.Fatalf("buy_in=%v want=20", got.BuyIn)
	}
}
