package ledger

import (
	"testing"

	"pokerleague/internal/models"
)

func TestStandingsOrderAndBonus(t *testing.T) {
	season := exampleSeason()
	g := Settle(finishedInOrder(tenPlayerGame()), season)
	g.IsFinished = true

	cfg := &models.EliminationRewardConfig{Enabled: true, RewardType: models.RewardTypePoints, RewardValue: 1, Frequency: 3}
	got := Standings([]models.Game{g}, cfg)
	if len(got) != 10 {
		t.Fatalf("len=%d want=10", len(got))
	}
	if got[0].PlayerID != "p1" || got[0].Points != 13 || got[0].BonusPoints != 3 || got[0].Eliminations != 9 {
		t.Fatalf("leader=%+v", got[0])
	}
	if got[1].PlayerID != "p2" || got[2].PlayerID != "p3" {
		t.Fatalf("order=%v", RankingIDs(got))
	}
	// p4..p10 tie on points and prize; ids break the tie
	if got[3].PlayerID != "p10" || got[4].PlayerID != "p4" {
		t.Fatalf("tie order=%v", RankingIDs(got))
	}
	if got[0].Rank != 1 || got[9].Rank != 10 {
		t.Fatalf("ranks=%d,%d", got[0].Rank, got[9].Rank)
	}
}

func TestStandingsMoneyBonusAndUnfinished(t *testing.T) {
	season := exampleSeason()
	g := Settle(finishedInOrder(tenPlayerGame()), season)
	g.IsFinished = true
	open := g
	open.IsFinished = false

	cfg := &models.EliminationRewardConfig{Enabled: true, RewardType: models.RewardTypeMoney, RewardValue: 2, Frequency: 1, MaxRewardsPerGame: 4}
	got := Standings([]models.Game{g, open}, cfg)
	if got[0].Points != 10 || got[0].BonusMoney != 8 || got[0].Games != 1 || got[0].Wins != 1 {
		t.Fatalf("leader=%+v", got[0])
	}
}
