package service

import (
	"context"
	"testing"
	"time"

	"pokerleague/internal/ledger"
)

func TestChargeMemberships(t *testing.T) {
	ctx := context.Background()
	l := newLeague()
	season := l.newSeason(t, "Dues")
	l.seedPlayers(3)

	july := time.Date(2026, 7, 16, 20, 0, 0, 0, time.UTC)
	l.playGame(t, season.ID, july, 0, []string{"p1", "p3"})
	// p1 and p2 were billed in June; p3 never.
	june := time.Date(2026, 6, 10, 20, 0, 0, 0, time.UTC)
	for _, id := range []string{"p1", "p2"} {
		p := l.repo.players[id]
		p.LastMembershipCharge = &june
		l.repo.players[id] = p
	}
	// p2 skipped July but plays in August.
	august := l.openGame(t, season.ID, time.Date(2026, 8, 20, 20, 0, 0, 0, time.UTC), 0, []string{"p1", "p3"})
	if _, err := l.games.AddPlayer(ctx, august.ID, AddPlayerInput{PlayerID: "p2"}); err != nil {
		t.Fatalf("add p2: %v", err)
	}

	decisions, err := l.membership.EvaluateMembershipCharges(ctx, august.ID)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(decisions) != 3 {
		t.Fatalf("decisions=%d want=3", len(decisions))
	}

	result, err := l.membership.ChargeMemberships(ctx, august.ID)
	if err != nil {
		t.Fatalf("charge: %v", err)
	}
	charged := map[string]bool{}
	for _, c := range result.Charged {
		charged[c.PlayerID] = true
		if c.Amount != 20 || c.GameID == nil || *c.GameID != august.ID {
			t.Fatalf("charge=%+v", c)
		}
	}
	if !charged["p1"] || !charged["p3"] || charged["p2"] {
		t.Fatalf("charged=%v want p1,p3", charged)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Reason != ledger.ReasonNoParticipation {
		t.Fatalf("skipped=%+v", result.Skipped)
	}

	again, err := l.membership.ChargeMemberships(ctx, august.ID)
	if err != nil {
		t.Fatalf("charge again: %v", err)
	}
	if len(again.Charged) != 0 {
		t.Fatalf("charged twice: %+v", again.Charged)
	}
	for _, d := range again.Skipped {
		if d.PlayerID != "p2" && d.Reason != ledger.ReasonAlreadyCharged {
			t.Fatalf("decision=%+v", d)
		}
	}
}

func TestChargeMembershipsRequiresConfig(t *testing.T) {
	ctx := context.Background()
	l := newLeague()
	season := l.newSeason(t, "No dues")
	s := l.repo.seasons[season.ID]
	s.Financial.ClubMembershipValue = 0
	l.repo.seasons[season.ID] = s
	l.seedPlayers(1)
	game := l.openGame(t, season.ID, testNow, 0, []string{"p1"})
	if _, err := l.membership.ChargeMemberships(ctx, game.ID); !IsValidation(err) {
		t.Fatalf("err=%v want validation", err)
	}
	if _, err := l.membership.EvaluateMembershipCharges(ctx, "missing"); !IsNotFound(err) {
		t.Fatalf("err=%v want not found", err)
	}
}
