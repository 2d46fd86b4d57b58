package gormrepository

import (
	"context"
	"sync"
	"testing"

	"gorm.io/gorm/schema"

	"pokerleague/internal/models"
	"pokerleague/internal/repository"
)

func TestNilStoreIsSafe(t *testing.T) {
	var s *Store
	ctx := context.Background()
	if got, err := s.GetSeason(ctx, "x"); got != nil || err != nil {
		t.Fatalf("GetSeason=%v err=%v", got, err)
	}
	if got, err := s.GetGame(ctx, "x"); got != nil || err != nil {
		t.Fatalf("GetGame=%v err=%v", got, err)
	}
	if n, err := s.NextGameNumber(ctx, "x"); n != 1 || err != nil {
		t.Fatalf("NextGameNumber=%d err=%v", n, err)
	}
	if err := s.SaveGame(ctx, &models.Game{}); err != nil {
		t.Fatalf("SaveGame err=%v", err)
	}
	if items, err := s.ListSeasons(ctx, repository.ListSeasonsParams{}); items != nil || err != nil {
		t.Fatalf("ListSeasons=%v err=%v", items, err)
	}
}

func TestNormalizeLimitAndOffset(t *testing.T) {
	if got := normalizeLimit(0, 50); got != 50 {
		t.Fatalf("limit=%d want=50", got)
	}
	if got := normalizeLimit(10000, 50); got != 500 {
		t.Fatalf("limit=%d want=500", got)
	}
	if got := normalizeOffset(-3); got != 0 {
		t.Fatalf("offset=%d want=0", got)
	}
}

func TestCleanStrings(t *testing.T) {
	got := cleanStrings([]string{" a", "b", "", "a ", "c"})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("clean=%v", got)
	}
}

func parseSchema(t *testing.T, model any) *schema.Schema {
	t.Helper()
	sch, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	return sch
}

func TestSeasonConfigColumnsLeaveBalancesAlone(t *testing.T) {
	sch := parseSchema(t, &models.Season{})
	for _, col := range seasonConfigColumns {
		if sch.LookUpField(col) == nil {
			t.Fatalf("column %q is not a season column", col)
		}
	}
	for _, col := range []string{"jackpot", "club_fund", "is_active", "ended_at"} {
		for _, c := range seasonConfigColumns {
			if c == col {
				t.Fatalf("config update writes %q", col)
			}
		}
	}
}

func TestGameNetOfJackpotFlagHasNoDefault(t *testing.T) {
	sch := parseSchema(t, &models.Game{})
	field := sch.LookUpField("prize_pool_net_of_jackpot")
	if field == nil {
		t.Fatalf("prize_pool_net_of_jackpot column missing")
	}
	// A tag default would replace a false flag on insert.
	if field.HasDefaultValue {
		t.Fatalf("default=%q want none", field.DefaultValue)
	}
}
