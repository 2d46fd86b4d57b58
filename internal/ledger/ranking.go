package ledger

import (
	"sort"

	"pokerleague/internal/models"
)

type Standing struct {
	Rank         int     `json:"rank"`
	PlayerID     string  `json:"player_id"`
	Games        int     `json:"games"`
	Points       float64 `json:"points"`
	GamePoints   float64 `json:"game_points"`
	BonusPoints  float64 `json:"bonus_points"`
	BonusMoney   float64 `json:"bonus_money"`
	Eliminations int     `json:"eliminations"`
	Prize        float64 `json:"prize"`
	Balance      float64 `json:"balance"`
	Wins         int     `json:"wins"`
}

// Standings aggregates settled figures over finished games. Ordering is points
// desc, prize desc, then player id.
func Standings(games []models.Game, cfg *models.EliminationRewardConfig) []Standing {
	byPlayer := map[string]*Standing{}
	get := func(id string) *Standing {
		s, ok := byPlayer[id]
		if !ok {
			s = &Standing{PlayerID: id}
			byPlayer[id] = s
		}
		return s
	}

	for _, g := range games {
		if !g.IsFinished {
			continue
		}
		for _, p := range g.Players {
			s := get(p.PlayerID)
			s.Games++
			s.GamePoints += p.Points
			s.Prize += p.Prize
			s.Balance += p.Balance
			if p.Position != nil && *p.Position == 1 {
				s.Wins++
			}
		}
		counts := EliminationCounts(g)
		for id, r := range RewardsForAll(counts, cfg) {
			s := get(id)
			s.Eliminations += counts[id]
			switch r.Type {
			case models.RewardTypeMoney:
				s.BonusMoney += r.Value
			default:
				s.BonusPoints += r.Value
			}
		}
	}

	out := make([]Standing, 0, len(byPlayer))
	for _, s := range byPlayer {
		s.Points = s.GamePoints + s.BonusPoints
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].Prize != out[j].Prize {
			return out[i].Prize > out[j].Prize
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// RankingIDs returns the player ids of standings, best first.
func RankingIDs(standings []Standing) []string {
	out := make([]string, 0, len(standings))
	for _, s := range standings {
		out = append(out, s.PlayerID)
	}
	return out
}
