package ledger

import (
	"sort"

	"pokerleague/internal/models"
)

// BuyIns counts the players eligible for the jackpot contribution.
func BuyIns(players []models.GamePlayer) int {
	n := 0
	for _, p := range players {
		if p.BuyIn {
			n++
		}
	}
	return n
}

// GameContribution is what one game adds to the season jackpot.
func GameContribution(game models.Game, params models.FinancialParams) float64 {
	return float64(BuyIns(game.Players)) * params.JackpotContribution
}

// ApplyDelta clamps the jackpot at zero.
func ApplyDelta(current, delta float64) float64 {
	v := current + delta
	if v < 0 {
		return 0
	}
	return v
}

// Recompute sums the contribution of every finished game of the season.
func Recompute(season models.Season, games []models.Game) float64 {
	total := 0.0
	for _, g := range games {
		if !g.IsFinished || g.SeasonID != season.ID {
			continue
		}
		total += GameContribution(g, EffectiveParams(g, season))
	}
	return total
}

// Distribute splits the jackpot along the season prize schema. ranking lists
// player ids best first; schema positions without a ranked player are skipped.
// IDs and timestamps are left for the caller.
func Distribute(season models.Season, ranking []string) []models.JackpotDistribution {
	schema := NewPrizeSchema(season.SeasonPrizeSchema)
	var out []models.JackpotDistribution
	for _, pos := range schema.Positions() {
		if pos < 1 || pos > len(ranking) {
			continue
		}
		pct := schema.Value(pos)
		out = append(out, models.JackpotDistribution{
			SeasonID:     season.ID,
			PlayerID:     ranking[pos-1],
			Position:     pos,
			Percentage:   pct,
			PrizeAmount:  season.Jackpot * pct / 100,
			TotalJackpot: season.Jackpot,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}
