package ledger

import "pokerleague/internal/models"

// DistributablePrize is the pool shared by the weekly prize schema. A pool
// not flagged as net of jackpot has the game's jackpot contribution removed.
func DistributablePrize(game models.Game, params models.FinancialParams) float64 {
	if game.PrizePoolNetOfJackpot {
		return game.TotalPrizePool
	}
	v := game.TotalPrizePool - GameContribution(game, params)
	if v < 0 {
		return 0
	}
	return v
}

// Settle computes points, prize and balance for every positioned player.
// Players without a position keep their figures.
func Settle(game models.Game, season models.Season) models.Game {
	return settle(game, season, nil)
}

// SettlePlayers re-runs settlement for the listed players only.
func SettlePlayers(game models.Game, season models.Season, playerIDs ...string) models.Game {
	only := make(map[string]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		only[id] = struct{}{}
	}
	return settle(game, season, only)
}

func settle(game models.Game, season models.Season, only map[string]struct{}) models.Game {
	out := CloneGame(game)
	params := EffectiveParams(game, season)
	scores := NewScoreSchema(season.ScoreSchema)
	prizes := NewPrizeSchema(season.WeeklyPrizeSchema)
	pool := DistributablePrize(game, params)
	diners := DinnerParticipants(out.Players)

	for i := range out.Players {
		p := &out.Players[i]
		if p.Position == nil {
			continue
		}
		if only != nil {
			if _, ok := only[p.PlayerID]; !ok {
				continue
			}
		}
		pos := *p.Position
		p.Points = scores.Value(pos)
		p.Prize = pool * prizes.Value(pos) / 100
		p.Balance = p.Prize - SessionCost(*p, params, game.DinnerCost, diners)
	}
	return out
}
