package ledger

import "pokerleague/internal/models"

// DinnerParticipants counts the players that joined dinner.
func DinnerParticipants(players []models.GamePlayer) int {
	n := 0
	for _, p := range players {
		if p.JoinedDinner {
			n++
		}
	}
	return n
}

func DinnerShare(p models.GamePlayer, dinnerCost *float64, participants int) float64 {
	if !p.JoinedDinner || dinnerCost == nil || participants <= 0 {
		return 0
	}
	return *dinnerCost / float64(participants)
}

// SessionCost is everything the player paid for the game. The club-fund part
// comes from the snapshot on the player, never from the live season rate.
func SessionCost(p models.GamePlayer, params models.FinancialParams, dinnerCost *float64, participants int) float64 {
	cost := 0.0
	if p.BuyIn {
		cost += params.BuyIn
	}
	cost += float64(p.Rebuys) * params.Rebuy
	cost += float64(p.Addons) * params.Addon
	cost += DinnerShare(p, dinnerCost, participants)
	cost += p.ClubFundContribution
	return cost
}

// ClubFundSnapshot is the contribution to store on a player when their
// club-fund flag is evaluated.
func ClubFundSnapshot(participates bool, params models.FinancialParams) float64 {
	if !participates {
		return 0
	}
	return params.ClubFundContribution
}

// EffectiveParams picks the rates a game is settled with: its own snapshot,
// or the season rates for games stored before snapshots existed.
func EffectiveParams(game models.Game, season models.Season) models.FinancialParams {
	if game.Financial.IsZero() {
		return season.Financial
	}
	return game.Financial
}
