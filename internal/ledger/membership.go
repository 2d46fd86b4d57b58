package ledger

import (
	"time"

	"pokerleague/internal/models"
)

const (
	ReasonAlreadyCharged  = "already charged this period"
	ReasonNoParticipation = "did not participate in previous period"
)

// PeriodStart returns midnight of the first day of the billing period
// containing t, in t's location. Weeks start on Monday. Unknown frequencies
// bill monthly.
func PeriodStart(t time.Time, freq models.MembershipFrequency) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch freq {
	case models.FrequencyWeekly:
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	case models.FrequencyQuarterly:
		qm := time.Month(((int(m)-1)/3)*3 + 1)
		return time.Date(y, qm, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	}
}

// PreviousPeriodStart returns the start of the period just before the one containing t.
func PreviousPeriodStart(t time.Time, freq models.MembershipFrequency) time.Time {
	cur := PeriodStart(t, freq)
	switch freq {
	case models.FrequencyWeekly:
		return cur.AddDate(0, 0, -7)
	case models.FrequencyQuarterly:
		return cur.AddDate(0, -3, 0)
	default:
		return cur.AddDate(0, -1, 0)
	}
}

type ChargeDecision struct {
	PlayerID string `json:"player_id"`
	Due      bool   `json:"due"`
	Reason   string `json:"reason,omitempty"`
}

// IsChargeDue decides whether the membership fee is due for player on
// gameDate. history holds the season's finished games.
func IsChargeDue(player models.Player, freq models.MembershipFrequency, gameDate time.Time, history []models.Game) ChargeDecision {
	out := ChargeDecision{PlayerID: player.ID}
	if player.LastMembershipCharge == nil {
		out.Due = true
		return out
	}
	cur := PeriodStart(gameDate, freq)
	if !player.LastMembershipCharge.Before(cur) {
		out.Reason = ReasonAlreadyCharged
		return out
	}
	prev := PreviousPeriodStart(gameDate, freq)
	if participatedBetween(player.ID, history, prev, cur) {
		out.Due = true
		return out
	}
	out.Reason = ReasonNoParticipation
	return out
}

// EvaluateCharges runs IsChargeDue for each player, preserving order.
func EvaluateCharges(players []models.Player, freq models.MembershipFrequency, gameDate time.Time, history []models.Game) []ChargeDecision {
	out := make([]ChargeDecision, 0, len(players))
	for _, p := range players {
		out = append(out, IsChargeDue(p, freq, gameDate, history))
	}
	return out
}

func participatedBetween(playerID string, games []models.Game, from, to time.Time) bool {
	for _, g := range games {
		if !g.IsFinished {
			continue
		}
		d := g.Date.In(from.Location())
		if d.Before(from) || !d.Before(to) {
			continue
		}
		for _, p := range g.Players {
			if p.PlayerID == playerID {
				return true
			}
		}
	}
	return false
}
