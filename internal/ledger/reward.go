package ledger

import "pokerleague/internal/models"

type Reward struct {
	Rewards int               `json:"rewards"`
	Value   float64           `json:"value"`
	Type    models.RewardType `json:"type"`
}

// RewardsFor turns an elimination count into bonus rewards. A nil or disabled
// config yields nothing.
func RewardsFor(eliminations int, cfg *models.EliminationRewardConfig) Reward {
	none := Reward{Type: models.RewardTypePoints}
	if cfg == nil || !cfg.Enabled || eliminations <= 0 {
		return none
	}
	freq := cfg.Frequency
	if freq < 1 {
		freq = 1
	}
	rewards := eliminations / freq
	if cfg.MaxRewardsPerGame > 0 && rewards > cfg.MaxRewardsPerGame {
		rewards = cfg.MaxRewardsPerGame
	}
	typ := cfg.RewardType
	if typ == "" {
		typ = models.RewardTypePoints
	}
	return Reward{
		Rewards: rewards,
		Value:   float64(rewards) * cfg.RewardValue,
		Type:    typ,
	}
}

// RewardsForAll evaluates every player independently.
func RewardsForAll(counts map[string]int, cfg *models.EliminationRewardConfig) map[string]Reward {
	out := make(map[string]Reward, len(counts))
	for id, n := range counts {
		out[id] = RewardsFor(n, cfg)
	}
	return out
}

// EliminationCounts tallies, per eliminator, how many players they knocked out.
func EliminationCounts(game models.Game) map[string]int {
	out := map[string]int{}
	for _, p := range game.Players {
		if !p.IsEliminated || p.EliminatedBy == nil || *p.EliminatedBy == "" {
			continue
		}
		out[*p.EliminatedBy]++
	}
	return out
}
