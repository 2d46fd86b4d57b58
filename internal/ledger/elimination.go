package ledger

import (
	"errors"
	"fmt"
	"time"

	"pokerleague/internal/models"
)

var (
	ErrGameFinished     = errors.New("game is finished")
	ErrPlayerNotInGame  = errors.New("player is not in game")
	ErrPlayerNotActive  = errors.New("player is not active")
	ErrDuplicatePlayer  = errors.New("player listed more than once")
	ErrSelfElimination  = errors.New("player cannot eliminate themselves")
	ErrPositionMissing  = errors.New("player has no position")
	ErrNoPlayers        = errors.New("no players given")
	ErrNoActivePlayers  = errors.New("no active players left")
	ErrSamePlayerInSwap = errors.New("cannot swap a player with themselves")
)

// CloneGame copies a game deeply enough that mutating the copy's roster does
// not touch the original.
func CloneGame(g models.Game) models.Game {
	out := g
	if g.DinnerCost != nil {
		v := *g.DinnerCost
		out.DinnerCost = &v
	}
	if g.Players != nil {
		out.Players = make([]models.GamePlayer, len(g.Players))
		for i, p := range g.Players {
			if p.Position != nil {
				v := *p.Position
				p.Position = &v
			}
			if p.EliminatedBy != nil {
				v := *p.EliminatedBy
				p.EliminatedBy = &v
			}
			if p.EliminatedAt != nil {
				v := *p.EliminatedAt
				p.EliminatedAt = &v
			}
			out.Players[i] = p
		}
	}
	return out
}

// IsActive reports whether the player is still in the game. The winner holds
// position 1 without being eliminated and is no longer active.
func IsActive(p models.GamePlayer) bool {
	return !p.IsEliminated && p.Position == nil
}

func ActiveCount(players []models.GamePlayer) int {
	n := 0
	for _, p := range players {
		if IsActive(p) {
			n++
		}
	}
	return n
}

// Eliminate knocks one player out. The position is the number of players
// still active before this elimination, so the first out finishes last.
func Eliminate(game models.Game, playerID, eliminatorID string, at time.Time) (models.Game, error) {
	return EliminateBatch(game, []string{playerID}, eliminatorID, at)
}

// EliminateBatch knocks several players out in the same hand. With A active
// players before the hand, positions A, A-1, ... are handed out in input
// order, so the first listed player finishes worst. When one player is left
// standing they receive position 1.
func EliminateBatch(game models.Game, playerIDs []string, eliminatorID string, at time.Time) (models.Game, error) {
	if game.IsFinished {
		return game, ErrGameFinished
	}
	if len(playerIDs) == 0 {
		return game, ErrNoPlayers
	}
	seen := make(map[string]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		if _, ok := seen[id]; ok {
			return game, fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
		}
		seen[id] = struct{}{}
		p, _ := game.Player(id)
		if p == nil {
			return game, fmt.Errorf("%w: %s", ErrPlayerNotInGame, id)
		}
		if !IsActive(*p) {
			return game, fmt.Errorf("%w: %s", ErrPlayerNotActive, id)
		}
	}
	if eliminatorID != "" {
		if _, ok := seen[eliminatorID]; ok {
			return game, fmt.Errorf("%w: %s", ErrSelfElimination, eliminatorID)
		}
		if p, _ := game.Player(eliminatorID); p == nil {
			return game, fmt.Errorf("%w: %s", ErrPlayerNotInGame, eliminatorID)
		}
	}

	out := CloneGame(game)
	next := ActiveCount(out.Players)
	for _, id := range playerIDs {
		p, _ := out.Player(id)
		pos := next
		p.Position = &pos
		p.IsEliminated = true
		if eliminatorID != "" {
			by := eliminatorID
			p.EliminatedBy = &by
		}
		ts := at
		p.EliminatedAt = &ts
		next--
	}

	if ActiveCount(out.Players) == 1 {
		for i := range out.Players {
			if IsActive(out.Players[i]) {
				first := 1
				out.Players[i].Position = &first
				break
			}
		}
	}
	return out, nil
}

// AssignWinner gives position 1 to the last active player, if exactly one remains.
func AssignWinner(game models.Game) (models.Game, bool) {
	if ActiveCount(game.Players) != 1 {
		return game, false
	}
	out := CloneGame(game)
	for i := range out.Players {
		if IsActive(out.Players[i]) {
			first := 1
			out.Players[i].Position = &first
			return out, true
		}
	}
	return game, false
}

// FullyPositioned reports whether every player has a finishing position.
func FullyPositioned(players []models.GamePlayer) bool {
	for _, p := range players {
		if p.Position == nil {
			return false
		}
	}
	return len(players) > 0
}

// SwapPositions exchanges the finishing positions of two players and
// re-settles only those two, with the game's stored prize pool and dinner cost.
func SwapPositions(game models.Game, season models.Season, playerA, playerB string) (models.Game, error) {
	if playerA == playerB {
		return game, ErrSamePlayerInSwap
	}
	a, _ := game.Player(playerA)
	if a == nil {
		return game, fmt.Errorf("%w: %s", ErrPlayerNotInGame, playerA)
	}
	b, _ := game.Player(playerB)
	if b == nil {
		return game, fmt.Errorf("%w: %s", ErrPlayerNotInGame, playerB)
	}
	if a.Position == nil {
		return game, fmt.Errorf("%w: %s", ErrPositionMissing, playerA)
	}
	if b.Position == nil {
		return game, fmt.Errorf("%w: %s", ErrPositionMissing, playerB)
	}

	out := CloneGame(game)
	pa, _ := out.Player(playerA)
	pb, _ := out.Player(playerB)
	pa.Position, pb.Position = pb.Position, pa.Position
	return SettlePlayers(out, season, playerA, playerB), nil
}
