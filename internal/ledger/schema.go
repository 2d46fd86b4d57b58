// Package ledger holds the settlement rules of the league: schema lookup,
// session cost, elimination order, settlement, elimination rewards,
// membership billing and jackpot math. Everything here is pure; callers load
// snapshots from storage, pass them in and persist what comes back.
package ledger

import (
	"sort"

	"pokerleague/internal/models"
)

// Schema is a position-keyed lookup table. Missing positions resolve to zero.
type Schema struct {
	values map[int]float64
}

// NewScoreSchema indexes score entries. Duplicate positions keep the first entry.
func NewScoreSchema(entries []models.ScoreEntry) Schema {
	s := Schema{values: make(map[int]float64, len(entries))}
	for _, e := range entries {
		if _, ok := s.values[e.Position]; ok {
			continue
		}
		s.values[e.Position] = e.Points
	}
	return s
}

// NewPrizeSchema indexes percentage entries. Duplicate positions keep the first entry.
func NewPrizeSchema(entries []models.PrizeEntry) Schema {
	s := Schema{values: make(map[int]float64, len(entries))}
	for _, e := range entries {
		if _, ok := s.values[e.Position]; ok {
			continue
		}
		s.values[e.Position] = e.Percentage
	}
	return s
}

func (s Schema) Value(position int) float64 {
	if s.values == nil {
		return 0
	}
	return s.values[position]
}

// Positions returns the keyed positions in ascending order.
func (s Schema) Positions() []int {
	out := make([]int, 0, len(s.values))
	for p := range s.values {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

func (s Schema) Len() int {
	return len(s.values)
}

// Total sums every value in the schema.
func (s Schema) Total() float64 {
	total := 0.0
	for _, v := range s.values {
		total += v
	}
	return total
}

func PointsFor(schema []models.ScoreEntry, position int) float64 {
	return NewScoreSchema(schema).Value(position)
}

func PercentageFor(schema []models.PrizeEntry, position int) float64 {
	return NewPrizeSchema(schema).Value(position)
}
