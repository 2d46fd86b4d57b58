package ledger

import (
	"fmt"
	"time"

	"pokerleague/internal/models"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func exampleSeason() models.Season {
	return models.Season{
		ID:       "s1",
		IsActive: true,
		Financial: models.FinancialParams{
			BuyIn:               15,
			Rebuy:               10,
			Addon:               5,
			JackpotContribution: 5,
		},
		ScoreSchema: []models.ScoreEntry{
			{Position: 1, Points: 10},
			{Position: 2, Points: 7},
			{Position: 3, Points: 5},
		},
		WeeklyPrizeSchema: []models.PrizeEntry{
			{Position: 1, Percentage: 50},
			{Position: 2, Percentage: 30},
			{Position: 3, Percentage: 20},
		},
		SeasonPrizeSchema: []models.PrizeEntry{
			{Position: 1, Percentage: 60},
			{Position: 2, Percentage: 40},
		},
	}
}

// tenPlayerGame has p1..p10 all bought in, none positioned.
func tenPlayerGame() models.Game {
	g := models.Game{
		ID:                    "g1",
		SeasonID:              "s1",
		Number:                1,
		Date:                  time.Date(2026, 3, 4, 20, 0, 0, 0, time.UTC),
		TotalPrizePool:        150,
		PrizePoolNetOfJackpot: true,
	}
	for i := 1; i <= 10; i++ {
		g.Players = append(g.Players, models.GamePlayer{
			GameID:   "g1",
			PlayerID: fmt.Sprintf("p%d", i),
			BuyIn:    true,
		})
	}
	return g
}

// finishedInOrder eliminates p10 first down to p2, leaving p1 the winner.
func finishedInOrder(g models.Game) models.Game {
	at := g.Date
	for i := len(g.Players); i >= 2; i-- {
		var err error
		g, err = Eliminate(g, fmt.Sprintf("p%d", i), "p1", at)
		if err != nil {
			panic(err)
		}
	}
	return g
}
