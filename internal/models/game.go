package models

import "time"

type Game struct {
	ID       string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	SeasonID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_games_season_number" json:"season_id"`
	Number   int       `gorm:"not null;uniqueIndex:idx_games_season_number" json:"number"`
	Date     time.Time `gorm:"type:timestamptz;not null;index" json:"date"`

	Players []GamePlayer `gorm:"foreignKey:GameID;references:ID" json:"players"`

	// DinnerCost is the total to split among diners; nil when nobody entered it.
	DinnerCost     *float64 `json:"dinner_cost,omitempty"`
	TotalPrizePool float64  `gorm:"not null;default:0" json:"total_prize_pool"`
	// PrizePoolNetOfJackpot marks TotalPrizePool as already excluding the
	// jackpot withholding. When false, settlement withholds it first.
	PrizePoolNetOfJackpot bool `gorm:"not null" json:"prize_pool_net_of_jackpot"`

	Financial FinancialParams `gorm:"embedded;embeddedPrefix:fin_" json:"financial_params"`

	IsFinished          bool       `gorm:"not null;default:false;index" json:"is_finished"`
	FinishedAt          *time.Time `gorm:"type:timestamptz" json:"finished_at,omitempty"`
	JackpotContribution float64    `gorm:"not null;default:0" json:"jackpot_contribution"`
	JackpotAccrued      bool       `gorm:"not null;default:false" json:"jackpot_accrued"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Game) TableName() string {
	return "games"
}

// Player looks up a roster entry by player id.
func (g *Game) Player(playerID string) (*GamePlayer, int) {
	for i := range g.Players {
		if g.Players[i].PlayerID == playerID {
			return &g.Players[i], i
		}
	}
	return nil, -1
}

// GamePlayer is one seat in a game. Points, Prize and Balance are computed by
// settlement and never written by hand.
type GamePlayer struct {
	GameID   string `gorm:"type:varchar(36);primaryKey" json:"game_id"`
	PlayerID string `gorm:"type:varchar(36);primaryKey" json:"player_id"`
	Seat     int    `gorm:"not null;default:0" json:"seat"`

	BuyIn  bool `gorm:"not null;default:false" json:"buy_in"`
	Rebuys int  `gorm:"not null;default:0" json:"rebuys"`
	Addons int  `gorm:"not null;default:0" json:"addons"`

	IsEliminated bool       `gorm:"not null;default:false" json:"is_eliminated"`
	Position     *int       `json:"position"`
	EliminatedBy *string    `gorm:"type:varchar(36)" json:"eliminated_by"`
	EliminatedAt *time.Time `gorm:"type:timestamptz" json:"eliminated_at,omitempty"`

	Points  float64 `gorm:"not null;default:0" json:"points"`
	Prize   float64 `gorm:"not null;default:0" json:"prize"`
	Balance float64 `gorm:"not null;default:0" json:"balance"`

	JoinedDinner           bool    `gorm:"not null;default:false" json:"joined_dinner"`
	ParticipatesInClubFund bool    `gorm:"not null;default:false" json:"participates_in_club_fund"`
	ClubFundContribution   float64 `gorm:"not null;default:0" json:"club_fund_contribution"`
}

func (GamePlayer) TableName() string {
	return "game_players"
}
