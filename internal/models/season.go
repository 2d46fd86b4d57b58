package models

import (
	"time"

	"gorm.io/datatypes"
)

type MembershipFrequency string

const (
	FrequencyWeekly    MembershipFrequency = "weekly"
	FrequencyMonthly   MembershipFrequency = "monthly"
	FrequencyQuarterly MembershipFrequency = "quarterly"
)

func (f MembershipFrequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly:
		return true
	}
	return false
}

// FinancialParams are the money rates of a season. Games carry their own copy
// taken at creation, so later rate changes never touch settled history.
type FinancialParams struct {
	BuyIn                   float64             `gorm:"not null;default:0" json:"buy_in"`
	Rebuy                   float64             `gorm:"not null;default:0" json:"rebuy"`
	Addon                   float64             `gorm:"not null;default:0" json:"addon"`
	JackpotContribution     float64             `gorm:"not null;default:0" json:"jackpot_contribution"`
	ClubFundContribution    float64             `gorm:"not null;default:0" json:"club_fund_contribution"`
	ClubMembershipValue     float64             `gorm:"not null;default:0" json:"club_membership_value"`
	ClubMembershipFrequency MembershipFrequency `gorm:"type:varchar(16)" json:"club_membership_frequency"`
}

func (p FinancialParams) IsZero() bool {
	return p == FinancialParams{}
}

// ScoreEntry maps a finishing position to league points.
type ScoreEntry struct {
	Position int     `json:"position"`
	Points   float64 `json:"points"`
}

// PrizeEntry maps a finishing position (or season rank) to a percentage share.
type PrizeEntry struct {
	Position   int     `json:"position"`
	Percentage float64 `json:"percentage"`
}

type RewardType string

const (
	RewardTypePoints RewardType = "points"
	RewardTypeMoney  RewardType = "money"
)

type EliminationRewardConfig struct {
	Enabled           bool       `gorm:"not null;default:false" json:"enabled"`
	RewardType        RewardType `gorm:"type:varchar(10)" json:"reward_type"`
	RewardValue       float64    `gorm:"not null;default:0" json:"reward_value"`
	Frequency         int        `gorm:"not null;default:1" json:"frequency"`
	MaxRewardsPerGame int        `gorm:"not null;default:0" json:"max_rewards_per_game"`
}

type Season struct {
	ID       string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(120);not null" json:"name"`
	Slug     string `gorm:"type:varchar(140);not null;uniqueIndex" json:"slug"`
	IsActive bool   `gorm:"not null;default:true;index" json:"is_active"`

	Jackpot  float64 `gorm:"not null;default:0" json:"jackpot"`
	ClubFund float64 `gorm:"not null;default:0" json:"club_fund"`

	Financial         FinancialParams                 `gorm:"embedded;embeddedPrefix:fin_" json:"financial_params"`
	ScoreSchema       datatypes.JSONSlice[ScoreEntry] `gorm:"type:jsonb" json:"score_schema"`
	WeeklyPrizeSchema datatypes.JSONSlice[PrizeEntry] `gorm:"type:jsonb" json:"weekly_prize_schema"`
	SeasonPrizeSchema datatypes.JSONSlice[PrizeEntry] `gorm:"type:jsonb" json:"season_prize_schema"`
	EliminationReward EliminationRewardConfig         `gorm:"embedded;embeddedPrefix:elim_" json:"elimination_reward"`

	StartedAt time.Time  `gorm:"type:timestamptz;not null" json:"started_at"`
	EndedAt   *time.Time `gorm:"type:timestamptz" json:"ended_at,omitempty"`
	CreatedAt time.Time  `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Season) TableName() string {
	return "seasons"
}
