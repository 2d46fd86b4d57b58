package models

import "time"

// Player is a league member. LastMembershipCharge drives membership billing.
type Player struct {
	ID                   string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name                 string     `gorm:"type:varchar(120);not null" json:"name"`
	LastMembershipCharge *time.Time `gorm:"type:timestamptz" json:"last_membership_charge,omitempty"`
	CreatedAt            time.Time  `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Player) TableName() string {
	return "players"
}

type MembershipCharge struct {
	ID          string              `gorm:"type:varchar(36);primaryKey" json:"id"`
	SeasonID    string              `gorm:"type:varchar(36);not null;index" json:"season_id"`
	PlayerID    string              `gorm:"type:varchar(36);not null;index" json:"player_id"`
	GameID      *string             `gorm:"type:varchar(36)" json:"game_id,omitempty"`
	Amount      float64             `gorm:"not null" json:"amount"`
	Frequency   MembershipFrequency `gorm:"type:varchar(16);not null" json:"frequency"`
	PeriodStart time.Time           `gorm:"type:timestamptz;not null" json:"period_start"`
	ChargedAt   time.Time           `gorm:"type:timestamptz;not null;index" json:"charged_at"`
}

func (MembershipCharge) TableName() string {
	return "membership_charges"
}
