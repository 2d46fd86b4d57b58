package models

import "time"

// JackpotDistribution is written once per paid season rank when a season ends.
type JackpotDistribution struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	SeasonID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_jackpot_dist_season_position" json:"season_id"`
	PlayerID     string    `gorm:"type:varchar(36);not null;index" json:"player_id"`
	Position     int       `gorm:"not null;uniqueIndex:idx_jackpot_dist_season_position" json:"position"`
	Percentage   float64   `gorm:"not null" json:"percentage"`
	PrizeAmount  float64   `gorm:"not null" json:"prize_amount"`
	TotalJackpot float64   `gorm:"not null" json:"total_jackpot"`
	CreatedAt    time.Time `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
}

func (JackpotDistribution) TableName() string {
	return "jackpot_distributions"
}
