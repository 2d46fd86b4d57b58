package db

import (
	"pokerleague/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Season{},
		&models.Player{},
		&models.Game{},
		&models.GamePlayer{},
		&models.JackpotDistribution{},
		&models.MembershipCharge{},
		&models.SystemSetting{},
	)
}
