package repository

import (
	"context"
	"time"

	"pokerleague/internal/models"
)

// Repository is the persistence contract of the league ledger. Lookups of
// missing rows return (nil, nil).
type Repository interface {
	// Seasons
	GetSeason(ctx context.Context, id string) (*models.Season, error)
	GetSeasonBySlug(ctx context.Context, slug string) (*models.Season, error)
	ListSeasons(ctx context.Context, params ListSeasonsParams) ([]models.Season, error)
	SaveSeason(ctx context.Context, item *models.Season) error
	// UpdateSeasonConfig writes rates, schemas and reward settings only. The
	// jackpot, club fund and lifecycle columns are left as stored.
	UpdateSeasonConfig(ctx context.Context, item *models.Season) error
	UpdateSeasonJackpot(ctx context.Context, seasonID string, jackpot float64) error
	// FinalizeSeason writes the distributions and the ended season in one transaction.
	FinalizeSeason(ctx context.Context, season *models.Season, items []models.JackpotDistribution) error

	// Games
	GetGame(ctx context.Context, id string) (*models.Game, error)
	ListGamesBySeason(ctx context.Context, seasonID string) ([]models.Game, error)
	ListFinishedGames(ctx context.Context, seasonID string) ([]models.Game, error)
	NextGameNumber(ctx context.Context, seasonID string) (int, error)
	SaveGame(ctx context.Context, item *models.Game) error
	// CompleteGame saves a finished game and adds clubFundDelta to its season.
	CompleteGame(ctx context.Context, item *models.Game, clubFundDelta float64) error
	// AccrueGameJackpot sets the season jackpot and flags the game as accrued.
	AccrueGameJackpot(ctx context.Context, seasonID, gameID string, jackpot, contribution float64) error

	// Jackpot distributions
	AppendJackpotDistributions(ctx context.Context, items []models.JackpotDistribution) error
	ListJackpotDistributions(ctx context.Context, seasonID string) ([]models.JackpotDistribution, error)

	// Players
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	ListPlayers(ctx context.Context, params ListPlayersParams) ([]models.Player, error)
	ListPlayersByIDs(ctx context.Context, ids []string) ([]models.Player, error)
	SavePlayer(ctx context.Context, item *models.Player) error

	// Membership billing
	ApplyMembershipCharges(ctx context.Context, items []models.MembershipCharge) error
	ListMembershipCharges(ctx context.Context, params ListMembershipChargesParams) ([]models.MembershipCharge, error)

	// System settings
	UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error
	GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error)
	ListSystemSettings(ctx context.Context, params ListSystemSettingsParams) ([]models.SystemSetting, error)
	CountSystemSettings(ctx context.Context, params ListSystemSettingsParams) (int64, error)
}

type ListSeasonsParams struct {
	Limit    int
	Offset   int
	IsActive *bool
	OrderBy  string
	Asc      *bool
}

type ListPlayersParams struct {
	Limit   int
	Offset  int
	Search  *string
	OrderBy string
	Asc     *bool
}

type ListMembershipChargesParams struct {
	Limit    int
	Offset   int
	SeasonID *string
	PlayerID *string
	Since    *time.Time
}

type ListSystemSettingsParams struct {
	Limit   int
	Offset  int
	Prefix  *string
	OrderBy string
	Asc     *bool
}
