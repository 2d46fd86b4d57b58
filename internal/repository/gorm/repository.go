package gormrepository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pokerleague/internal/models"
	"pokerleague/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- seasons ----------------------------------------------------------------

func (s *Store) GetSeason(ctx context.Context, id string) (*models.Season, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var item models.Season
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetSeasonBySlug(ctx context.Context, slug string) (*models.Season, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	var item models.Season
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSeasons(ctx context.Context, params repository.ListSeasonsParams) ([]models.Season, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Season{})
	if params.IsActive != nil {
		query = query.Where("is_active = ?", *params.IsActive)
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "started_at")
	var items []models.Season
	if err := query.Limit(normalizeLimit(params.Limit, 100)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SaveSeason(ctx context.Context, item *models.Season) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

// seasonConfigColumns are the columns UpdateSeasonConfig may write.
var seasonConfigColumns = []string{
	"fin_buy_in",
	"fin_rebuy",
	"fin_addon",
	"fin_jackpot_contribution",
	"fin_club_fund_contribution",
	"fin_club_membership_value",
	"fin_club_membership_frequency",
	"score_schema",
	"weekly_prize_schema",
	"season_prize_schema",
	"elim_enabled",
	"elim_reward_type",
	"elim_reward_value",
	"elim_frequency",
	"elim_max_rewards_per_game",
	"updated_at",
}

func (s *Store) UpdateSeasonConfig(ctx context.Context, item *models.Season) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Season{ID: item.ID}).
		Select(seasonConfigColumns).
		Updates(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Store) UpdateSeasonJackpot(ctx context.Context, seasonID string, jackpot float64) error {
	if s == nil || s.db == nil {
		return nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Season{}).
		Where("id = ?", seasonID).
		Update("jackpot", jackpot)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Store) FinalizeSeason(ctx context.Context, season *models.Season, items []models.JackpotDistribution) error {
	if s == nil || s.db == nil || season == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(items) > 0 {
			if err := tx.CreateInBatches(items, 100).Error; err != nil {
				return err
			}
		}
		// Guard against a concurrent end: only an active row may be finalized.
		res := tx.Model(&models.Season{}).
			Where("id = ? AND is_active = ?", season.ID, true).
			Updates(map[string]any{
				"is_active": false,
				"jackpot":   season.Jackpot,
				"ended_at":  season.EndedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("season already ended")
		}
		return nil
	})
}

// --- games ------------------------------------------------------------------

func (s *Store) GetGame(ctx context.Context, id string) (*models.Game, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var item models.Game
	err := s.db.WithContext(ctx).
		Preload("Players", orderPlayers).
		Where("id = ?", id).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListGamesBySeason(ctx context.Context, seasonID string) ([]models.Game, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Game
	if err := s.db.WithContext(ctx).
		Preload("Players", orderPlayers).
		Where("season_id = ?", seasonID).
		Order("number asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListFinishedGames(ctx context.Context, seasonID string) ([]models.Game, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Game
	if err := s.db.WithContext(ctx).
		Preload("Players", orderPlayers).
		Where("season_id = ? AND is_finished = ?", seasonID, true).
		Order("number asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) NextGameNumber(ctx context.Context, seasonID string) (int, error) {
	if s == nil || s.db == nil {
		return 1, nil
	}
	var last int
	err := s.db.WithContext(ctx).
		Model(&models.Game{}).
		Select("COALESCE(MAX(number),0)").
		Where("season_id = ?", seasonID).
		Scan(&last).Error
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

func (s *Store) SaveGame(ctx context.Context, item *models.Game) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveGameTx(tx, item)
	})
}

func (s *Store) CompleteGame(ctx context.Context, item *models.Game, clubFundDelta float64) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveGameTx(tx, item); err != nil {
			return err
		}
		if clubFundDelta == 0 {
			return nil
		}
		return tx.Model(&models.Season{}).
			Where("id = ?", item.SeasonID).
			Update("club_fund", gorm.Expr("club_fund + ?", clubFundDelta)).Error
	})
}

func (s *Store) AccrueGameJackpot(ctx context.Context, seasonID, gameID string, jackpot, contribution float64) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Game{}).
			Where("id = ? AND jackpot_accrued = ?", gameID, false).
			Updates(map[string]any{
				"jackpot_accrued":      true,
				"jackpot_contribution": contribution,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("game jackpot already accrued")
		}
		return tx.Model(&models.Season{}).
			Where("id = ?", seasonID).
			Update("jackpot", jackpot).Error
	})
}

func saveGameTx(tx *gorm.DB, item *models.Game) error {
	if err := tx.Omit(clause.Associations).Save(item).Error; err != nil {
		return err
	}
	if len(item.Players) == 0 {
		return nil
	}
	for i := range item.Players {
		item.Players[i].GameID = item.ID
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}, {Name: "player_id"}},
		UpdateAll: true,
	}).Create(&item.Players).Error
}

func orderPlayers(db *gorm.DB) *gorm.DB {
	return db.Order("seat asc, player_id asc")
}

// --- jackpot distributions --------------------------------------------------

func (s *Store) AppendJackpotDistributions(ctx context.Context, items []models.JackpotDistribution) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).CreateInBatches(items, 100).Error
}

func (s *Store) ListJackpotDistributions(ctx context.Context, seasonID string) ([]models.JackpotDistribution, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.JackpotDistribution
	if err := s.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Order("position asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- players ----------------------------------------------------------------

func (s *Store) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var item models.Player
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListPlayers(ctx context.Context, params repository.ListPlayersParams) ([]models.Player, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Player{})
	if params.Search != nil && strings.TrimSpace(*params.Search) != "" {
		query = query.Where("name ILIKE ?", "%"+strings.TrimSpace(*params.Search)+"%")
	}
	asc := true
	if params.Asc != nil {
		asc = *params.Asc
	}
	query = applyOrder(query, params.OrderBy, &asc, "name")
	var items []models.Player
	if err := query.Limit(normalizeLimit(params.Limit, 200)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListPlayersByIDs(ctx context.Context, ids []string) ([]models.Player, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	ids = cleanStrings(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.Player
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) SavePlayer(ctx context.Context, item *models.Player) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Save(item).Error
}

// --- membership charges -----------------------------------------------------

func (s *Store) ApplyMembershipCharges(ctx context.Context, items []models.MembershipCharge) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(items, 100).Error; err != nil {
			return err
		}
		for _, it := range items {
			if err := tx.Model(&models.Player{}).
				Where("id = ?", it.PlayerID).
				Update("last_membership_charge", it.ChargedAt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) ListMembershipCharges(ctx context.Context, params repository.ListMembershipChargesParams) ([]models.MembershipCharge, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.MembershipCharge{})
	if params.SeasonID != nil && strings.TrimSpace(*params.SeasonID) != "" {
		query = query.Where("season_id = ?", strings.TrimSpace(*params.SeasonID))
	}
	if params.PlayerID != nil && strings.TrimSpace(*params.PlayerID) != "" {
		query = query.Where("player_id = ?", strings.TrimSpace(*params.PlayerID))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("charged_at >= ?", *params.Since)
	}
	var items []models.MembershipCharge
	if err := query.Order("charged_at desc").
		Limit(normalizeLimit(params.Limit, 200)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- system settings --------------------------------------------------------

func (s *Store) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Key = strings.TrimSpace(item.Key)
	if item.Key == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at"}),
	}).Create(item).Error
}

func (s *Store) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	var item models.SystemSetting
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := settingsQuery(s.db.WithContext(ctx), params.Prefix)
	query = applyOrder(query, params.OrderBy, params.Asc, "key")
	var items []models.SystemSetting
	if err := query.Limit(normalizeLimit(params.Limit, 500)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	if err := settingsQuery(s.db.WithContext(ctx), params.Prefix).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func settingsQuery(db *gorm.DB, prefix *string) *gorm.DB {
	query := db.Model(&models.SystemSetting{})
	if prefix != nil && strings.TrimSpace(*prefix) != "" {
		query = query.Where("key LIKE ?", strings.TrimSpace(*prefix)+"%")
	}
	return query
}

// --- helpers ----------------------------------------------------------------

var orderColumns = map[string]struct{}{
	"started_at": {}, "created_at": {}, "updated_at": {}, "name": {}, "key": {}, "number": {}, "date": {},
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if _, ok := orderColumns[column]; !ok {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	seen := map[string]struct{}{}
	for _, raw := range items {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, val)
	}
	return out
}

var _ repository.Repository = (*Store)(nil)
