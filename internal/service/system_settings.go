package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"pokerleague/internal/models"
	"pokerleague/internal/repository"
)

const (
	FeatureJackpotAutoAccrue    = "feature.jackpot_auto_accrue"
	FeatureJackpotReconcile     = "feature.jackpot_reconcile"
	FeatureMembershipAutoCharge = "feature.membership_auto_charge"
)

func DefaultFeatureSwitches() map[string]bool {
	return map[string]bool{
		FeatureJackpotAutoAccrue:    true,
		FeatureJackpotReconcile:     true,
		FeatureMembershipAutoCharge: false,
	}
}

type SystemSettingsService struct {
	Repo repository.Repository
}

// EnsureDefaultSwitches inserts missing switches. Stored values are never overwritten.
func (s *SystemSettingsService) EnsureDefaultSwitches(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	now := time.Now().UTC()
	for key, enabled := range DefaultFeatureSwitches() {
		existing, err := s.Repo.GetSystemSettingByKey(ctx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		raw, _ := json.Marshal(enabled)
		item := &models.SystemSetting{
			Key:         key,
			Value:       datatypes.JSON(raw),
			Description: "feature switch",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.Repo.UpsertSystemSetting(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *SystemSettingsService) IsEnabled(ctx context.Context, key string, fallback bool) bool {
	if s == nil || s.Repo == nil {
		return fallback
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	item, err := s.Repo.GetSystemSettingByKey(ctx, key)
	if err != nil || item == nil || len(item.Value) == 0 {
		return fallback
	}
	var enabled bool
	if err := json.Unmarshal(item.Value, &enabled); err != nil {
		return fallback
	}
	return enabled
}

func (s *SystemSettingsService) SetEnabled(ctx context.Context, key string, enabled bool) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return invalid("key", "is required")
	}
	if _, ok := DefaultFeatureSwitches()[key]; !ok {
		return invalid("key", "unknown feature switch %q", key)
	}
	raw, _ := json.Marshal(enabled)
	now := time.Now().UTC()
	return s.Repo.UpsertSystemSetting(ctx, &models.SystemSetting{
		Key:         key,
		Value:       datatypes.JSON(raw),
		Description: "feature switch",
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// Switches returns every known switch with its effective value.
func (s *SystemSettingsService) Switches(ctx context.Context) map[string]bool {
	out := DefaultFeatureSwitches()
	for key, def := range out {
		out[key] = s.IsEnabled(ctx, key, def)
	}
	return out
}

func (s *SystemSettingsService) List(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, int64, error) {
	if s == nil || s.Repo == nil {
		return nil, 0, nil
	}
	items, err := s.Repo.ListSystemSettings(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.CountSystemSettings(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
