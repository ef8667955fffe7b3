package service

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

type UpsertSettingInput struct {
	Key         string
	Value       string
	Description string
}

func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

func (s *SettingsService) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	return s.settingsRepo.Get(ctx, key)
}

func (s *SettingsService) ListSettings(ctx context.Context) ([]models.Setting, error) {
	return s.settingsRepo.List(ctx)
}

func (s *SettingsService) UpsertSetting(ctx context.Context, in UpsertSettingInput) (*models.Setting, error) {
	key := strings.TrimSpace(in.Key)
	if key == "" {
		return nil, models.NewValidationError("Setting key is required")
	}

	setting := &models.Setting{
		Key:         key,
		Value:       in.Value,
		Description: in.Description,
	}
	if err := s.settingsRepo.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	return s.settingsRepo.Get(ctx, key)
}

// AllowRegistration reports whether new account signup is open. A missing
// setting row means registration is open.
func (s *SettingsService) AllowRegistration(ctx context.Context) (bool, error) {
	setting, err := s.settingsRepo.Get(ctx, models.SettingAllowRegistration)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return true, nil
		}
		return false, err
	}
	return strings.EqualFold(setting.Value, "true"), nil
}
