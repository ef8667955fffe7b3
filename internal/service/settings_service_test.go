package service

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_AllowRegistration(t *testing.T) {
	t.Parallel()

	db := testutil.NewTestDB(t)
	svc := NewSettingsService(repository.NewSettingsRepository(db))
	ctx := context.Background()

	// No row means registration is open.
	open, err := svc.AllowRegistration(ctx)
	require.NoError(t, err)
	assert.True(t, open)

	_, err = svc.UpsertSetting(ctx, UpsertSettingInput{Key: models.SettingAllowRegistration, Value: "false"})
	require.NoError(t, err)

	open, err = svc.AllowRegistration(ctx)
	require.NoError(t, err)
	assert.False(t, open)

	// Value comparison is case-insensitive.
	_, err = svc.UpsertSetting(ctx, UpsertSettingInput{Key: models.SettingAllowRegistration, Value: "TRUE"})
	require.NoError(t, err)

	open, err = svc.AllowRegistration(ctx)
	require.NoError(t, err)
	assert.True(t, open)
}

func TestSettingsService_UpsertSetting(t *testing.T) {
	t.Parallel()

	db := testutil.NewTestDB(t)
	svc := NewSettingsService(repository.NewSettingsRepository(db))
	ctx := context.Background()

	t.Run("blank key rejected", func(t *testing.T) {
		_, err := svc.UpsertSetting(ctx, UpsertSettingInput{Key: "  ", Value: "x"})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeValidation, appErr.Code)
	})

	setting, err := svc.UpsertSetting(ctx, UpsertSettingInput{
		Key: "THEME", Value: "dark", Description: "default theme",
	})
	require.NoError(t, err)
	assert.Equal(t, "dark", setting.Value)

	setting, err = svc.UpsertSetting(ctx, UpsertSettingInput{Key: "THEME", Value: "light"})
	require.NoError(t, err)
	assert.Equal(t, "light", setting.Value)

	settings, err := svc.ListSettings(ctx)
	require.NoError(t, err)
	assert.Len(t, settings, 1, "upsert must overwrite rather than duplicate")
}
