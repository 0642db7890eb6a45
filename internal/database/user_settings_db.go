package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/moneybox-app/models"
)

// Валюты, которые понимает конвертер курсов.
var validCurrencies = map[string]bool{
	"BYN": true, "RUB": true, "PLN": true, "KRW": true,
	"JPY": true, "USD": true, "EUR": true,
}

func IsValidCurrency(code string) bool {
	return validCurrencies[code]
}

func GetUserSettingsByID(pool *pgxpool.Pool, userID int) (*models.UserSettings, error) {
	query := `
		SELECT id, user_id, currency, old_currency, theme, notification_volume, auto_updates, weekly_reports
		FROM user_settings WHERE user_id = $1`

	var settings models.UserSettings
	err := pool.QueryRow(context.Background(), query, userID).Scan(
		&settings.ID, &settings.UserID, &settings.Currency, &settings.OldCurrency,
		&settings.Theme, &settings.NotificationVolume, &settings.AutoUpdates, &settings.WeeklyReports,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: настройки пользователя %d", ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении настроек: %v", err)
	}
	return &settings, nil
}

func UpdateUserSettings(pool *pgxpool.Pool, settings *models.UserSettings) error {
	if settings.Currency != "" && !IsValidCurrency(settings.Currency) {
		return fmt.Errorf("%w: неподдерживаемая валюта %q", ErrInvalidInput, settings.Currency)
	}
	query := `
		UPDATE user_settings
		SET currency = $1, old_currency = $2, theme = $3, notification_volume = $4,
		    auto_updates = $5, weekly_reports = $6
		WHERE user_id = $7`
	result, err := pool.Exec(context.Background(), query,
		settings.Currency, settings.OldCurrency, settings.Theme, settings.NotificationVolume,
		settings.AutoUpdates, settings.WeeklyReports, settings.UserID,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления настроек: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: настройки пользователя %d", ErrNotFound, settings.UserID)
	}
	return nil
}
