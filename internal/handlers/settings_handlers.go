package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/moneybox-app/internal/database"
	"github.com/valeriaulyamaeva/moneybox-app/models"
	"github.com/valeriaulyamaeva/moneybox-app/utils"
)

type settingsRequest struct {
	Currency           string `json:"currency"`
	Theme              string `json:"theme"`
	NotificationVolume *int   `json:"notification_volume"`
	AutoUpdates        *bool  `json:"auto_updates"`
	WeeklyReports      *bool  `json:"weekly_reports"`
}

type convertRequest struct {
	Amount decimal.Decimal `json:"amount"`
	From   string          `json:"from"`
	To     string          `json:"to"`
}

func GetUserSettingsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := idParam(c, "id")
		if !ok {
			return
		}
		settings, err := database.GetUserSettingsByID(pool, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, settings)
	}
}

func UpdateUserSettingsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := idParam(c, "id")
		if !ok {
			return
		}
		var req settingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, fmt.Errorf("%w: некорректное тело запроса", database.ErrInvalidInput))
			return
		}

		current, err := database.GetUserSettingsByID(pool, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		settings := models.UserSettings{
			UserID:             userID,
			Currency:           current.Currency,
			OldCurrency:        current.OldCurrency,
			Theme:              current.Theme,
			NotificationVolume: current.NotificationVolume,
			AutoUpdates:        current.AutoUpdates,
			WeeklyReports:      current.WeeklyReports,
		}
		if req.Currency != "" {
			if !database.IsValidCurrency(req.Currency) {
				respondError(c, fmt.Errorf("%w: неподдерживаемая валюта %s", database.ErrInvalidInput, req.Currency))
				return
			}
			if req.Currency != current.Currency {
				settings.OldCurrency = current.Currency
			}
			settings.Currency = req.Currency
		}
		if req.Theme != "" {
			settings.Theme = req.Theme
		}
		if req.NotificationVolume != nil {
			settings.NotificationVolume = *req.NotificationVolume
		}
		if req.AutoUpdates != nil {
			settings.AutoUpdates = *req.AutoUpdates
		}
		if req.WeeklyReports != nil {
			settings.WeeklyReports = *req.WeeklyReports
		}

		if err := database.UpdateUserSettings(pool, &settings); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, settings)
	}
}

// ConvertCurrencyHandler переводит сумму между валютами по актуальному курсу,
// не меняя ничего в базе.
func ConvertCurrencyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req convertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, fmt.Errorf("%w: некорректное тело запроса", database.ErrInvalidInput))
			return
		}
		if req.From == "" || req.To == "" {
			respondError(c, fmt.Errorf("%w: необходимо указать валюты from и to", database.ErrInvalidInput))
			return
		}
		if !database.IsValidCurrency(req.From) || !database.IsValidCurrency(req.To) {
			respondError(c, fmt.Errorf("%w: неподдерживаемая валюта", database.ErrInvalidInput))
			return
		}
		amount, _ := req.Amount.Float64()
		if amount <= 0 {
			respondError(c, fmt.Errorf("%w: сумма должна быть положительной", database.ErrInvalidInput))
			return
		}

		converted, err := utils.ConvertCurrency(amount, req.From, req.To)
		if err != nil {
			respondError(c, fmt.Errorf("не удалось получить курс валют: %v", err))
			return
		}
		respondOK(c, http.StatusOK, gin.H{
			"from":      req.From,
			"to":        req.To,
			"amount":    req.Amount,
			"converted": decimal.NewFromFloat(converted).Round(2),
		})
	}
}
