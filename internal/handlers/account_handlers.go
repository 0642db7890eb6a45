package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/moneybox-app/internal/database"
	"github.com/valeriaulyamaeva/moneybox-app/models"
)

type accountRequest struct {
	Name     string           `json:"name"`
	Type     string           `json:"type"`
	Balance  *decimal.Decimal `json:"balance"`
	Currency string           `json:"currency"`
}

func CreateAccountHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		var payload accountRequest
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный формат данных счёта"})
			return
		}

		account := &models.Account{
			UserID:   userID,
			Name:     payload.Name,
			Type:     payload.Type,
			Currency: payload.Currency,
		}
		if account.Type == "" {
			account.Type = "checking"
		}
		if account.Currency == "" {
			account.Currency = "RUB"
		}
		// Начальный баланс допускается: счёт заводится с уже лежащими на
		// нём деньгами.
		if payload.Balance != nil && !payload.Balance.IsZero() {
			cents, err := amountToMinorUnits(*payload.Balance)
			if err != nil {
				respondError(c, err)
				return
			}
			account.Balance = cents
		}

		if err := database.CreateAccount(pool, account); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusCreated, account)
	}
}

func GetAccountsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		accounts, err := database.GetAllAccounts(pool, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, accounts)
	}
}

func UpdateAccountHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		accountID, ok := idParam(c, "id")
		if !ok {
			return
		}
		var payload accountRequest
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный формат данных счёта"})
			return
		}

		account := &models.Account{
			ID:       accountID,
			Name:     payload.Name,
			Type:     payload.Type,
			Currency: payload.Currency,
		}
		if err := database.UpdateAccount(pool, userID, account); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"message": "Счёт обновлён"})
	}
}

func DeleteAccountHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		accountID, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := database.DeleteAccount(pool, userID, accountID); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"message": "Счёт удалён"})
	}
}
