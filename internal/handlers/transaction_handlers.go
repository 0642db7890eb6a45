package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/moneybox-app/internal/database"
	"github.com/valeriaulyamaeva/moneybox-app/models"
)

type transactionRequest struct {
	AccountID   int             `json:"account_id"`
	CategoryID  *int            `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description *string         `json:"description"`
}

func CreateTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		var payload transactionRequest
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный формат данных операции"})
			return
		}

		cents, err := amountToMinorUnits(payload.Amount)
		if err != nil {
			respondError(c, err)
			return
		}

		transaction := &models.Transaction{
			UserID:      userID,
			AccountID:   payload.AccountID,
			CategoryID:  payload.CategoryID,
			Amount:      cents,
			Type:        payload.Type,
			Description: payload.Description,
		}
		if err := database.CreateTransaction(pool, transaction); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusCreated, transaction)
	}
}

func GetTransactionsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		transactions, err := database.GetTransactionsByUserID(pool, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, transactions)
	}
}
