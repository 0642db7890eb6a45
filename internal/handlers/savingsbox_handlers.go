package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/moneybox-app/internal/database"
	"github.com/valeriaulyamaeva/moneybox-app/models"
)

type savingsBoxRequest struct {
	Name         string           `json:"name"`
	Description  *string          `json:"description"`
	Color        string           `json:"color"`
	Icon         string           `json:"icon"`
	TargetAmount *decimal.Decimal `json:"target_amount"`
}

// Суммы в телах запросов приходят в основных единицах валюты (рублях);
// в копейки их переводит слой операций.
type ledgerRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	AccountID   *int            `json:"account_id"`
	Description string          `json:"description"`
}

type transferRequest struct {
	FromBoxID   int             `json:"from_box_id"`
	ToBoxID     int             `json:"to_box_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func CreateSavingsBoxHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		var payload savingsBoxRequest
		if err := c.ShouldBindJSON(&payload); err != nil {
			log.Printf("Ошибка привязки JSON: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный формат данных копилки"})
			return
		}

		box := &models.SavingsBox{
			UserID:      userID,
			Name:        payload.Name,
			Description: payload.Description,
			Color:       payload.Color,
			Icon:        payload.Icon,
		}
		if box.Color == "" {
			box.Color = "#4caf50"
		}
		if box.Icon == "" {
			box.Icon = "piggy-bank"
		}
		if payload.TargetAmount != nil {
			cents, err := amountToMinorUnits(*payload.TargetAmount)
			if err != nil {
				respondError(c, err)
				return
			}
			box.TargetAmount = &cents
		}

		if err := database.CreateSavingsBox(pool, box); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusCreated, box)
	}
}

func GetSavingsBoxesHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		includeInactive := c.Query("include_inactive") == "true"
		boxes, err := database.GetAllSavingsBoxes(pool, userID, includeInactive)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, boxes)
	}
}

func GetSavingsBoxHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		boxID, ok := idParam(c, "id")
		if !ok {
			return
		}
		box, err := database.GetSavingsBoxByID(pool, userID, boxID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, box)
	}
}

func UpdateSavingsBoxHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		boxID, ok := idParam(c, "id")
		if !ok {
			return
		}
		var payload savingsBoxRequest
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный формат данных копилки"})
			return
		}

		box := &models.SavingsBox{
			ID:          boxID,
			Name:        payload.Name,
			Description: payload.Description,
			Color:       payload.Color,
			Icon:        payload.Icon,
		}
		if payload.TargetAmount != nil {
			cents, err := amountToMinorUnits(*payload.TargetAmount)
			if err != nil {
				respondError(c, err)
				return
			}
			box.TargetAmount = &cents
		}

		if err := database.UpdateSavingsBox(pool, userID, box); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"message": "Копилка обновлена"})
	}
}

// DeleteSavingsBoxHandler выполняет мягкое удаление; с параметром
// ?hard=true — полное, с защитными проверками.
func DeleteSavingsBoxHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		boxID, ok := idParam(c, "id")
		if !ok {
			return
		}

		var err error
		if c.Query("hard") == "true" {
			err = database.HardDeleteSavingsBox(pool, userID, boxID)
		} else {
			err = database.SoftDeleteSavingsBox(pool, userID, boxID)
		}
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"message": "Копилка удалена"})
	}
}

func RestoreSavingsBoxHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		boxID, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := database.RestoreSavingsBox(pool, userID, boxID); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"message": "Копилка восстановлена"})
	}
}

func DepositHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		boxID, ok := idParam(c, "id")
		if !ok {
			return
		}
		var payload ledgerRequest
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный формат данных операции"})
			return
		}

		transaction, err := database.DepositToBox(pool, userID, boxID, payload.Amount, payload.AccountID, payload.Description)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusCreated, transaction)
	}
}

func WithdrawHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		boxID, ok := idParam(c, "id")
		if !ok {
			return
		}
		var payload ledgerRequest
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный формат данных операции"})
			return
		}

		transaction, err := database.WithdrawFromBox(pool, userID, boxID, payload.Amount, payload.AccountID, payload.Description)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusCreated, transaction)
	}
}

func TransferHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		var payload transferRequest
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный формат данных перевода"})
			return
		}

		transaction, err := database.TransferBetweenBoxes(pool, userID,
			payload.FromBoxID, payload.ToBoxID, payload.Amount, payload.Description)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusCreated, transaction)
	}
}

func GetSavingsTransactionsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		boxID := 0
		if c.Query("box_id") != "" {
			var ok bool
			boxID, ok = idFromQuery(c, "box_id")
			if !ok {
				return
			}
		}
		transactions, err := database.GetSavingsTransactions(pool, userID, boxID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, transactions)
	}
}

// DeleteSavingsTransactionHandler всегда отвечает отказом: проведённые
// операции неизменяемы. Идентификатор не проверяется — отказ одинаков для
// существующих и несуществующих операций.
func DeleteSavingsTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := strconv.Atoi(c.Query("user_id"))
		transactionID, _ := strconv.Atoi(c.Param("id"))
		respondError(c, database.DeleteSavingsTransaction(userID, transactionID))
	}
}
