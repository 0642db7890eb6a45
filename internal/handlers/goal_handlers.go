package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/moneybox-app/internal/database"
	"github.com/valeriaulyamaeva/moneybox-app/models"
)

type goalRequest struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	StartDate    time.Time       `json:"start_date"`
	TargetDate   time.Time       `json:"target_date"`
	CategoryID   *int            `json:"category_id"`
	AccountID    int             `json:"account_id"`
	SavingsBoxID *int            `json:"savings_box_id"`
}

type linkRequest struct {
	SavingsBoxID *int `json:"savings_box_id"`
}

type contributeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func CreateGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		var payload goalRequest
		if err := c.ShouldBindJSON(&payload); err != nil {
			log.Printf("Ошибка привязки JSON: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный формат данных цели"})
			return
		}

		target, err := amountToMinorUnits(payload.TargetAmount)
		if err != nil {
			respondError(c, err)
			return
		}
		if payload.StartDate.IsZero() {
			payload.StartDate = time.Now()
		}

		goal := &models.Goal{
			UserID:       userID,
			Name:         payload.Name,
			TargetAmount: target,
			StartDate:    payload.StartDate,
			TargetDate:   payload.TargetDate,
			CategoryID:   payload.CategoryID,
			AccountID:    payload.AccountID,
			SavingsBoxID: payload.SavingsBoxID,
		}
		if err := database.CreateGoal(pool, goal); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusCreated, goal)
	}
}

func GetGoalsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		goals, err := database.GetAllGoals(pool, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, goals)
	}
}

func GetGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		goalID, ok := idParam(c, "id")
		if !ok {
			return
		}
		goal, err := database.GetGoalByID(pool, userID, goalID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, goal)
	}
}

func UpdateGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		goalID, ok := idParam(c, "id")
		if !ok {
			return
		}
		var payload goalRequest
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный формат данных цели"})
			return
		}
		target, err := amountToMinorUnits(payload.TargetAmount)
		if err != nil {
			respondError(c, err)
			return
		}

		goal := &models.Goal{
			ID:           goalID,
			Name:         payload.Name,
			TargetAmount: target,
			TargetDate:   payload.TargetDate,
			CategoryID:   payload.CategoryID,
			AccountID:    payload.AccountID,
		}
		if err := database.UpdateGoal(pool, userID, goal); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"message": "Цель обновлена"})
	}
}

func DeleteGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		goalID, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := database.DeleteGoal(pool, userID, goalID); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"message": "Цель удалена"})
	}
}

// LinkGoalHandler привязывает цель к копилке либо отвязывает её
// (savings_box_id: null). В ответе — метка перехода и актуальная цель.
func LinkGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		goalID, ok := idParam(c, "id")
		if !ok {
			return
		}
		var payload linkRequest
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный формат данных привязки"})
			return
		}

		transition, err := database.LinkGoalToBox(pool, userID, goalID, payload.SavingsBoxID)
		if err != nil {
			respondError(c, err)
			return
		}
		goal, err := database.GetGoalByID(pool, userID, goalID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"transition": transition, "goal": goal})
	}
}

func ContributeToGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		goalID, ok := idParam(c, "id")
		if !ok {
			return
		}
		var payload contributeRequest
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный формат данных взноса"})
			return
		}

		goal, err := database.ContributeToGoal(pool, userID, goalID, payload.Amount)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, goal)
	}
}
