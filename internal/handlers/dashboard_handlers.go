package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/moneybox-app/internal/database"
	"github.com/valeriaulyamaeva/moneybox-app/utils"
)

func DashboardSummaryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		totalSavings, err := database.GetTotalSavings(pool, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		totalAccounts, err := database.GetTotalAccountsBalance(pool, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{
			"total_savings":          utils.FromMinorUnits(totalSavings),
			"total_accounts_balance": utils.FromMinorUnits(totalAccounts),
		})
	}
}

func MonthlySavingsDynamicsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		dynamics, err := database.GetMonthlySavingsDynamics(pool, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, dynamics)
	}
}

func GoalsProgressHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		progress, err := database.GetGoalsProgress(pool, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, progress)
	}
}
