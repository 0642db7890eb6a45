package database

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/net/context"
)

type UserStat struct {
	TotalUsers   int `json:"total_users"`
	AdminUsers   int `json:"admin_users"`
	RegularUsers int `json:"regular_users"`
}

type MonthlyRegistrations struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

func GetUserStats(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var stats UserStat
		query := `
			SELECT
				(SELECT COUNT(*) FROM users) AS total_users,
				(SELECT COUNT(*) FROM users WHERE is_admin = true) AS admin_users,
				(SELECT COUNT(*) FROM users WHERE is_admin = false) AS regular_users
		`

		err := pool.QueryRow(context.Background(), query).Scan(&stats.TotalUsers, &stats.AdminUsers, &stats.RegularUsers)
		if err != nil {
			log.Printf("Ошибка получения статистики пользователей: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения статистики пользователей"})
			return
		}

		c.JSON(http.StatusOK, stats)
	}
}

func GetRegistrationsByMonth(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := `
			SELECT
				TO_CHAR(created_at, 'YYYY-MM') AS month,
				COUNT(*)
			FROM users
			GROUP BY month
			ORDER BY month`

		rows, err := pool.Query(context.Background(), query)
		if err != nil {
			log.Printf("Ошибка получения регистраций по месяцам: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения регистраций по месяцам"})
			return
		}
		defer rows.Close()

		var registrations []MonthlyRegistrations
		for rows.Next() {
			var r MonthlyRegistrations
			if err := rows.Scan(&r.Month, &r.Count); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка чтения статистики"})
				return
			}
			registrations = append(registrations, r)
		}

		c.JSON(http.StatusOK, registrations)
	}
}

// GetSavingsOverview — сводка по всем накоплениям сервиса для админки:
// сколько активных копилок, сколько денег в них лежит и сколько операций
// проведено за текущий месяц.
func GetSavingsOverview(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var activeBoxes, monthOperations int
		var totalSaved int64
		query := `
			SELECT
				(SELECT COUNT(*) FROM savings_boxes WHERE is_active) AS active_boxes,
				(SELECT COALESCE(SUM(current_amount), 0) FROM savings_boxes WHERE is_active) AS total_saved,
				(SELECT COUNT(*) FROM savings_transactions
				 WHERE DATE_TRUNC('month', created_at) = DATE_TRUNC('month', CURRENT_DATE)) AS month_operations
		`

		err := pool.QueryRow(context.Background(), query).Scan(&activeBoxes, &totalSaved, &monthOperations)
		if err != nil {
			log.Printf("Ошибка получения сводки по накоплениям: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения сводки по накоплениям"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"active_boxes":     activeBoxes,
			"total_saved":      totalSaved,
			"month_operations": monthOperations,
		})
	}
}
