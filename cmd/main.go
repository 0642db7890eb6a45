package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"github.com/valeriaulyamaeva/moneybox-app/internal/database"
	"github.com/valeriaulyamaeva/moneybox-app/internal/handlers"
)

// ScheduleGoalDeadlineReminders раз в день создаёт уведомления для целей,
// срок которых подходит в ближайшую неделю.
func ScheduleGoalDeadlineReminders(pool *pgxpool.Pool) {
	c := cron.New()
	_, err := c.AddFunc("@daily", func() {
		if err := database.NotifyUpcomingGoalDeadlines(pool); err != nil {
			log.Printf("Ошибка создания напоминаний о сроках целей: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Ошибка настройки CRON-задачи для напоминаний: %v", err)
	}
	c.Start()
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "http://localhost:3000" || origin == "http://localhost:3001" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

func main() {
	pool, err := database.ConnectDB()
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer pool.Close()

	r := gin.Default()
	r.Use(CORSMiddleware())

	ScheduleGoalDeadlineReminders(pool)

	r.POST("/register", handlers.RegisterHandler(pool))
	r.POST("/login", handlers.LoginHandler(pool))

	r.POST("/accounts", handlers.CreateAccountHandler(pool))
	r.GET("/accounts", handlers.GetAccountsHandler(pool))
	r.PUT("/accounts/:id", handlers.UpdateAccountHandler(pool))
	r.DELETE("/accounts/:id", handlers.DeleteAccountHandler(pool))

	r.POST("/savingsboxes", handlers.CreateSavingsBoxHandler(pool))
	r.GET("/savingsboxes", handlers.GetSavingsBoxesHandler(pool))
	r.GET("/savingsboxes/:id", handlers.GetSavingsBoxHandler(pool))
	r.PUT("/savingsboxes/:id", handlers.UpdateSavingsBoxHandler(pool))
	r.DELETE("/savingsboxes/:id", handlers.DeleteSavingsBoxHandler(pool))
	r.POST("/savingsboxes/:id/restore", handlers.RestoreSavingsBoxHandler(pool))
	r.POST("/savingsboxes/:id/deposit", handlers.DepositHandler(pool))
	r.POST("/savingsboxes/:id/withdraw", handlers.WithdrawHandler(pool))
	r.POST("/savingsboxes/transfer", handlers.TransferHandler(pool))

	r.GET("/savings_transactions", handlers.GetSavingsTransactionsHandler(pool))
	r.DELETE("/savings_transactions/:id", handlers.DeleteSavingsTransactionHandler(pool))

	r.POST("/goals", handlers.CreateGoalHandler(pool))
	r.GET("/goals", handlers.GetGoalsHandler(pool))
	r.GET("/goals/:id", handlers.GetGoalHandler(pool))
	r.PUT("/goals/:id", handlers.UpdateGoalHandler(pool))
	r.DELETE("/goals/:id", handlers.DeleteGoalHandler(pool))
	r.PUT("/goals/:id/link", handlers.LinkGoalHandler(pool))
	r.POST("/goals/:id/contribute", handlers.ContributeToGoalHandler(pool))

	r.POST("/transactions", handlers.CreateTransactionHandler(pool))
	r.GET("/transactions", handlers.GetTransactionsHandler(pool))

	r.POST("/categories", handlers.CreateCategoryHandler(pool))
	r.GET("/categories", handlers.GetCategoriesHandler(pool))
	r.PUT("/categories/:id", handlers.UpdateCategoryHandler(pool))
	r.DELETE("/categories/:id", handlers.DeleteCategoryHandler(pool))

	r.GET("/notifications", handlers.GetNotificationsHandler(pool))
	r.PUT("/notifications/:id/read", handlers.MarkNotificationReadHandler(pool))
	r.DELETE("/notifications/:id", handlers.DeleteNotificationHandler(pool))

	r.GET("/usersettings/:id", handlers.GetUserSettingsHandler(pool))
	r.PUT("/usersettings/:id", handlers.UpdateUserSettingsHandler(pool))
	r.POST("/usersettings/convert", handlers.ConvertCurrencyHandler())

	r.GET("/dashboard/summary", handlers.DashboardSummaryHandler(pool))
	r.GET("/dashboard/monthly_dynamics", handlers.MonthlySavingsDynamicsHandler(pool))
	r.GET("/dashboard/goals_progress", handlers.GoalsProgressHandler(pool))

	r.GET("/admin/user_stats", database.GetUserStats(pool))
	r.GET("/admin/registrations_by_month", database.GetRegistrationsByMonth(pool))
	r.GET("/admin/savings_overview", database.GetSavingsOverview(pool))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Ошибка при запуске сервера: %v", err)
	}
}
