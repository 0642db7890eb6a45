package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/moneybox-app/internal/database"
)

func GetNotificationsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		notifications, err := database.GetNotificationsByUserID(pool, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, notifications)
	}
}

func MarkNotificationReadHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		notificationID, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := database.MarkNotificationAsRead(pool, userID, notificationID); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"message": "Уведомление помечено как прочитанное"})
	}
}

func DeleteNotificationHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userIDFromQuery(c)
		if !ok {
			return
		}
		notificationID, ok := idParam(c, "id")
		if !ok {
			return
		}
		if err := database.DeleteNotification(pool, userID, notificationID); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, gin.H{"message": "Уведомление удалено"})
	}
}
