package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/moneybox-app/models"
)

func CreateNotification(pool *pgxpool.Pool, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, message, is_read)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := pool.QueryRow(context.Background(), query,
		notification.UserID,
		notification.Message,
		notification.IsRead).Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении уведомления: %v", err)
	}
	return nil
}

func GetNotificationsByUserID(pool *pgxpool.Pool, userID int) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении уведомлений: %v", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func MarkNotificationAsRead(pool *pgxpool.Pool, userID, notificationID int) error {
	result, err := pool.Exec(context.Background(), `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND user_id = $2`, notificationID, userID)
	if err != nil {
		return fmt.Errorf("ошибка пометки уведомления: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: уведомление с ID %d", ErrNotFound, notificationID)
	}
	return nil
}

func DeleteNotification(pool *pgxpool.Pool, userID, notificationID int) error {
	result, err := pool.Exec(context.Background(), `
		DELETE FROM notifications WHERE id = $1 AND user_id = $2`, notificationID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления уведомления: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: уведомление с ID %d", ErrNotFound, notificationID)
	}
	return nil
}

// NotifyUpcomingGoalDeadlines создаёт уведомления по незавершённым целям,
// срок которых наступает в ближайшие 7 дней. Запускается по расписанию;
// повторные уведомления в один день не создаются.
func NotifyUpcomingGoalDeadlines(pool *pgxpool.Pool) error {
	query := `
		INSERT INTO notifications (user_id, message)
		SELECT g.user_id,
		       'Срок цели "' || g.name || '" наступает ' || TO_CHAR(g.target_date, 'DD.MM.YYYY')
		FROM goals g
		WHERE NOT g.is_completed
		  AND g.target_date BETWEEN CURRENT_DATE AND CURRENT_DATE + INTERVAL '7 days'
		  AND NOT EXISTS (
			SELECT 1 FROM notifications n
			WHERE n.user_id = g.user_id
			  AND n.message LIKE 'Срок цели "' || g.name || '"%'
			  AND n.created_at::date = CURRENT_DATE
		  )`
	tag, err := pool.Exec(context.Background(), query)
	if err != nil {
		return fmt.Errorf("ошибка создания уведомлений о сроках целей: %v", err)
	}
	if tag.RowsAffected() > 0 {
		log.Printf("Создано уведомлений о сроках целей: %d", tag.RowsAffected())
	}
	return nil
}
