package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/moneybox-app/models"
	"github.com/valeriaulyamaeva/moneybox-app/utils"
)

// CreateSavingsBox добавляет новую копилку. Баланс всегда начинается с нуля.
func CreateSavingsBox(pool *pgxpool.Pool, box *models.SavingsBox) error {
	if box.Name == "" {
		return fmt.Errorf("%w: у копилки должно быть имя", ErrInvalidInput)
	}
	query := `
		INSERT INTO savings_boxes (user_id, name, description, color, icon, target_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, current_amount, is_active, created_at`
	err := pool.QueryRow(context.Background(), query,
		box.UserID,
		box.Name,
		box.Description,
		box.Color,
		box.Icon,
		box.TargetAmount).Scan(&box.ID, &box.CurrentAmount, &box.IsActive, &box.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении копилки: %v", err)
	}
	return nil
}

// GetSavingsBoxByID извлекает копилку пользователя по ID.
func GetSavingsBoxByID(pool *pgxpool.Pool, userID, boxID int) (*models.SavingsBox, error) {
	query := `
		SELECT id, user_id, name, description, color, icon, current_amount, target_amount, is_active, created_at
		FROM savings_boxes
		WHERE id = $1 AND user_id = $2`

	box := &models.SavingsBox{}
	err := pool.QueryRow(context.Background(), query, boxID, userID).Scan(
		&box.ID,
		&box.UserID,
		&box.Name,
		&box.Description,
		&box.Color,
		&box.Icon,
		&box.CurrentAmount,
		&box.TargetAmount,
		&box.IsActive,
		&box.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: копилка с ID %d", ErrNotFound, boxID)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении копилки: %v", err)
	}
	return box, nil
}

// GetAllSavingsBoxes извлекает копилки пользователя. Мягко удалённые
// возвращаются только при includeInactive.
func GetAllSavingsBoxes(pool *pgxpool.Pool, userID int, includeInactive bool) ([]models.SavingsBox, error) {
	query := `
		SELECT id, user_id, name, description, color, icon, current_amount, target_amount, is_active, created_at
		FROM savings_boxes
		WHERE user_id = $1 AND (is_active OR $2)
		ORDER BY created_at`
	rows, err := pool.Query(context.Background(), query, userID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении копилок: %v", err)
	}
	defer rows.Close()

	var boxes []models.SavingsBox
	for rows.Next() {
		var box models.SavingsBox
		if err := rows.Scan(&box.ID, &box.UserID, &box.Name, &box.Description, &box.Color,
			&box.Icon, &box.CurrentAmount, &box.TargetAmount, &box.IsActive, &box.CreatedAt); err != nil {
			return nil, err
		}
		boxes = append(boxes, box)
	}
	return boxes, rows.Err()
}

// UpdateSavingsBox обновляет оформление и цель копилки. Баланс через эту
// функцию не меняется — только операциями журнала.
func UpdateSavingsBox(pool *pgxpool.Pool, userID int, box *models.SavingsBox) error {
	query := `
		UPDATE savings_boxes
		SET name = $1, description = $2, color = $3, icon = $4, target_amount = $5
		WHERE id = $6 AND user_id = $7`
	result, err := pool.Exec(context.Background(), query,
		box.Name,
		box.Description,
		box.Color,
		box.Icon,
		box.TargetAmount,
		box.ID,
		userID)
	if err != nil {
		return fmt.Errorf("ошибка обновления копилки: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: копилка с ID %d", ErrNotFound, box.ID)
	}
	return nil
}

// SoftDeleteSavingsBox помечает копилку удалённой, сохраняя историю операций.
func SoftDeleteSavingsBox(pool *pgxpool.Pool, userID, boxID int) error {
	result, err := pool.Exec(context.Background(), `
		UPDATE savings_boxes SET is_active = FALSE
		WHERE id = $1 AND user_id = $2`, boxID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления копилки: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: копилка с ID %d", ErrNotFound, boxID)
	}
	return nil
}

// RestoreSavingsBox возвращает мягко удалённую копилку.
func RestoreSavingsBox(pool *pgxpool.Pool, userID, boxID int) error {
	result, err := pool.Exec(context.Background(), `
		UPDATE savings_boxes SET is_active = TRUE
		WHERE id = $1 AND user_id = $2`, boxID, userID)
	if err != nil {
		return fmt.Errorf("ошибка восстановления копилки: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: копилка с ID %d", ErrNotFound, boxID)
	}
	return nil
}

// HardDeleteSavingsBox удаляет копилку без возможности восстановления.
// Защитные условия, в порядке проверки: копилка существует и принадлежит
// пользователю; баланс нулевой; к копилке не привязаны цели. Историю
// операций дополнительно страхует внешний ключ в базе.
func HardDeleteSavingsBox(pool *pgxpool.Pool, userID, boxID int) error {
	ctx := context.Background()
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %v", err)
	}
	defer tx.Rollback(ctx)

	box, err := lockBox(ctx, tx, userID, boxID)
	if err != nil {
		return err
	}
	if box.CurrentAmount > 0 {
		return fmt.Errorf("%w: в копилке остались средства (%s), сначала снимите их",
			ErrConflict, utils.FormatMinorUnits(box.CurrentAmount))
	}

	var linkedGoals int
	if err := tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM goals WHERE savings_box_id = $1`, boxID).Scan(&linkedGoals); err != nil {
		return fmt.Errorf("ошибка проверки привязанных целей: %v", err)
	}
	if linkedGoals > 0 {
		return fmt.Errorf("%w: к копилке привязаны цели, сначала отвяжите их", ErrConflict)
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM savings_boxes WHERE id = $1 AND user_id = $2`, boxID, userID); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: по копилке есть история операций", ErrConflict)
		}
		return fmt.Errorf("ошибка удаления копилки: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %v", err)
	}
	return nil
}
