package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/moneybox-app/models"
)

func CreateCategory(pool *pgxpool.Pool, category *models.Category) error {
	if category.Name == "" {
		return fmt.Errorf("%w: у категории должно быть имя", ErrInvalidInput)
	}
	query := `
		INSERT INTO categories (user_id, name, type)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := pool.QueryRow(context.Background(), query,
		category.UserID, category.Name, category.Type).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении категории: %v", err)
	}
	return nil
}

func GetCategoriesByUserID(pool *pgxpool.Pool, userID int) ([]models.Category, error) {
	query := `SELECT id, user_id, name, type FROM categories WHERE user_id = $1 ORDER BY name`
	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении категорий: %v", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &category.Type); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func UpdateCategory(pool *pgxpool.Pool, userID int, category *models.Category) error {
	query := `UPDATE categories SET name = $1, type = $2 WHERE id = $3 AND user_id = $4`
	result, err := pool.Exec(context.Background(), query,
		category.Name, category.Type, category.ID, userID)
	if err != nil {
		return fmt.Errorf("ошибка обновления категории: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: категория с ID %d", ErrNotFound, category.ID)
	}
	return nil
}

func DeleteCategory(pool *pgxpool.Pool, userID, categoryID int) error {
	result, err := pool.Exec(context.Background(), `
		DELETE FROM categories WHERE id = $1 AND user_id = $2`, categoryID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления категории: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: категория с ID %d", ErrNotFound, categoryID)
	}
	return nil
}
