package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/moneybox-app/models"
	"golang.org/x/crypto/bcrypt"
)

// RegisterUser регистрирует нового пользователя и создаёт для него
// настройки по умолчанию.
func RegisterUser(pool *pgxpool.Pool, user *models.User) error {
	if user.Email == "" || user.Password == "" {
		return fmt.Errorf("%w: email и пароль обязательны", ErrInvalidInput)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %v", err)
	}

	ctx := context.Background()
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %v", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO users (email, password, name) VALUES ($1, $2, $3) RETURNING id, created_at`
	err = tx.QueryRow(ctx, query, user.Email, hashedPassword, user.Name).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении пользователя: %v", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO user_settings (user_id) VALUES ($1)`, user.ID); err != nil {
		return fmt.Errorf("ошибка создания настроек пользователя: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %v", err)
	}
	return nil
}

// AuthenticateUser проверяет email и пароль и возвращает пользователя.
func AuthenticateUser(pool *pgxpool.Pool, email, password string) (*models.User, error) {
	var user models.User
	query := `SELECT id, email, password, name, is_admin, created_at FROM users WHERE email = $1`
	err := pool.QueryRow(context.Background(), query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.Name, &user.IsAdmin, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: пользователь не найден", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении пользователя: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("неверный пароль")
	}

	user.Password = ""
	return &user, nil
}
