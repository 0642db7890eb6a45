package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/moneybox-app/models"
)

// CreateAccount добавляет новый счёт пользователя.
func CreateAccount(pool *pgxpool.Pool, account *models.Account) error {
	if account.Name == "" {
		return fmt.Errorf("%w: у счёта должно быть имя", ErrInvalidInput)
	}
	query := `
		INSERT INTO accounts (user_id, name, type, balance, currency)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := pool.QueryRow(context.Background(), query,
		account.UserID,
		account.Name,
		account.Type,
		account.Balance,
		account.Currency).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении счёта: %v", err)
	}
	return nil
}

// GetAccountByID извлекает счёт пользователя по ID.
func GetAccountByID(pool *pgxpool.Pool, userID, accountID int) (*models.Account, error) {
	query := `
		SELECT id, user_id, name, type, balance, currency, created_at
		FROM accounts
		WHERE id = $1 AND user_id = $2`

	account := &models.Account{}
	err := pool.QueryRow(context.Background(), query, accountID, userID).Scan(
		&account.ID,
		&account.UserID,
		&account.Name,
		&account.Type,
		&account.Balance,
		&account.Currency,
		&account.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: счёт с ID %d", ErrNotFound, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении счёта: %v", err)
	}
	return account, nil
}

// GetAllAccounts извлекает все счета пользователя.
func GetAllAccounts(pool *pgxpool.Pool, userID int) ([]models.Account, error) {
	query := `
		SELECT id, user_id, name, type, balance, currency, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at`
	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении счетов: %v", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(&account.ID, &account.UserID, &account.Name, &account.Type,
			&account.Balance, &account.Currency, &account.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// UpdateAccount обновляет имя, тип и валюту счёта. Баланс меняется только
// операциями.
func UpdateAccount(pool *pgxpool.Pool, userID int, account *models.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, type = $2, currency = $3
		WHERE id = $4 AND user_id = $5`
	result, err := pool.Exec(context.Background(), query,
		account.Name,
		account.Type,
		account.Currency,
		account.ID,
		userID)
	if err != nil {
		return fmt.Errorf("ошибка обновления счёта: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: счёт с ID %d", ErrNotFound, account.ID)
	}
	return nil
}

// DeleteAccount удаляет счёт. Счёт с историей операций защищён внешним
// ключом — удаление такой записи возвращает конфликт.
func DeleteAccount(pool *pgxpool.Pool, userID, accountID int) error {
	result, err := pool.Exec(context.Background(), `
		DELETE FROM accounts WHERE id = $1 AND user_id = $2`, accountID, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: по счёту есть история операций", ErrConflict)
		}
		return fmt.Errorf("ошибка удаления счёта: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: счёт с ID %d", ErrNotFound, accountID)
	}
	return nil
}
