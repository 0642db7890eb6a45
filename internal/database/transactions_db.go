package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/moneybox-app/models"
	"github.com/valeriaulyamaeva/moneybox-app/utils"
)

// CreateTransaction проводит обычную операцию по счёту (доход или расход)
// и в той же транзакции двигает баланс счёта. Расход требует достаточного
// остатка.
func CreateTransaction(pool *pgxpool.Pool, transaction *models.Transaction) error {
	if transaction.Amount <= 0 {
		return fmt.Errorf("%w: сумма должна быть положительной", ErrInvalidInput)
	}
	if transaction.Type != "income" && transaction.Type != "expense" {
		return fmt.Errorf("%w: неизвестный тип операции %q", ErrInvalidInput, transaction.Type)
	}

	ctx := context.Background()
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %v", err)
	}
	defer tx.Rollback(ctx)

	delta := transaction.SignedAmount()
	tag, err := tx.Exec(ctx, `
		UPDATE accounts SET balance = balance + $1
		WHERE id = $2 AND user_id = $3 AND balance + $1 >= 0`,
		delta, transaction.AccountID, transaction.UserID)
	if err != nil {
		return fmt.Errorf("ошибка обновления баланса счёта: %v", err)
	}
	if tag.RowsAffected() == 0 {
		account, lookupErr := GetAccountByID(pool, transaction.UserID, transaction.AccountID)
		if lookupErr != nil {
			return lookupErr
		}
		return fmt.Errorf("%w: на счёте доступно %s", ErrInsufficientFunds, utils.FormatMinorUnits(account.Balance))
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO transactions (user_id, account_id, category_id, amount, type, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		transaction.UserID,
		transaction.AccountID,
		transaction.CategoryID,
		transaction.Amount,
		transaction.Type,
		transaction.Description).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении операции: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %v", err)
	}
	return nil
}

// GetTransactionsByUserID возвращает ленту операций по счетам пользователя.
func GetTransactionsByUserID(pool *pgxpool.Pool, userID int) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, account_id, category_id, amount, type, description, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении операций: %v", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.AccountID, &t.CategoryID,
			&t.Amount, &t.Type, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
