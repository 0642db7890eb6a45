package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/moneybox-app/models"
	"github.com/valeriaulyamaeva/moneybox-app/utils"
)

// Операции по копилкам. Каждая операция выполняется в одной транзакции
// базы данных: запись в журнал и изменения балансов либо применяются
// вместе, либо откатываются вместе. Балансы меняются атомарными
// инкрементами на стороне базы, строки копилок блокируются FOR UPDATE,
// поэтому параллельные операции над одной копилкой сериализуются и не
// теряют обновления.

type boxRow struct {
	ID            int
	IsActive      bool
	CurrentAmount int64
}

// lockBox читает копилку пользователя с блокировкой строки до конца
// транзакции.
func lockBox(ctx context.Context, tx pgx.Tx, userID, boxID int) (*boxRow, error) {
	var box boxRow
	err := tx.QueryRow(ctx, `
		SELECT id, is_active, current_amount
		FROM savings_boxes
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`, boxID, userID).Scan(&box.ID, &box.IsActive, &box.CurrentAmount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: копилка с ID %d", ErrNotFound, boxID)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении копилки: %v", err)
	}
	return &box, nil
}

// syncLinkedGoals зеркалирует баланс копилки во все привязанные к ней цели
// в рамках той же транзакции. Флаг завершённости только поднимается.
func syncLinkedGoals(ctx context.Context, tx pgx.Tx, userID, boxID int) error {
	_, err := tx.Exec(ctx, `
		UPDATE goals
		SET current_amount = b.current_amount,
		    is_completed = goals.is_completed OR b.current_amount >= goals.target_amount
		FROM savings_boxes b
		WHERE b.id = $1 AND goals.savings_box_id = b.id AND goals.user_id = $2`,
		boxID, userID)
	if err != nil {
		return fmt.Errorf("ошибка синхронизации целей с копилкой: %v", err)
	}
	return nil
}

func insertSavingsTransaction(ctx context.Context, tx pgx.Tx, t *models.SavingsTransaction) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO savings_transactions
			(user_id, savings_box_id, target_savings_box_id, source_account_id, amount, type, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		t.UserID, t.SavingsBoxID, t.TargetSavingsBoxID, t.SourceAccountID,
		t.Amount, t.Type, t.Description).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при записи операции: %v", err)
	}
	return nil
}

func textOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// depositInTx проводит пополнение копилки внутри уже открытой транзакции.
// Выделено отдельно, потому что взнос в привязанную цель идёт тем же путём.
func depositInTx(ctx context.Context, tx pgx.Tx, userID, boxID int, cents int64, accountID *int, description string) (*models.SavingsTransaction, error) {
	box, err := lockBox(ctx, tx, userID, boxID)
	if err != nil {
		return nil, err
	}
	if !box.IsActive {
		return nil, fmt.Errorf("%w: копилка с ID %d удалена", ErrInactiveBox, boxID)
	}

	if accountID != nil {
		var balance int64
		err := tx.QueryRow(ctx, `
			SELECT balance FROM accounts
			WHERE id = $1 AND user_id = $2
			FOR UPDATE`, *accountID, userID).Scan(&balance)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: счёт с ID %d", ErrNotFound, *accountID)
		}
		if err != nil {
			return nil, fmt.Errorf("ошибка при получении счёта: %v", err)
		}
		if balance < cents {
			return nil, fmt.Errorf("%w: на счёте доступно %s", ErrInsufficientFunds, utils.FormatMinorUnits(balance))
		}
	}

	transaction := &models.SavingsTransaction{
		UserID:          userID,
		SavingsBoxID:    boxID,
		SourceAccountID: accountID,
		Amount:          cents,
		Type:            models.SavingsDeposit,
		Description:     textOrNil(description),
	}
	if err := insertSavingsTransaction(ctx, tx, transaction); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE savings_boxes SET current_amount = current_amount + $1
		WHERE id = $2 AND user_id = $3`, cents, boxID, userID); err != nil {
		return nil, fmt.Errorf("ошибка обновления баланса копилки: %v", err)
	}

	if accountID != nil {
		tag, err := tx.Exec(ctx, `
			UPDATE accounts SET balance = balance - $1
			WHERE id = $2 AND user_id = $3 AND balance >= $1`, cents, *accountID, userID)
		if err != nil {
			return nil, fmt.Errorf("ошибка обновления баланса счёта: %v", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("%w: баланс счёта изменился во время операции", ErrInsufficientFunds)
		}
	}

	if err := syncLinkedGoals(ctx, tx, userID, boxID); err != nil {
		return nil, err
	}
	return transaction, nil
}

// DepositToBox пополняет копилку. Сумма принимается в основных единицах
// валюты (рублях) и переводится в копейки на входе. Если указан счёт,
// деньги списываются с него, и на нём должно хватать средств.
func DepositToBox(pool *pgxpool.Pool, userID, boxID int, amount decimal.Decimal, accountID *int, description string) (*models.SavingsTransaction, error) {
	if boxID <= 0 {
		return nil, fmt.Errorf("%w: не указана копилка", ErrInvalidInput)
	}
	cents, err := utils.ToMinorUnits(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ctx := context.Background()
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия транзакции: %v", err)
	}
	defer tx.Rollback(ctx)

	transaction, err := depositInTx(ctx, tx, userID, boxID, cents, accountID, description)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %v", err)
	}
	return transaction, nil
}

// WithdrawFromBox снимает деньги из копилки. Достаточность проверяется по
// балансу копилки; счёт, если указан, только пополняется.
func WithdrawFromBox(pool *pgxpool.Pool, userID, boxID int, amount decimal.Decimal, accountID *int, description string) (*models.SavingsTransaction, error) {
	if boxID <= 0 {
		return nil, fmt.Errorf("%w: не указана копилка", ErrInvalidInput)
	}
	cents, err := utils.ToMinorUnits(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ctx := context.Background()
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия транзакции: %v", err)
	}
	defer tx.Rollback(ctx)

	box, err := lockBox(ctx, tx, userID, boxID)
	if err != nil {
		return nil, err
	}
	if !box.IsActive {
		return nil, fmt.Errorf("%w: копилка с ID %d удалена", ErrInactiveBox, boxID)
	}

	// Порядок проверок тот же, что у пополнения: сначала счёт, потом
	// достаточность. Баланс счёта не проверяется — счёт только пополняется.
	if accountID != nil {
		var exists bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1 AND user_id = $2)`,
			*accountID, userID).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("ошибка при получении счёта: %v", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: счёт с ID %d", ErrNotFound, *accountID)
		}
	}

	if box.CurrentAmount < cents {
		return nil, fmt.Errorf("%w: в копилке доступно %s", ErrInsufficientFunds, utils.FormatMinorUnits(box.CurrentAmount))
	}

	transaction := &models.SavingsTransaction{
		UserID:          userID,
		SavingsBoxID:    boxID,
		SourceAccountID: accountID,
		Amount:          cents,
		Type:            models.SavingsWithdraw,
		Description:     textOrNil(description),
	}
	if err := insertSavingsTransaction(ctx, tx, transaction); err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE savings_boxes SET current_amount = current_amount - $1
		WHERE id = $2 AND user_id = $3 AND current_amount >= $1`, cents, boxID, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления баланса копилки: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: в копилке доступно %s", ErrInsufficientFunds, utils.FormatMinorUnits(box.CurrentAmount))
	}

	if accountID != nil {
		if _, err := tx.Exec(ctx, `
			UPDATE accounts SET balance = balance + $1
			WHERE id = $2 AND user_id = $3`, cents, *accountID, userID); err != nil {
			return nil, fmt.Errorf("ошибка обновления баланса счёта: %v", err)
		}
	}

	if err := syncLinkedGoals(ctx, tx, userID, boxID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %v", err)
	}
	return transaction, nil
}

// TransferBetweenBoxes переводит деньги между двумя копилками пользователя.
// Перевод записывается одной строкой журнала с двумя ссылками на копилки;
// обе стороны перевода читатели восстанавливают из неё.
func TransferBetweenBoxes(pool *pgxpool.Pool, userID, fromBoxID, toBoxID int, amount decimal.Decimal, description string) (*models.SavingsTransaction, error) {
	if fromBoxID <= 0 || toBoxID <= 0 {
		return nil, fmt.Errorf("%w: не указана копилка", ErrInvalidInput)
	}
	if fromBoxID == toBoxID {
		return nil, fmt.Errorf("%w: нельзя перевести в ту же копилку", ErrInvalidInput)
	}
	cents, err := utils.ToMinorUnits(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ctx := context.Background()
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия транзакции: %v", err)
	}
	defer tx.Rollback(ctx)

	// Обе копилки читаются одним запросом; блокировка в порядке
	// возрастания id исключает взаимную блокировку встречных переводов.
	rows, err := tx.Query(ctx, `
		SELECT id, is_active, current_amount
		FROM savings_boxes
		WHERE user_id = $1 AND id = ANY($2)
		ORDER BY id
		FOR UPDATE`, userID, []int{fromBoxID, toBoxID})
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении копилок: %v", err)
	}
	boxes := make(map[int]*boxRow, 2)
	for rows.Next() {
		var box boxRow
		if err := rows.Scan(&box.ID, &box.IsActive, &box.CurrentAmount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("ошибка при получении копилок: %v", err)
		}
		boxes[box.ID] = &box
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при получении копилок: %v", err)
	}
	if len(boxes) != 2 {
		return nil, fmt.Errorf("%w: одна из копилок не существует", ErrNotFound)
	}

	from, to := boxes[fromBoxID], boxes[toBoxID]
	if !from.IsActive || !to.IsActive {
		return nil, fmt.Errorf("%w: перевод возможен только между активными копилками", ErrInactiveBox)
	}
	if from.CurrentAmount < cents {
		return nil, fmt.Errorf("%w: в копилке доступно %s", ErrInsufficientFunds, utils.FormatMinorUnits(from.CurrentAmount))
	}

	transaction := &models.SavingsTransaction{
		UserID:             userID,
		SavingsBoxID:       fromBoxID,
		TargetSavingsBoxID: &toBoxID,
		Amount:             cents,
		Type:               models.SavingsTransfer,
		Description:        textOrNil(description),
	}
	if err := insertSavingsTransaction(ctx, tx, transaction); err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE savings_boxes SET current_amount = current_amount - $1
		WHERE id = $2 AND user_id = $3 AND current_amount >= $1`, cents, fromBoxID, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка списания из копилки: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: в копилке доступно %s", ErrInsufficientFunds, utils.FormatMinorUnits(from.CurrentAmount))
	}
	if _, err := tx.Exec(ctx, `
		UPDATE savings_boxes SET current_amount = current_amount + $1
		WHERE id = $2 AND user_id = $3`, cents, toBoxID, userID); err != nil {
		return nil, fmt.Errorf("ошибка зачисления в копилку: %v", err)
	}

	if err := syncLinkedGoals(ctx, tx, userID, fromBoxID); err != nil {
		return nil, err
	}
	if err := syncLinkedGoals(ctx, tx, userID, toBoxID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %v", err)
	}
	return transaction, nil
}

// DeleteSavingsTransaction всегда отказывает. Проведённая операция
// неизменяема: её удаление незаметно рассинхронизировало бы сохранённые
// балансы копилок, счетов и привязанных целей.
func DeleteSavingsTransaction(userID, transactionID int) error {
	return fmt.Errorf("%w: удаление проведённых операций не поддерживается", ErrNotPermitted)
}

// GetSavingsTransactions возвращает историю операций пользователя, при
// boxID > 0 — только по одной копилке (как источнику или получателю).
func GetSavingsTransactions(pool *pgxpool.Pool, userID, boxID int) ([]models.SavingsTransaction, error) {
	query := `
		SELECT id, user_id, savings_box_id, target_savings_box_id, source_account_id,
		       amount, type, description, created_at
		FROM savings_transactions
		WHERE user_id = $1 AND ($2 = 0 OR savings_box_id = $2 OR target_savings_box_id = $2)
		ORDER BY created_at DESC, id DESC`
	rows, err := pool.Query(context.Background(), query, userID, boxID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении операций: %v", err)
	}
	defer rows.Close()

	var transactions []models.SavingsTransaction
	for rows.Next() {
		var t models.SavingsTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.SavingsBoxID, &t.TargetSavingsBoxID,
			&t.SourceAccountID, &t.Amount, &t.Type, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
