package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/moneybox-app/models"
	"github.com/valeriaulyamaeva/moneybox-app/utils"
)

// Переходы привязки цели к копилке, возвращаются из LinkGoalToBox.
const (
	LinkTransitionLinking   = "linking"
	LinkTransitionUnlinking = "unlinking"
	LinkTransitionRelinking = "relinking"
	LinkTransitionNoop      = "no-op"
)

const goalColumns = `id, user_id, name, target_amount, current_amount, start_date, target_date,
	category_id, account_id, savings_box_id, is_completed, created_at`

func scanGoal(row pgx.Row) (*models.Goal, error) {
	goal := &models.Goal{}
	if err := scanGoalInto(row, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// CreateGoal добавляет новую цель. Если цель сразу привязывается к копилке,
// стартовый current_amount берётся из копилки, а не из запроса.
func CreateGoal(pool *pgxpool.Pool, goal *models.Goal) error {
	if goal.Name == "" || goal.TargetAmount <= 0 {
		return fmt.Errorf("%w: у цели должны быть имя и положительная сумма", ErrInvalidInput)
	}
	if goal.StartDate.IsZero() {
		goal.StartDate = time.Now()
	}

	ctx := context.Background()
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %v", err)
	}
	defer tx.Rollback(ctx)

	if goal.SavingsBoxID != nil {
		box, err := lockBox(ctx, tx, goal.UserID, *goal.SavingsBoxID)
		if err != nil {
			return err
		}
		goal.CurrentAmount = box.CurrentAmount
	}
	goal.CheckCompletion()

	query := `
		INSERT INTO goals (user_id, name, target_amount, current_amount, start_date, target_date,
			category_id, account_id, savings_box_id, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`
	err = tx.QueryRow(ctx, query,
		goal.UserID,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.StartDate,
		goal.TargetDate,
		goal.CategoryID,
		goal.AccountID,
		goal.SavingsBoxID,
		goal.IsCompleted).Scan(&goal.ID, &goal.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении цели: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %v", err)
	}
	return nil
}

// GetGoalByID извлекает цель пользователя по ID.
func GetGoalByID(pool *pgxpool.Pool, userID, goalID int) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND user_id = $2`
	goal, err := scanGoal(pool.QueryRow(context.Background(), query, goalID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: цель с ID %d", ErrNotFound, goalID)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении цели: %v", err)
	}
	return goal, nil
}

// GetAllGoals извлекает все цели пользователя.
func GetAllGoals(pool *pgxpool.Pool, userID int) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY target_date`
	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении целей: %v", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}
	return goals, rows.Err()
}

// UpdateGoal обновляет описание цели. Привязка к копилке и накопленная
// сумма меняются только через LinkGoalToBox и ContributeToGoal.
func UpdateGoal(pool *pgxpool.Pool, userID int, goal *models.Goal) error {
	query := `
		UPDATE goals
		SET name = $1, target_amount = $2, target_date = $3, category_id = $4, account_id = $5,
		    is_completed = is_completed OR current_amount >= $2
		WHERE id = $6 AND user_id = $7`
	result, err := pool.Exec(context.Background(), query,
		goal.Name,
		goal.TargetAmount,
		goal.TargetDate,
		goal.CategoryID,
		goal.AccountID,
		goal.ID,
		userID)
	if err != nil {
		return fmt.Errorf("ошибка обновления цели: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: цель с ID %d", ErrNotFound, goal.ID)
	}
	return nil
}

// DeleteGoal удаляет цель по ID.
func DeleteGoal(pool *pgxpool.Pool, userID, goalID int) error {
	result, err := pool.Exec(context.Background(), `
		DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления цели: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: цель с ID %d", ErrNotFound, goalID)
	}
	return nil
}

// LinkGoalToBox привязывает цель к копилке (boxID != nil) либо отвязывает
// (boxID == nil). При привязке накопленная сумма цели выставляется равной
// балансу копилки тем же UPDATE. При отвязке сумма не сбрасывается —
// остаётся снимком последнего синхронизированного значения. Возвращает
// метку перехода: linking, unlinking, relinking или no-op.
func LinkGoalToBox(pool *pgxpool.Pool, userID, goalID int, boxID *int) (string, error) {
	ctx := context.Background()
	tx, err := pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("ошибка открытия транзакции: %v", err)
	}
	defer tx.Rollback(ctx)

	var prevBoxID *int
	err = tx.QueryRow(ctx, `
		SELECT savings_box_id FROM goals
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`, goalID, userID).Scan(&prevBoxID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: цель с ID %d", ErrNotFound, goalID)
	}
	if err != nil {
		return "", fmt.Errorf("ошибка при получении цели: %v", err)
	}

	switch {
	case boxID == nil && prevBoxID == nil:
		return LinkTransitionNoop, nil

	case boxID == nil:
		if _, err := tx.Exec(ctx, `
			UPDATE goals SET savings_box_id = NULL
			WHERE id = $1 AND user_id = $2`, goalID, userID); err != nil {
			return "", fmt.Errorf("ошибка отвязки цели: %v", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return "", fmt.Errorf("ошибка фиксации транзакции: %v", err)
		}
		return LinkTransitionUnlinking, nil

	case prevBoxID != nil && *prevBoxID == *boxID:
		return LinkTransitionNoop, nil
	}

	box, err := lockBox(ctx, tx, userID, *boxID)
	if err != nil {
		return "", err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE goals
		SET savings_box_id = $1,
		    current_amount = $2,
		    is_completed = is_completed OR $2 >= target_amount
		WHERE id = $3 AND user_id = $4`, *boxID, box.CurrentAmount, goalID, userID); err != nil {
		return "", fmt.Errorf("ошибка привязки цели к копилке: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("ошибка фиксации транзакции: %v", err)
	}
	if prevBoxID != nil {
		return LinkTransitionRelinking, nil
	}
	return LinkTransitionLinking, nil
}

// ContributeToGoal вносит деньги в цель. Привязанная цель пополняется через
// копилку (взнос идёт той же дорогой, что и обычное пополнение, и зеркало
// цели обновляется в той же транзакции). Непривязанная цель увеличивается
// напрямую; для прослеживаемости по счёту цели записывается расходная
// операция, а его баланс уменьшается.
func ContributeToGoal(pool *pgxpool.Pool, userID, goalID int, amount decimal.Decimal) (*models.Goal, error) {
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

	goal, err := scanGoal(tx.QueryRow(ctx, `
		SELECT `+goalColumns+` FROM goals
		WHERE id = $1 AND user_id = $2
		FOR UPDATE`, goalID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: цель с ID %d", ErrNotFound, goalID)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении цели: %v", err)
	}

	if goal.IsLinked() {
		accountID := goal.AccountID
		_, err := depositInTx(ctx, tx, userID, *goal.SavingsBoxID, cents, &accountID,
			fmt.Sprintf("Взнос в цель: %s", goal.Name))
		if err != nil {
			return nil, err
		}
		// depositInTx уже отзеркалил баланс копилки в цель; перечитываем
		// строку, чтобы вернуть актуальное состояние.
		goal, err = scanGoal(tx.QueryRow(ctx, `
			SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID))
		if err != nil {
			return nil, fmt.Errorf("ошибка при получении цели: %v", err)
		}
	} else {
		var balance int64
		err := tx.QueryRow(ctx, `
			SELECT balance FROM accounts
			WHERE id = $1 AND user_id = $2
			FOR UPDATE`, goal.AccountID, userID).Scan(&balance)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: счёт с ID %d", ErrNotFound, goal.AccountID)
		}
		if err != nil {
			return nil, fmt.Errorf("ошибка при получении счёта: %v", err)
		}
		if balance < cents {
			return nil, fmt.Errorf("%w: на счёте доступно %s", ErrInsufficientFunds, utils.FormatMinorUnits(balance))
		}

		err = scanGoalInto(tx.QueryRow(ctx, `
			UPDATE goals
			SET current_amount = current_amount + $1,
			    is_completed = is_completed OR current_amount + $1 >= target_amount
			WHERE id = $2 AND user_id = $3
			RETURNING `+goalColumns, cents, goalID, userID), goal)
		if err != nil {
			return nil, fmt.Errorf("ошибка обновления прогресса цели: %v", err)
		}

		description := fmt.Sprintf("Взнос в цель: %s", goal.Name)
		if _, err := tx.Exec(ctx, `
			INSERT INTO transactions (user_id, account_id, category_id, amount, type, description)
			VALUES ($1, $2, $3, $4, 'expense', $5)`,
			userID, goal.AccountID, goal.CategoryID, cents, description); err != nil {
			return nil, fmt.Errorf("ошибка записи расходной операции: %v", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE accounts SET balance = balance - $1
			WHERE id = $2 AND user_id = $3`, cents, goal.AccountID, userID); err != nil {
			return nil, fmt.Errorf("ошибка обновления баланса счёта: %v", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %v", err)
	}
	return goal, nil
}

func scanGoalInto(row pgx.Row, goal *models.Goal) error {
	return row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Name,
		&goal.TargetAmount,
		&goal.CurrentAmount,
		&goal.StartDate,
		&goal.TargetDate,
		&goal.CategoryID,
		&goal.AccountID,
		&goal.SavingsBoxID,
		&goal.IsCompleted,
		&goal.CreatedAt,
	)
}
