package database

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/net/context"
)

// Сводные запросы для дашборда. Чистые производные выборки: балансы здесь
// не меняются, поэтому никаких инвариантов защищать не нужно.

func GetTotalSavings(pool *pgxpool.Pool, userID int) (int64, error) {
	query := `
		SELECT COALESCE(SUM(current_amount), 0)
		FROM savings_boxes
		WHERE user_id = $1 AND is_active`
	var total int64
	err := pool.QueryRow(context.Background(), query, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("ошибка при получении суммы накоплений: %v", err)
	}
	return total, nil
}

func GetTotalAccountsBalance(pool *pgxpool.Pool, userID int) (int64, error) {
	query := `SELECT COALESCE(SUM(balance), 0) FROM accounts WHERE user_id = $1`
	var total int64
	err := pool.QueryRow(context.Background(), query, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("ошибка при получении общего баланса: %v", err)
	}
	return total, nil
}

// GetMonthlySavingsDynamics возвращает по месяцам текущего года суммы
// пополнений и снятий по копилкам пользователя. Переводы между копилками
// не меняют общий объём накоплений и в динамику не входят.
func GetMonthlySavingsDynamics(pool *pgxpool.Pool, userID int) ([]map[string]interface{}, error) {
	query := `
		SELECT EXTRACT(MONTH FROM created_at) AS month,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'deposit'), 0) AS deposited,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'withdraw'), 0) AS withdrawn
		FROM savings_transactions
		WHERE user_id = $1
		  AND type IN ('deposit', 'withdraw')
		  AND DATE_PART('year', created_at) = DATE_PART('year', CURRENT_DATE)
		GROUP BY month
		ORDER BY month`
	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении динамики накоплений: %v", err)
	}
	defer rows.Close()

	var dynamics []map[string]interface{}
	for rows.Next() {
		var month int
		var deposited, withdrawn int64
		if err := rows.Scan(&month, &deposited, &withdrawn); err != nil {
			return nil, err
		}
		dynamics = append(dynamics, map[string]interface{}{
			"month":     month,
			"deposited": deposited,
			"withdrawn": withdrawn,
		})
	}
	return dynamics, rows.Err()
}

// GetGoalsProgress возвращает сводку по целям: имя, цель, накопления и
// процент выполнения.
func GetGoalsProgress(pool *pgxpool.Pool, userID int) ([]map[string]interface{}, error) {
	query := `
		SELECT id, name, target_amount, current_amount, is_completed
		FROM goals
		WHERE user_id = $1
		ORDER BY target_date`
	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении прогресса целей: %v", err)
	}
	defer rows.Close()

	var progress []map[string]interface{}
	for rows.Next() {
		var id int
		var name string
		var target, current int64
		var completed bool
		if err := rows.Scan(&id, &name, &target, &current, &completed); err != nil {
			return nil, err
		}
		percent := 0.0
		if target > 0 {
			percent = float64(current) / float64(target) * 100
			if percent > 100 {
				percent = 100
			}
		}
		progress = append(progress, map[string]interface{}{
			"id":             id,
			"name":           name,
			"target_amount":  target,
			"current_amount": current,
			"percent":        percent,
			"is_completed":   completed,
		})
	}
	return progress, rows.Err()
}
