package models

import "time"

// Transaction — обычная операция по счёту (доход или расход), не связанная
// с копилками напрямую. Сумма в копейках, всегда положительная.
type Transaction struct {
	ID          int       `json:"id" db:"id"`
	UserID      int       `json:"user_id" db:"user_id"`
	AccountID   int       `json:"account_id" db:"account_id"`
	CategoryID  *int      `json:"category_id,omitempty" db:"category_id"`
	Amount      int64     `json:"amount" db:"amount"`
	Type        string    `json:"type" db:"type"` // Возможные значения: "income", "expense"
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// SignedAmount возвращает сумму со знаком для ленты операций по счёту:
// расходы отрицательные, доходы положительные.
func (t *Transaction) SignedAmount() int64 {
	if t.Type == "expense" {
		return -t.Amount
	}
	return t.Amount
}
