package models

import "time"

// Типы операций по копилкам.
const (
	SavingsDeposit  = "deposit"
	SavingsWithdraw = "withdraw"
	SavingsTransfer = "transfer"
)

// SavingsTransaction — проведённая операция по копилке. Сумма всегда
// положительная, знак определяется типом операции. Запись неизменяема:
// редактирование и удаление проведённых операций запрещены, иначе
// разъедутся сохранённые балансы копилок и счетов.
type SavingsTransaction struct {
	ID                 int       `json:"id" db:"id"`
	UserID             int       `json:"user_id" db:"user_id"`
	SavingsBoxID       int       `json:"savings_box_id" db:"savings_box_id"`
	TargetSavingsBoxID *int      `json:"target_savings_box_id,omitempty" db:"target_savings_box_id"`
	SourceAccountID    *int      `json:"source_account_id,omitempty" db:"source_account_id"`
	Amount             int64     `json:"amount" db:"amount"`
	Type               string    `json:"type" db:"type"`
	Description        *string   `json:"description,omitempty" db:"description"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}
