package models

import "time"

// Goal — финансовая цель. Может быть привязана к копилке: пока привязка
// активна, current_amount цели зеркалирует current_amount копилки.
// После отвязки current_amount остаётся снимком последнего
// синхронизированного значения.
type Goal struct {
	ID            int       `json:"id" db:"id"`
	UserID        int       `json:"user_id" db:"user_id"`
	Name          string    `json:"name" db:"name"`
	TargetAmount  int64     `json:"target_amount" db:"target_amount"`
	CurrentAmount int64     `json:"current_amount" db:"current_amount"`
	StartDate     time.Time `json:"start_date" db:"start_date"`
	TargetDate    time.Time `json:"target_date" db:"target_date"`
	CategoryID    *int      `json:"category_id,omitempty" db:"category_id"`
	AccountID     int       `json:"account_id" db:"account_id"`
	SavingsBoxID  *int      `json:"savings_box_id,omitempty" db:"savings_box_id"`
	IsCompleted   bool      `json:"is_completed" db:"is_completed"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

func (g *Goal) RemainingAmount() int64 {
	remaining := g.TargetAmount - g.CurrentAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsLinked сообщает, привязана ли цель к копилке.
func (g *Goal) IsLinked() bool {
	return g.SavingsBoxID != nil
}

// CheckCompletion проверяет достижение цели и при необходимости поднимает
// флаг. Флаг только поднимается: снятие денег после достижения цели не
// отменяет её завершённость.
func (g *Goal) CheckCompletion() bool {
	if g.CurrentAmount >= g.TargetAmount {
		g.IsCompleted = true
	}
	return g.IsCompleted
}
