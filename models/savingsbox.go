package models

import "time"

// SavingsBox — копилка: отдельный "конверт" внутри накоплений пользователя.
// Суммы хранятся в копейках. Удаление мягкое: is_active = false, история
// операций при этом сохраняется.
type SavingsBox struct {
	ID            int       `json:"id" db:"id"`
	UserID        int       `json:"user_id" db:"user_id"`
	Name          string    `json:"name" db:"name"`
	Description   *string   `json:"description,omitempty" db:"description"`
	Color         string    `json:"color" db:"color"`
	Icon          string    `json:"icon" db:"icon"`
	CurrentAmount int64     `json:"current_amount" db:"current_amount"`
	TargetAmount  *int64    `json:"target_amount,omitempty" db:"target_amount"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// ProgressPercent возвращает процент накопления относительно цели копилки.
// Для копилки без target_amount прогресс не определён — возвращается 0.
func (b *SavingsBox) ProgressPercent() float64 {
	if b.TargetAmount == nil || *b.TargetAmount <= 0 {
		return 0
	}
	percent := float64(b.CurrentAmount) / float64(*b.TargetAmount) * 100
	if percent > 100 {
		return 100
	}
	return percent
}
