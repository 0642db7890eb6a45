package models

import "time"

// Account — денежный счёт пользователя (карта, наличные, вклад).
// Баланс хранится в минимальных единицах валюты (копейках).
type Account struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Type      string    `json:"type" db:"type"` // Возможные значения: "checking", "cash", "deposit"
	Balance   int64     `json:"balance" db:"balance"`
	Currency  string    `json:"currency" db:"currency"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
