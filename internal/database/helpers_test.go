package database_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/moneybox-app/internal/database"
	"github.com/valeriaulyamaeva/moneybox-app/models"
)

// testPool подключается к тестовой БД. Без доступной базы тесты пакета
// пропускаются, а не падают.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool, err := database.ConnectDB()
	if err != nil {
		t.Skipf("база данных недоступна, тест пропущен: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func createTestUser(t *testing.T, pool *pgxpool.Pool) *models.User {
	t.Helper()
	user := &models.User{
		Email:    fmt.Sprintf("test-%d@example.com", time.Now().UnixNano()),
		Password: "secret123",
		Name:     "Тестовый пользователь",
	}
	if err := database.RegisterUser(pool, user); err != nil {
		t.Fatalf("ошибка создания пользователя: %v", err)
	}
	return user
}

func createTestAccount(t *testing.T, pool *pgxpool.Pool, userID int, balance int64) *models.Account {
	t.Helper()
	account := &models.Account{
		UserID:   userID,
		Name:     "Основная карта",
		Type:     "checking",
		Balance:  balance,
		Currency: "RUB",
	}
	if err := database.CreateAccount(pool, account); err != nil {
		t.Fatalf("ошибка создания счёта: %v", err)
	}
	return account
}

func createTestBox(t *testing.T, pool *pgxpool.Pool, userID int, name string) *models.SavingsBox {
	t.Helper()
	box := &models.SavingsBox{
		UserID: userID,
		Name:   name,
		Color:  "#4caf50",
		Icon:   "piggy-bank",
	}
	if err := database.CreateSavingsBox(pool, box); err != nil {
		t.Fatalf("ошибка создания копилки: %v", err)
	}
	return box
}

func createTestGoal(t *testing.T, pool *pgxpool.Pool, userID, accountID int, target int64, boxID *int) *models.Goal {
	t.Helper()
	goal := &models.Goal{
		UserID:       userID,
		Name:         "Тестовая цель",
		TargetAmount: target,
		StartDate:    time.Now(),
		TargetDate:   time.Now().AddDate(0, 6, 0),
		AccountID:    accountID,
		SavingsBoxID: boxID,
	}
	if err := database.CreateGoal(pool, goal); err != nil {
		t.Fatalf("ошибка создания цели: %v", err)
	}
	return goal
}

func boxBalance(t *testing.T, pool *pgxpool.Pool, userID, boxID int) int64 {
	t.Helper()
	box, err := database.GetSavingsBoxByID(pool, userID, boxID)
	if err != nil {
		t.Fatalf("ошибка получения копилки: %v", err)
	}
	return box.CurrentAmount
}

func accountBalance(t *testing.T, pool *pgxpool.Pool, userID, accountID int) int64 {
	t.Helper()
	account, err := database.GetAccountByID(pool, userID, accountID)
	if err != nil {
		t.Fatalf("ошибка получения счёта: %v", err)
	}
	return account.Balance
}
