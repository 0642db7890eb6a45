package database_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/moneybox-app/internal/database"
)

func TestSavingsBoxLifecycle(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	box := createTestBox(t, pool, user.ID, "Отпуск")

	if box.ID == 0 {
		t.Fatal("копилка создана без идентификатора")
	}
	if !box.IsActive {
		t.Error("новая копилка должна быть активной")
	}

	// Мягкое удаление скрывает копилку из списка по умолчанию.
	if err := database.SoftDeleteSavingsBox(pool, user.ID, box.ID); err != nil {
		t.Fatalf("ошибка мягкого удаления: %v", err)
	}
	active, err := database.GetAllSavingsBoxes(pool, user.ID, false)
	if err != nil {
		t.Fatalf("ошибка получения списка копилок: %v", err)
	}
	for _, b := range active {
		if b.ID == box.ID {
			t.Error("удалённая копилка видна в списке активных")
		}
	}
	all, err := database.GetAllSavingsBoxes(pool, user.ID, true)
	if err != nil {
		t.Fatalf("ошибка получения полного списка: %v", err)
	}
	found := false
	for _, b := range all {
		if b.ID == box.ID {
			found = true
		}
	}
	if !found {
		t.Error("удалённая копилка не видна даже в полном списке")
	}

	// Восстановление возвращает копилку в строй.
	if err := database.RestoreSavingsBox(pool, user.ID, box.ID); err != nil {
		t.Fatalf("ошибка восстановления: %v", err)
	}
	restored, err := database.GetSavingsBoxByID(pool, user.ID, box.ID)
	if err != nil {
		t.Fatalf("ошибка получения копилки: %v", err)
	}
	if !restored.IsActive {
		t.Error("копилка не активна после восстановления")
	}
}

func TestSoftDeleteKeepsBalanceAndHistory(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	box := createTestBox(t, pool, user.ID, "Ремонт")

	if _, err := database.DepositToBox(pool, user.ID, box.ID, decimal.NewFromInt(120), nil, ""); err != nil {
		t.Fatalf("ошибка пополнения: %v", err)
	}
	if err := database.SoftDeleteSavingsBox(pool, user.ID, box.ID); err != nil {
		t.Fatalf("ошибка мягкого удаления: %v", err)
	}

	if got := boxBalance(t, pool, user.ID, box.ID); got != 12000 {
		t.Errorf("баланс потерян при мягком удалении: %d", got)
	}
	history, err := database.GetSavingsTransactions(pool, user.ID, box.ID)
	if err != nil {
		t.Fatalf("ошибка получения истории: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("история потеряна при мягком удалении: %d записей", len(history))
	}
}

func TestHardDeleteRefusesNonEmptyBox(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	box := createTestBox(t, pool, user.ID, "Подарки")

	if _, err := database.DepositToBox(pool, user.ID, box.ID, decimal.NewFromInt(10), nil, ""); err != nil {
		t.Fatalf("ошибка пополнения: %v", err)
	}

	err := database.HardDeleteSavingsBox(pool, user.ID, box.ID)
	if !errors.Is(err, database.ErrConflict) {
		t.Fatalf("удаление непустой копилки должно отклоняться, получили: %v", err)
	}
}

func TestHardDeleteRefusesLinkedBox(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	account := createTestAccount(t, pool, user.ID, 100000)
	box := createTestBox(t, pool, user.ID, "Машина")
	createTestGoal(t, pool, user.ID, account.ID, 50000, &box.ID)

	err := database.HardDeleteSavingsBox(pool, user.ID, box.ID)
	if !errors.Is(err, database.ErrConflict) {
		t.Fatalf("удаление копилки с привязанной целью должно отклоняться, получили: %v", err)
	}
}

func TestUpdateSavingsBoxDoesNotTouchBalance(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	box := createTestBox(t, pool, user.ID, "Отпуск")

	if _, err := database.DepositToBox(pool, user.ID, box.ID, decimal.NewFromInt(75), nil, ""); err != nil {
		t.Fatalf("ошибка пополнения: %v", err)
	}

	box.Name = "Отпуск 2027"
	box.Color = "#2196f3"
	if err := database.UpdateSavingsBox(pool, user.ID, box); err != nil {
		t.Fatalf("ошибка обновления копилки: %v", err)
	}

	updated, err := database.GetSavingsBoxByID(pool, user.ID, box.ID)
	if err != nil {
		t.Fatalf("ошибка получения копилки: %v", err)
	}
	if updated.Name != "Отпуск 2027" {
		t.Errorf("название не обновилось: %q", updated.Name)
	}
	if updated.CurrentAmount != 7500 {
		t.Errorf("баланс изменился при обновлении метаданных: %d", updated.CurrentAmount)
	}
}
