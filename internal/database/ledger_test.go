package database_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/moneybox-app/internal/database"
	"github.com/valeriaulyamaeva/moneybox-app/models"
)

func TestDepositToBox(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	box := createTestBox(t, pool, user.ID, "Отпуск")

	tr, err := database.DepositToBox(pool, user.ID, box.ID, decimal.NewFromFloat(150.50), nil, "первый взнос")
	if err != nil {
		t.Fatalf("ошибка пополнения копилки: %v", err)
	}
	if tr.ID == 0 {
		t.Error("операция создана без идентификатора")
	}
	if tr.Type != models.SavingsDeposit {
		t.Errorf("ожидали тип %q, получили %q", models.SavingsDeposit, tr.Type)
	}
	if tr.Amount != 15050 {
		t.Errorf("ожидали сумму 15050 копеек, получили %d", tr.Amount)
	}

	if got := boxBalance(t, pool, user.ID, box.ID); got != 15050 {
		t.Errorf("баланс копилки после пополнения: получили %d, хотели 15050", got)
	}
}

func TestDepositToBoxFromAccount(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	account := createTestAccount(t, pool, user.ID, 100000)
	box := createTestBox(t, pool, user.ID, "Ремонт")

	_, err := database.DepositToBox(pool, user.ID, box.ID, decimal.NewFromInt(300), &account.ID, "")
	if err != nil {
		t.Fatalf("ошибка пополнения со счёта: %v", err)
	}

	if got := boxBalance(t, pool, user.ID, box.ID); got != 30000 {
		t.Errorf("баланс копилки: получили %d, хотели 30000", got)
	}
	if got := accountBalance(t, pool, user.ID, account.ID); got != 70000 {
		t.Errorf("баланс счёта: получили %d, хотели 70000", got)
	}
}

func TestDepositFromAccountInsufficientFunds(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	account := createTestAccount(t, pool, user.ID, 5000)
	box := createTestBox(t, pool, user.ID, "Подарки")

	_, err := database.DepositToBox(pool, user.ID, box.ID, decimal.NewFromInt(100), &account.ID, "")
	if !errors.Is(err, database.ErrInsufficientFunds) {
		t.Fatalf("ожидали ErrInsufficientFunds, получили: %v", err)
	}

	// Отклонённая операция не оставляет следов.
	if got := boxBalance(t, pool, user.ID, box.ID); got != 0 {
		t.Errorf("баланс копилки изменился после отклонённой операции: %d", got)
	}
	if got := accountBalance(t, pool, user.ID, account.ID); got != 5000 {
		t.Errorf("баланс счёта изменился после отклонённой операции: %d", got)
	}
	history, err := database.GetSavingsTransactions(pool, user.ID, box.ID)
	if err != nil {
		t.Fatalf("ошибка получения истории: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("в истории появились операции после отклонённого пополнения: %d", len(history))
	}
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	box := createTestBox(t, pool, user.ID, "Машина")

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		_, err := database.DepositToBox(pool, user.ID, box.ID, amount, nil, "")
		if !errors.Is(err, database.ErrInvalidInput) {
			t.Errorf("сумма %s: ожидали ErrInvalidInput, получили %v", amount, err)
		}
	}
}

func TestWithdrawFromBox(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	box := createTestBox(t, pool, user.ID, "Отпуск")

	if _, err := database.DepositToBox(pool, user.ID, box.ID, decimal.NewFromInt(500), nil, ""); err != nil {
		t.Fatalf("ошибка пополнения: %v", err)
	}

	tr, err := database.WithdrawFromBox(pool, user.ID, box.ID, decimal.NewFromFloat(199.99), nil, "на билеты")
	if err != nil {
		t.Fatalf("ошибка снятия: %v", err)
	}
	if tr.Type != models.SavingsWithdraw {
		t.Errorf("ожидали тип %q, получили %q", models.SavingsWithdraw, tr.Type)
	}

	if got := boxBalance(t, pool, user.ID, box.ID); got != 30001 {
		t.Errorf("баланс копилки после снятия: получили %d, хотели 30001", got)
	}
}

func TestWithdrawFromBoxToAccount(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	account := createTestAccount(t, pool, user.ID, 100000)
	box := createTestBox(t, pool, user.ID, "Отпуск")

	if _, err := database.DepositToBox(pool, user.ID, box.ID, decimal.NewFromInt(300), nil, ""); err != nil {
		t.Fatalf("ошибка пополнения: %v", err)
	}

	tr, err := database.WithdrawFromBox(pool, user.ID, box.ID, decimal.NewFromInt(100), &account.ID, "обратно на карту")
	if err != nil {
		t.Fatalf("ошибка снятия на счёт: %v", err)
	}
	if tr.SourceAccountID == nil || *tr.SourceAccountID != account.ID {
		t.Error("в операции снятия не записан счёт-получатель")
	}

	if got := boxBalance(t, pool, user.ID, box.ID); got != 20000 {
		t.Errorf("баланс копилки после снятия: получили %d, хотели 20000", got)
	}
	if got := accountBalance(t, pool, user.ID, account.ID); got != 110000 {
		t.Errorf("счёт не пополнился при снятии: получили %d, хотели 110000", got)
	}
}

func TestWithdrawToMissingAccount(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	box := createTestBox(t, pool, user.ID, "Ремонт")

	if _, err := database.DepositToBox(pool, user.ID, box.ID, decimal.NewFromInt(50), nil, ""); err != nil {
		t.Fatalf("ошибка пополнения: %v", err)
	}

	missing := 999999999
	_, err := database.WithdrawFromBox(pool, user.ID, box.ID, decimal.NewFromInt(10), &missing, "")
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("снятие на несуществующий счёт должно отклоняться, получили: %v", err)
	}

	// Несуществующий счёт сообщается раньше недостаточности средств,
	// как и при пополнении.
	_, err = database.WithdrawFromBox(pool, user.ID, box.ID, decimal.NewFromInt(100), &missing, "")
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("ожидали ErrNotFound при несуществующем счёте и нехватке средств, получили: %v", err)
	}

	if got := boxBalance(t, pool, user.ID, box.ID); got != 5000 {
		t.Errorf("баланс изменился после отклонённых снятий: %d", got)
	}
}

// Полный путь: пополнение со счёта, снятие обратно на счёт, отклонённый
// перевод — суммы в основных единицах, балансы сходятся на каждом шаге.
func TestBoxAccountRoundTrip(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	checking := createTestAccount(t, pool, user.ID, 100000)
	trip := createTestBox(t, pool, user.ID, "Поездка")
	other := createTestBox(t, pool, user.ID, "Запасная")

	if _, err := database.DepositToBox(pool, user.ID, trip.ID, decimal.NewFromInt(250), &checking.ID, ""); err != nil {
		t.Fatalf("ошибка пополнения: %v", err)
	}
	if got := boxBalance(t, pool, user.ID, trip.ID); got != 25000 {
		t.Errorf("баланс копилки после пополнения: получили %d, хотели 25000", got)
	}
	if got := accountBalance(t, pool, user.ID, checking.ID); got != 75000 {
		t.Errorf("баланс счёта после пополнения: получили %d, хотели 75000", got)
	}

	if _, err := database.WithdrawFromBox(pool, user.ID, trip.ID, decimal.NewFromInt(100), &checking.ID, ""); err != nil {
		t.Fatalf("ошибка снятия: %v", err)
	}
	if got := boxBalance(t, pool, user.ID, trip.ID); got != 15000 {
		t.Errorf("баланс копилки после снятия: получили %d, хотели 15000", got)
	}
	if got := accountBalance(t, pool, user.ID, checking.ID); got != 85000 {
		t.Errorf("баланс счёта после снятия: получили %d, хотели 85000", got)
	}

	_, err := database.TransferBetweenBoxes(pool, user.ID, trip.ID, other.ID, decimal.NewFromInt(500), "")
	if !errors.Is(err, database.ErrInsufficientFunds) {
		t.Fatalf("ожидали ErrInsufficientFunds, получили: %v", err)
	}
	if got := boxBalance(t, pool, user.ID, trip.ID); got != 15000 {
		t.Errorf("баланс изменился после отклонённого перевода: %d", got)
	}
	if got := accountBalance(t, pool, user.ID, checking.ID); got != 85000 {
		t.Errorf("баланс счёта изменился после отклонённого перевода: %d", got)
	}

	history, err := database.GetSavingsTransactions(pool, user.ID, trip.ID)
	if err != nil {
		t.Fatalf("ошибка получения истории: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("в истории должно быть две операции, получили %d", len(history))
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	box := createTestBox(t, pool, user.ID, "Образование")

	if _, err := database.DepositToBox(pool, user.ID, box.ID, decimal.NewFromInt(100), nil, ""); err != nil {
		t.Fatalf("ошибка пополнения: %v", err)
	}

	_, err := database.WithdrawFromBox(pool, user.ID, box.ID, decimal.NewFromFloat(100.01), nil, "")
	if !errors.Is(err, database.ErrInsufficientFunds) {
		t.Fatalf("ожидали ErrInsufficientFunds, получили: %v", err)
	}
	if got := boxBalance(t, pool, user.ID, box.ID); got != 10000 {
		t.Errorf("баланс изменился после отклонённого снятия: %d", got)
	}
}

func TestTransferBetweenBoxes(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	from := createTestBox(t, pool, user.ID, "Подушка безопасности")
	to := createTestBox(t, pool, user.ID, "Отпуск")

	if _, err := database.DepositToBox(pool, user.ID, from.ID, decimal.NewFromInt(1000), nil, ""); err != nil {
		t.Fatalf("ошибка пополнения: %v", err)
	}

	tr, err := database.TransferBetweenBoxes(pool, user.ID, from.ID, to.ID, decimal.NewFromInt(250), "перераспределение")
	if err != nil {
		t.Fatalf("ошибка перевода: %v", err)
	}
	if tr.Type != models.SavingsTransfer {
		t.Errorf("ожидали тип %q, получили %q", models.SavingsTransfer, tr.Type)
	}
	if tr.TargetSavingsBoxID == nil || *tr.TargetSavingsBoxID != to.ID {
		t.Error("в операции перевода не указана копилка-получатель")
	}

	if got := boxBalance(t, pool, user.ID, from.ID); got != 75000 {
		t.Errorf("баланс источника: получили %d, хотели 75000", got)
	}
	if got := boxBalance(t, pool, user.ID, to.ID); got != 25000 {
		t.Errorf("баланс получателя: получили %d, хотели 25000", got)
	}

	// Перевод хранится одной записью и виден в истории обеих копилок.
	fromHistory, err := database.GetSavingsTransactions(pool, user.ID, from.ID)
	if err != nil {
		t.Fatalf("ошибка получения истории источника: %v", err)
	}
	toHistory, err := database.GetSavingsTransactions(pool, user.ID, to.ID)
	if err != nil {
		t.Fatalf("ошибка получения истории получателя: %v", err)
	}
	if len(toHistory) != 1 || toHistory[0].ID != tr.ID {
		t.Errorf("перевод не виден в истории получателя: %+v", toHistory)
	}
	found := false
	for _, h := range fromHistory {
		if h.ID == tr.ID {
			found = true
		}
	}
	if !found {
		t.Error("перевод не виден в истории источника")
	}
}

func TestTransferSameBoxRejected(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	box := createTestBox(t, pool, user.ID, "Отпуск")

	if _, err := database.DepositToBox(pool, user.ID, box.ID, decimal.NewFromInt(100), nil, ""); err != nil {
		t.Fatalf("ошибка пополнения: %v", err)
	}

	_, err := database.TransferBetweenBoxes(pool, user.ID, box.ID, box.ID, decimal.NewFromInt(10), "")
	if !errors.Is(err, database.ErrInvalidInput) {
		t.Fatalf("перевод в ту же копилку должен отклоняться, получили: %v", err)
	}
}

func TestTransferInsufficientFundsLeavesNoRow(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	from := createTestBox(t, pool, user.ID, "Подарки")
	to := createTestBox(t, pool, user.ID, "Машина")

	if _, err := database.DepositToBox(pool, user.ID, from.ID, decimal.NewFromInt(50), nil, ""); err != nil {
		t.Fatalf("ошибка пополнения: %v", err)
	}

	_, err := database.TransferBetweenBoxes(pool, user.ID, from.ID, to.ID, decimal.NewFromInt(100), "")
	if !errors.Is(err, database.ErrInsufficientFunds) {
		t.Fatalf("ожидали ErrInsufficientFunds, получили: %v", err)
	}

	history, err := database.GetSavingsTransactions(pool, user.ID, to.ID)
	if err != nil {
		t.Fatalf("ошибка получения истории: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("после отклонённого перевода осталась запись в истории: %+v", history)
	}
	if got := boxBalance(t, pool, user.ID, from.ID); got != 5000 {
		t.Errorf("баланс источника изменился: %d", got)
	}
}

func TestDepositToInactiveBox(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	box := createTestBox(t, pool, user.ID, "Старая копилка")

	if err := database.SoftDeleteSavingsBox(pool, user.ID, box.ID); err != nil {
		t.Fatalf("ошибка удаления копилки: %v", err)
	}

	_, err := database.DepositToBox(pool, user.ID, box.ID, decimal.NewFromInt(10), nil, "")
	if !errors.Is(err, database.ErrInactiveBox) {
		t.Fatalf("пополнение неактивной копилки должно отклоняться, получили: %v", err)
	}
}

// Проведённые операции неизменяемы: удаление отклоняется всегда,
// обращение к базе для этого не требуется.
func TestDeleteSavingsTransactionAlwaysRefused(t *testing.T) {
	err := database.DeleteSavingsTransaction(1, 42)
	if !errors.Is(err, database.ErrNotPermitted) {
		t.Fatalf("ожидали ErrNotPermitted, получили: %v", err)
	}
	if !strings.Contains(err.Error(), "удаление проведённых операций не поддерживается") {
		t.Errorf("неожиданный текст ошибки: %v", err)
	}
}

func TestGoalMirrorsLinkedBox(t *testing.T) {
	pool := testPool(t)
	user := createTestUser(t, pool)
	account := createTestAccount(t, pool, user.ID, 1000000)
	box := createTestBox(t, pool, user.ID, "Путешествие")
	goal := createTestGoal(t, pool, user.ID, account.ID, 50000, &box.ID)

	if _, err := database.DepositToBox(pool, user.ID, box.ID, decimal.NewFromInt(300), nil, ""); err != nil {
		t.Fatalf("ошибка пополнения: %v", err)
	}

	updated, err := database.GetGoalByID(pool, user.ID, goal.ID)
	if err != nil {
		t.Fatalf("ошибка получения цели: %v", err)
	}
	if updated.CurrentAmount != 30000 {
		t.Errorf("цель не синхронизировалась с копилкой: получили %d, хотели 30000", updated.CurrentAmount)
	}
	if updated.IsCompleted {
		t.Error("цель помечена завершённой раньше времени")
	}

	// Взнос, пересекающий целевую сумму, поднимает флаг завершения.
	if _, err := database.DepositToBox(pool, user.ID, box.ID, decimal.NewFromInt(250), nil, ""); err != nil {
		t.Fatalf("ошибка пополнения: %v", err)
	}
	updated, err = database.GetGoalByID(pool, user.ID, goal.ID)
	if err != nil {
		t.Fatalf("ошибка получения цели: %v", err)
	}
	if !updated.IsCompleted {
		t.Error("цель не помечена завершённой после достижения суммы")
	}

	// Снятие после достижения цели уменьшает сумму, но не снимает флаг.
	if _, err := database.WithdrawFromBox(pool, user.ID, box.ID, decimal.NewFromInt(400), nil, ""); err != nil {
		t.Fatalf("ошибка снятия: %v", err)
	}
	updated, err = database.GetGoalByID(pool, user.ID, goal.ID)
	if err != nil {
		t.Fatalf("ошибка получения цели: %v", err)
	}
	if updated.CurrentAmount != 15000 {
		t.Errorf("сумма цели после снятия: получили %d, хотели 15000", updated.CurrentAmount)
	}
	if !updated.IsCompleted {
		t.Error("флаг завершения снялся после снятия средств")
	}
}

func TestForeignUserCannotTouchBox(t *testing.T) {
	pool := testPool(t)
	owner := createTestUser(t, pool)
	stranger := createTestUser(t, pool)
	box := createTestBox(t, pool, owner.ID, "Отпуск")

	_, err := database.DepositToBox(pool, stranger.ID, box.ID, decimal.NewFromInt(10), nil, "")
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("чужая копилка должна выглядеть как несуществующая, получили: %v", err)
	}
}
