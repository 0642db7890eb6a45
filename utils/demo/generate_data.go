package demo

import (
	"log"
	"math/rand"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/moneybox-app/internal/database"
	"github.com/valeriaulyamaeva/moneybox-app/models"
)

var demoBoxNames = []string{
	"Отпуск", "Подушка безопасности", "Новый телефон", "Ремонт",
	"Подарки", "Машина", "Путешествие", "Образование",
}

var demoIcons = []string{"piggy-bank", "plane", "home", "gift", "car", "book"}

// GenerateDemoUsers создаёт указанное число пользователей со случайными
// данными и настройками по умолчанию.
func GenerateDemoUsers(pool *pgxpool.Pool, numUsers int) []int {
	ids := make([]int, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user := &models.User{
			Email:    gofakeit.Email(),
			Password: gofakeit.Password(true, true, true, false, false, 8),
			Name:     gofakeit.Name(),
		}
		if err := database.RegisterUser(pool, user); err != nil {
			log.Fatalf("ошибка при добавлении пользователя: %v", err)
		}
		ids = append(ids, user.ID)
	}
	return ids
}

// GenerateDemoAccounts создаёт каждому пользователю счёт со случайным
// начальным балансом до 5000.00.
func GenerateDemoAccounts(pool *pgxpool.Pool, userIDs []int) []int {
	ids := make([]int, 0, len(userIDs))
	for _, userID := range userIDs {
		account := &models.Account{
			UserID:   userID,
			Name:     gofakeit.Company(),
			Type:     "checking",
			Balance:  int64(rand.Intn(500000)),
			Currency: "RUB",
		}
		if err := database.CreateAccount(pool, account); err != nil {
			log.Fatalf("ошибка при добавлении счёта: %v", err)
		}
		ids = append(ids, account.ID)
	}
	return ids
}

// GenerateDemoSavingsBoxes создаёт пользователю numBoxes копилок,
// у половины задаётся целевая сумма.
func GenerateDemoSavingsBoxes(pool *pgxpool.Pool, userID, numBoxes int) []int {
	ids := make([]int, 0, numBoxes)
	for i := 0; i < numBoxes; i++ {
		box := &models.SavingsBox{
			UserID: userID,
			Name:   demoBoxNames[rand.Intn(len(demoBoxNames))],
			Color:  gofakeit.HexColor(),
			Icon:   demoIcons[rand.Intn(len(demoIcons))],
		}
		if rand.Intn(2) == 0 {
			target := int64(rand.Intn(900000) + 100000)
			box.TargetAmount = &target
		}
		if err := database.CreateSavingsBox(pool, box); err != nil {
			log.Fatalf("ошибка при добавлении копилки: %v", err)
		}
		ids = append(ids, box.ID)
	}
	return ids
}

// GenerateDemoGoals создаёт цели, часть из которых привязывается к копилкам.
func GenerateDemoGoals(pool *pgxpool.Pool, userID, accountID int, boxIDs []int, numGoals int) {
	for i := 0; i < numGoals; i++ {
		goal := &models.Goal{
			UserID:       userID,
			Name:         gofakeit.BuzzWord(),
			TargetAmount: int64(rand.Intn(900000) + 100000),
			TargetDate:   gofakeit.FutureDate(),
			AccountID:    accountID,
		}
		if len(boxIDs) > 0 && rand.Intn(2) == 0 {
			boxID := boxIDs[rand.Intn(len(boxIDs))]
			goal.SavingsBoxID = &boxID
		}
		if err := database.CreateGoal(pool, goal); err != nil {
			log.Fatalf("ошибка при добавлении цели: %v", err)
		}
	}
}

// GenerateDemoCategories создаёт пользователю случайные категории доходов
// и расходов.
func GenerateDemoCategories(pool *pgxpool.Pool, userID, numCategories int) {
	for i := 0; i < numCategories; i++ {
		category := &models.Category{
			UserID: userID,
			Name:   gofakeit.Word(),
			Type:   randomCategoryType(),
		}
		if err := database.CreateCategory(pool, category); err != nil {
			log.Fatalf("ошибка при добавлении категории: %v", err)
		}
	}
}

func randomCategoryType() string {
	if rand.Intn(2) == 0 {
		return "expense"
	}
	return "income"
}
