package models_test

import (
	"testing"

	"github.com/valeriaulyamaeva/moneybox-app/models"
)

func TestGoalRemainingAmount(t *testing.T) {
	tests := []struct {
		name    string
		target  int64
		current int64
		want    int64
	}{
		{name: "ничего не накоплено", target: 10000, current: 0, want: 10000},
		{name: "накоплена половина", target: 10000, current: 5000, want: 5000},
		{name: "цель достигнута", target: 10000, current: 10000, want: 0},
		{name: "перевыполнение не даёт отрицательный остаток", target: 10000, current: 15000, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := models.Goal{TargetAmount: tt.target, CurrentAmount: tt.current}
			if got := goal.RemainingAmount(); got != tt.want {
				t.Errorf("RemainingAmount() = %d, хотели %d", got, tt.want)
			}
		})
	}
}

func TestGoalCheckCompletion(t *testing.T) {
	goal := models.Goal{TargetAmount: 10000, CurrentAmount: 9999}
	if goal.CheckCompletion() {
		t.Error("цель завершилась раньше достижения суммы")
	}

	goal.CurrentAmount = 10000
	if !goal.CheckCompletion() {
		t.Error("цель не завершилась при достижении суммы")
	}

	// Флаг только поднимается: падение суммы его не сбрасывает.
	goal.CurrentAmount = 100
	if !goal.CheckCompletion() {
		t.Error("флаг завершения сбросился после уменьшения суммы")
	}
}

func TestGoalIsLinked(t *testing.T) {
	goal := models.Goal{}
	if goal.IsLinked() {
		t.Error("цель без копилки считается привязанной")
	}
	boxID := 7
	goal.SavingsBoxID = &boxID
	if !goal.IsLinked() {
		t.Error("цель с копилкой не считается привязанной")
	}
}
