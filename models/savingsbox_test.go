package models_test

import (
	"testing"

	"github.com/valeriaulyamaeva/moneybox-app/models"
)

func TestSavingsBoxProgressPercent(t *testing.T) {
	target := int64(100000)

	tests := []struct {
		name string
		box  models.SavingsBox
		want float64
	}{
		{name: "без целевой суммы", box: models.SavingsBox{CurrentAmount: 5000}, want: 0},
		{name: "пустая копилка", box: models.SavingsBox{TargetAmount: &target}, want: 0},
		{name: "половина", box: models.SavingsBox{CurrentAmount: 50000, TargetAmount: &target}, want: 50},
		{name: "ровно цель", box: models.SavingsBox{CurrentAmount: 100000, TargetAmount: &target}, want: 100},
		{name: "перевыполнение усечено до ста", box: models.SavingsBox{CurrentAmount: 150000, TargetAmount: &target}, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.ProgressPercent(); got != tt.want {
				t.Errorf("ProgressPercent() = %v, хотели %v", got, tt.want)
			}
		})
	}
}

func TestSavingsBoxZeroTarget(t *testing.T) {
	zero := int64(0)
	box := models.SavingsBox{CurrentAmount: 5000, TargetAmount: &zero}
	if got := box.ProgressPercent(); got != 0 {
		t.Errorf("прогресс для нулевой цели должен быть 0, получили %v", got)
	}
}
