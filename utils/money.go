package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ToMinorUnits переводит сумму в основных единицах валюты (например, 10.50)
// в целое число минимальных единиц (1050 копеек). Граница единиц проходит
// ровно здесь: во всех таблицах и расчётах суммы хранятся в копейках,
// а клиенты присылают рубли.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("сумма должна быть положительной")
	}
	cents := amount.Mul(hundred)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("сумма не может быть точнее копеек: %s", amount.String())
	}
	if !cents.BigInt().IsInt64() {
		return 0, fmt.Errorf("сумма слишком велика: %s", amount.String())
	}
	return cents.IntPart(), nil
}

// FromMinorUnits переводит копейки обратно в основные единицы для показа
// пользователю.
func FromMinorUnits(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(hundred)
}

// FormatMinorUnits возвращает строку вида "123.45" для сообщений об ошибках.
func FormatMinorUnits(cents int64) string {
	return FromMinorUnits(cents).StringFixed(2)
}
