package utils

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	hundred   = decimal.NewFromInt(100)
	brPrinter = message.NewPrinter(language.BrazilianPortuguese)
)

// Money округляет сумму до копеек (2 знака, банковское округление не используется)
func Money(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}

// Cents возвращает сумму в минимальных единицах валюты
func Cents(value decimal.Decimal) int64 {
	return value.Mul(hundred).Round(0).IntPart()
}

// FromCents собирает сумму из минимальных единиц валюты
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// IsFinite проверяет, является ли число конечным
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

// FormatBRL форматирует сумму в реалах: R$ 1.234,56
func FormatBRL(value decimal.Decimal) string {
	return brPrinter.Sprintf("R$ %.2f", value.Round(2).InexactFloat64())
}

// FormatPercent форматирует долю как процент: 0.0125 -> 1,25%
func FormatPercent(rate decimal.Decimal) string {
	return brPrinter.Sprintf("%.2f%%", rate.Mul(hundred).InexactFloat64())
}
