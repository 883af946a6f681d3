package validators

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/mcp-finance-planner/internal/calculations"
	"github.com/cloud-ru/mcp-finance-planner/internal/config"
	"github.com/cloud-ru/mcp-finance-planner/pkg/utils"
)

// ValidatePositiveNumber проверяет, что число конечное и в допустимом диапазоне.
// Возвращает описание нарушенного ограничения или пустую строку.
func ValidatePositiveNumber(value float64, minInclusive, maxInclusive float64) string {
	if !utils.IsFinite(value) {
		return "значение не является конечным числом"
	}
	if value < minInclusive {
		return fmt.Sprintf("значение должно быть ≥ %g", minInclusive)
	}
	if value > maxInclusive {
		return fmt.Sprintf("значение слишком велико (>%g)", maxInclusive)
	}
	return ""
}

// ValidateIntRange проверяет, что целое число в допустимом диапазоне
func ValidateIntRange(value int, minInclusive, maxInclusive int) string {
	if value < minInclusive || value > maxInclusive {
		return fmt.Sprintf("значение должно быть в диапазоне [%d; %d]", minInclusive, maxInclusive)
	}
	return ""
}

func violation(kind error, field, constraint string) error {
	if constraint == "" {
		return nil
	}
	return &calculations.ValidationError{Kind: kind, Field: field, Constraint: constraint}
}

// CheckPrincipal проверяет стоимость покупки
func CheckPrincipal(cfg *config.Config, price decimal.Decimal) error {
	return violation(calculations.ErrInvalidLoanTerms, "total_price",
		ValidatePositiveNumber(price.InexactFloat64(), 0.01, cfg.MaxPrincipal))
}

// CheckMonthlyRate проверяет месячную ставку (доля, 0.01 = 1%)
func CheckMonthlyRate(cfg *config.Config, rate decimal.Decimal) error {
	return violation(calculations.ErrInvalidLoanTerms, "monthly_rate",
		ValidatePositiveNumber(rate.InexactFloat64(), 0, cfg.MaxMonthlyRate))
}

// CheckMonths проверяет срок в месяцах
func CheckMonths(cfg *config.Config, months int) error {
	return violation(calculations.ErrInvalidLoanTerms, "months",
		ValidateIntRange(months, 1, cfg.MaxMonths))
}

// CheckLoanTerms проверяет условия кредита против лимитов сервера.
// Структурные инварианты условий проверяет calculations.ValidateTerms.
func CheckLoanTerms(cfg *config.Config, terms calculations.LoanTerms) error {
	if err := CheckPrincipal(cfg, terms.TotalPrice); err != nil {
		return err
	}
	if err := CheckMonthlyRate(cfg, terms.MonthlyRate); err != nil {
		return err
	}
	return CheckMonths(cfg, terms.Months)
}

// CheckEarlyPaymentCount проверяет, что симуляция не превысит лимит досрочных платежей
func CheckEarlyPaymentCount(cfg *config.Config, count int) error {
	return violation(calculations.ErrInvalidEarlyPayment, "early_payments",
		ValidateIntRange(count, 0, cfg.MaxEarlyPayments))
}
