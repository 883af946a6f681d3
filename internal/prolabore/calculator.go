package prolabore

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/mcp-finance-planner/pkg/utils"
)

// ErrInvalidInput неверные входные данные калькулятора
var ErrInvalidInput = errors.New("invalid pro-labore input")

// MaxShare доля предварительного результата, которую рекомендуется выводить как про-лаборе
var MaxShare = decimal.RequireFromString("0.3")

// Status положение текущего про-лаборе относительно рекомендованного максимума
type Status string

const (
	StatusWithin   Status = "within"
	StatusAbove    Status = "above"
	StatusNoMargin Status = "no_margin"
)

// Input значения полей; отсутствующие поля считаются нулевыми
type Input map[FieldID]decimal.Decimal

// Result результат расчета про-лаборе
type Result struct {
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	VariableCostRate   decimal.Decimal `json:"variable_cost_rate"`
	FixedCosts         decimal.Decimal `json:"fixed_costs"`
	Preliminary        decimal.Decimal `json:"preliminary"`
	MaximumRecommended decimal.Decimal `json:"maximum_recommended"`
	CurrentProLabore   decimal.Decimal `json:"current_pro_labore"`
	Status             Status          `json:"status"`
}

// Sum складывает значения полей группы
func (in Input) Sum(g FieldGroup) decimal.Decimal {
	total := decimal.Zero
	for _, id := range groupFields[g] {
		if v, ok := in[id]; ok {
			total = total.Add(v)
		}
	}
	return total
}

// Validate проверяет, что все поля известны и неотрицательны
func (in Input) Validate() error {
	for id, v := range in {
		g, ok := GroupOf(id)
		if !ok {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidInput, id)
		}
		if v.IsNegative() {
			return fmt.Errorf("%w: %s.%s must be >= 0", ErrInvalidInput, g, id)
		}
		if g == VariableCosts && v.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: %s.%s must be <= 100", ErrInvalidInput, g, id)
		}
	}
	return nil
}

// Calculate рассчитывает предварительный результат и рекомендованный максимум про-лаборе.
// Предварительный результат = выручка * (1 - доля переменных расходов) - ежемесячные постоянные расходы.
func Calculate(in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	revenue := in.Sum(Revenue)
	rate := in.Sum(VariableCosts).Div(decimal.NewFromInt(100))
	fixed := in[FixedMonthly]
	current := in[FixedProLabore]

	preliminary := revenue.Mul(decimal.NewFromInt(1).Sub(rate)).Sub(fixed)
	maximum := preliminary.Mul(MaxShare)

	result := &Result{
		TotalRevenue:       utils.Money(revenue),
		VariableCostRate:   rate,
		FixedCosts:         utils.Money(fixed),
		Preliminary:        utils.Money(preliminary),
		MaximumRecommended: utils.Money(maximum),
		CurrentProLabore:   utils.Money(current),
	}
	switch {
	case !result.MaximumRecommended.IsPositive():
		result.Status = StatusNoMargin
	case result.CurrentProLabore.GreaterThan(result.MaximumRecommended):
		result.Status = StatusAbove
	default:
		result.Status = StatusWithin
	}
	return result, nil
}
