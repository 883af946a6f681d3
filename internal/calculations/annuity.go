package calculations

import (
	"github.com/shopspring/decimal"

	"github.com/cloud-ru/mcp-finance-planner/pkg/utils"
)

var one = decimal.NewFromInt(1)

// AnnuityPayment рассчитывает постоянный платеж PRICE:
// P * r * (1+r)^n / ((1+r)^n - 1), округленный до копеек
func AnnuityPayment(principal, monthlyRate decimal.Decimal, months int) decimal.Decimal {
	n := decimal.NewFromInt(int64(months))
	if monthlyRate.IsZero() {
		return utils.Money(principal.Div(n))
	}
	factor := one.Add(monthlyRate).Pow(n)
	return utils.Money(principal.Mul(monthlyRate).Mul(factor).Div(factor.Sub(one)))
}

// annuitySchedule рассчитывает график аннуитетного кредита (PRICE)
func annuitySchedule(terms LoanTerms) ([]Installment, error) {
	P := terms.FinancedAmount()
	n := terms.Months
	r := terms.MonthlyRate

	monthlyPayment := AnnuityPayment(P, r, n)
	schedule := make([]Installment, 0, n)
	remaining := P

	for m := 1; m <= n; m++ {
		interest := utils.Money(remaining.Mul(r))
		principalComponent := monthlyPayment.Sub(interest)
		monthly := monthlyPayment

		// платеж округлен вверх: остаток гасится раньше срока
		if principalComponent.GreaterThan(remaining) {
			principalComponent = remaining
			monthly = principalComponent.Add(interest)
		}

		// последний платеж забирает остаток от округлений
		if m == n {
			principalComponent = remaining
			monthly = principalComponent.Add(interest)
		}

		remaining = remaining.Sub(principalComponent)
		if remaining.IsNegative() {
			return nil, inconsistent("installment %d: remaining principal became negative", m)
		}

		schedule = append(schedule, Installment{
			Number:       m,
			DueDate:      addMonths(terms.StartDate, m),
			Payment:      monthly,
			Amortization: principalComponent,
			Interest:     interest,
			Balance:      remaining,
		})
	}

	return schedule, nil
}
