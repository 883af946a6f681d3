package calculations

import (
	"github.com/shopspring/decimal"

	"github.com/cloud-ru/mcp-finance-planner/pkg/utils"
)

// evenAmortization делит сумму на count частей в копейках.
// Округляется накопленная сумма, поэтому части отличаются не более чем на копейку
// и в сумме дают ровно исходную сумму.
func evenAmortization(total decimal.Decimal, i, count int) decimal.Decimal {
	cents := utils.Cents(total)
	n := int64(count)
	k := int64(i)
	return utils.FromCents(cents*(k+1)/n - cents*k/n)
}

// differentialSchedule рассчитывает график с постоянной амортизацией (SAC)
func differentialSchedule(terms LoanTerms) ([]Installment, error) {
	P := terms.FinancedAmount()
	n := terms.Months
	r := terms.MonthlyRate

	remaining := P
	schedule := make([]Installment, 0, n)

	for m := 1; m <= n; m++ {
		interest := utils.Money(remaining.Mul(r))
		principalComponent := evenAmortization(P, m-1, n)
		if m == n {
			principalComponent = remaining
		}
		payment := principalComponent.Add(interest)

		remaining = remaining.Sub(principalComponent)
		if remaining.IsNegative() {
			return nil, inconsistent("installment %d: remaining principal became negative", m)
		}

		schedule = append(schedule, Installment{
			Number:       m,
			DueDate:      addMonths(terms.StartDate, m),
			Payment:      payment,
			Amortization: principalComponent,
			Interest:     interest,
			Balance:      remaining,
		})
	}

	return schedule, nil
}
