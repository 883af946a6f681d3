package calculations

import (
	"github.com/shopspring/decimal"

	"github.com/cloud-ru/mcp-finance-planner/pkg/utils"
)

// Aggregate рассчитывает сводку по графику.
// Первый и последний платеж берутся только из обычных взносов,
// итоги включают и записи досрочных платежей. downPayment прибавляется к общей сумме.
func Aggregate(installments []Installment, downPayment decimal.Decimal) SimulationSummary {
	summary := SimulationSummary{
		TotalAmount:   downPayment,
		TotalInterest: decimal.Zero,
	}

	regular := 0
	for _, inst := range installments {
		summary.TotalAmount = summary.TotalAmount.Add(inst.Payment)
		summary.TotalInterest = summary.TotalInterest.Add(inst.Interest)
		if inst.IsEarlyPayment() {
			continue
		}
		if regular == 0 {
			summary.FirstPayment = inst.Payment
		}
		summary.LastPayment = inst.Payment
		regular++
	}

	summary.Installments = regular
	if regular > 0 {
		financedCost := summary.TotalAmount.Sub(downPayment)
		summary.AveragePayment = utils.Money(financedCost.Div(decimal.NewFromInt(int64(regular))))
	}
	return summary
}
