package calculations

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Варианты итога сравнения симуляций
const (
	OptionA   = "A"
	OptionB   = "B"
	OptionTie = "tie"
)

// CompareSystems сравнивает SAC и PRICE для одних и тех же условий
func CompareSystems(terms LoanTerms) (*SystemComparison, error) {
	sacTerms := terms
	sacTerms.System = SystemSAC
	priceTerms := terms
	priceTerms.System = SystemPRICE

	sacResult, err := Schedule(sacTerms)
	if err != nil {
		return nil, err
	}
	priceResult, err := Schedule(priceTerms)
	if err != nil {
		return nil, err
	}

	// Разница переплаты: > 0 означает, что PRICE дороже
	interestDiff := priceResult.Summary.TotalInterest.Sub(sacResult.Summary.TotalInterest)

	comparison := &SystemComparison{
		SAC:          *sacResult,
		PRICE:        *priceResult,
		InterestDiff: interestDiff,
		Savings:      interestDiff.Abs(),
	}
	switch interestDiff.Sign() {
	case 1:
		comparison.CheaperSystem = SystemSAC
	case -1:
		comparison.CheaperSystem = SystemPRICE
	}
	return comparison, nil
}

// CompareSimulations сравнивает две сохраненные симуляции.
// Разницы считаются как A - B; лучший вариант выбирается голосованием
// по общей переплате, общей сумме и среднему платежу (меньше - лучше).
func CompareSimulations(a, b *Simulation) (*SimulationComparison, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("two simulations are required for comparison")
	}

	sa, sb := a.Summary, b.Summary
	cmp := &SimulationComparison{
		A:                  a,
		B:                  b,
		TotalInterestDiff:  sa.TotalInterest.Sub(sb.TotalInterest),
		TotalAmountDiff:    sa.TotalAmount.Sub(sb.TotalAmount),
		FirstPaymentDiff:   sa.FirstPayment.Sub(sb.FirstPayment),
		LastPaymentDiff:    sa.LastPayment.Sub(sb.LastPayment),
		AveragePaymentDiff: sa.AveragePayment.Sub(sb.AveragePayment),
	}

	points := 0
	for _, diff := range []decimal.Decimal{cmp.TotalInterestDiff, cmp.TotalAmountDiff, cmp.AveragePaymentDiff} {
		// отрицательная разница - выигрывает A
		points -= diff.Sign()
	}
	switch {
	case points > 0:
		cmp.BetterOption = OptionA
	case points < 0:
		cmp.BetterOption = OptionB
	default:
		cmp.BetterOption = OptionTie
	}

	cmp.Installments = diffInstallments(a.Installments, b.Installments)
	return cmp, nil
}

// diffInstallments сопоставляет обычные взносы по номеру;
// недостающий взнос считается нулевым
func diffInstallments(a, b []Installment) []InstallmentDiff {
	byNumber := func(schedule []Installment) map[int]decimal.Decimal {
		m := make(map[int]decimal.Decimal, len(schedule))
		for _, inst := range schedule {
			if !inst.IsEarlyPayment() {
				m[inst.Number] = inst.Payment
			}
		}
		return m
	}
	pa, pb := byNumber(a), byNumber(b)

	n := len(pa)
	if len(pb) > n {
		n = len(pb)
	}
	diffs := make([]InstallmentDiff, 0, n)
	for num := 1; num <= n; num++ {
		diffs = append(diffs, InstallmentDiff{
			Number:   num,
			PaymentA: pa[num],
			PaymentB: pb[num],
			Diff:     pa[num].Sub(pb[num]),
		})
	}
	return diffs
}
