package calculations

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type scheduleBuilder func(terms LoanTerms) ([]Installment, error)

var builders = map[AmortizationSystem]scheduleBuilder{
	SystemSAC:   differentialSchedule,
	SystemPRICE: annuitySchedule,
}

// ValidateTerms проверяет условия кредита до построения графика
func ValidateTerms(terms LoanTerms) error {
	if terms.Months <= 0 {
		return invalidTerms("months", "must be greater than zero")
	}
	if !terms.TotalPrice.IsPositive() {
		return invalidTerms("total_price", "must be greater than zero")
	}
	if terms.DownPayment.IsNegative() {
		return invalidTerms("down_payment", "must not be negative")
	}
	if terms.DownPayment.GreaterThanOrEqual(terms.TotalPrice) {
		return invalidTerms("down_payment", "must be less than total_price")
	}
	if !isCents(terms.TotalPrice) {
		return invalidTerms("total_price", "must have at most two decimal places")
	}
	if !isCents(terms.DownPayment) {
		return invalidTerms("down_payment", "must have at most two decimal places")
	}
	if terms.MonthlyRate.IsNegative() {
		return invalidTerms("monthly_rate", "must not be negative")
	}
	if !terms.System.Valid() {
		return invalidTerms("system", "must be SAC or PRICE")
	}
	if terms.StartDate.IsZero() {
		return invalidTerms("start_date", "is required")
	}
	return nil
}

// BuildSchedule строит базовый график платежей по условиям кредита.
// Входные условия не изменяются, результат детерминирован.
func BuildSchedule(terms LoanTerms) ([]Installment, error) {
	if err := ValidateTerms(terms); err != nil {
		return nil, err
	}
	schedule, err := builders[terms.System](terms)
	if err != nil {
		return nil, err
	}
	if err := checkSchedule(schedule, terms.FinancedAmount()); err != nil {
		return nil, err
	}
	return schedule, nil
}

// Schedule строит график и сводку по нему
func Schedule(terms LoanTerms) (*CalculationResult, error) {
	schedule, err := BuildSchedule(terms)
	if err != nil {
		return nil, err
	}
	return &CalculationResult{
		Terms:    terms,
		Summary:  Aggregate(schedule, terms.DownPayment),
		Schedule: schedule,
	}, nil
}

func isCents(v decimal.Decimal) bool {
	return v.Equal(v.Round(2))
}

// addMonths сдвигает дату на n календарных месяцев, прижимая день к концу месяца
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// checkSchedule проверяет инварианты: payment = amortization + interest,
// цепочку остатков и нулевой остаток в конце.
func checkSchedule(schedule []Installment, financed decimal.Decimal) error {
	if len(schedule) == 0 {
		return inconsistent("schedule is empty")
	}
	balance := financed
	for i, inst := range schedule {
		if inst.IsEarlyPayment() {
			if !inst.Interest.IsZero() || !inst.Payment.Equal(inst.Amortization) {
				return inconsistent("early payment record at %d carries interest", i)
			}
		} else if !inst.Payment.Equal(inst.Amortization.Add(inst.Interest)) {
			return inconsistent("installment %d: payment %s != amortization %s + interest %s",
				inst.Number, inst.Payment, inst.Amortization, inst.Interest)
		}
		balance = balance.Sub(inst.Amortization)
		if !inst.Balance.Equal(balance) {
			return inconsistent("record %d: balance %s, expected %s", i, inst.Balance, balance)
		}
		if balance.IsNegative() {
			return inconsistent("record %d: negative balance %s", i, balance)
		}
		if i > 0 && inst.DueDate.Before(schedule[i-1].DueDate) {
			return inconsistent("record %d is out of chronological order", i)
		}
	}
	if !balance.IsZero() {
		return inconsistent("final balance is %s, expected zero", balance)
	}
	return nil
}
