package calculations

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cloud-ru/mcp-finance-planner/pkg/utils"
)

// SortEarlyPayments возвращает копию платежей, упорядоченную по дате.
// При равных датах сохраняется порядок добавления.
func SortEarlyPayments(payments []EarlyPayment) []EarlyPayment {
	ordered := append([]EarlyPayment(nil), payments...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})
	return ordered
}

// ApplyEarlyPayments применяет досрочные платежи к базовому графику.
// Платежи обрабатываются последовательно по дате: каждый видит результат предыдущих.
// Либо все платежи применяются и возвращается согласованный график, либо возвращается ошибка;
// базовый график не изменяется.
func ApplyEarlyPayments(baseline []Installment, terms LoanTerms, payments []EarlyPayment) ([]Installment, error) {
	if len(baseline) == 0 {
		return nil, inconsistent("baseline schedule is empty")
	}
	if terms.MonthlyRate.IsNegative() {
		return nil, invalidTerms("monthly_rate", "must not be negative")
	}

	schedule := append([]Installment(nil), baseline...)
	if len(payments) == 0 {
		return schedule, nil
	}

	seen := make(map[string]struct{}, len(payments))
	for i, p := range SortEarlyPayments(payments) {
		if p.ID != "" {
			if _, dup := seen[p.ID]; dup {
				return nil, invalidPayment("id", fmt.Sprintf("%q is used more than once", p.ID))
			}
			seen[p.ID] = struct{}{}
		}

		next, err := applyEarlyPayment(schedule, terms, p)
		if err != nil {
			return nil, fmt.Errorf("early payment #%d on %s: %w", i+1, p.Date.Format(dateLayout), err)
		}
		schedule = next
	}

	if err := checkSchedule(schedule, terms.FinancedAmount()); err != nil {
		return nil, err
	}
	return schedule, nil
}

// ValidateEarlyPayment проверяет платеж без привязки к графику
func ValidateEarlyPayment(terms LoanTerms, p EarlyPayment) error {
	if !p.Amount.IsPositive() {
		return invalidPayment("amount", "must be greater than zero")
	}
	if !isCents(p.Amount) {
		return invalidPayment("amount", "must have at most two decimal places")
	}
	if !p.Policy.Valid() {
		return invalidPayment("policy", "must be ReduceInstallment or ReduceTerm")
	}
	if p.Date.IsZero() {
		return invalidPayment("date", "is required")
	}
	if p.Date.Before(terms.StartDate) {
		return invalidPayment("date", "must not precede the loan start date")
	}
	return nil
}

func applyEarlyPayment(schedule []Installment, terms LoanTerms, p EarlyPayment) ([]Installment, error) {
	if err := ValidateEarlyPayment(terms, p); err != nil {
		return nil, err
	}

	// платеж в день взноса идет после этого взноса
	split := len(schedule)
	for i, inst := range schedule {
		if inst.DueDate.After(p.Date) {
			split = i
			break
		}
	}
	if split == len(schedule) {
		if schedule[len(schedule)-1].IsEarlyPayment() {
			return nil, invalidPayment("date", "loan is already settled by an earlier early payment")
		}
		return nil, invalidPayment("date", "no installment is due after this date")
	}

	outstanding := terms.FinancedAmount()
	if split > 0 {
		outstanding = schedule[split-1].Balance
	}
	if !outstanding.IsPositive() {
		return nil, invalidPayment("date", "loan is already settled")
	}
	if p.Amount.GreaterThan(outstanding) {
		return nil, invalidPayment("amount", fmt.Sprintf("exceeds outstanding balance %s", outstanding.StringFixed(2)))
	}

	tail := schedule[split:]
	for _, inst := range tail {
		if inst.IsEarlyPayment() {
			return nil, inconsistent("early payment record dated after %s", p.Date.Format(dateLayout))
		}
	}

	reduced := outstanding.Sub(p.Amount)
	result := make([]Installment, 0, len(schedule)+1)
	result = append(result, schedule[:split]...)
	result = append(result, Installment{
		Number:         EarlyPaymentNumber,
		DueDate:        p.Date,
		Payment:        p.Amount,
		Amortization:   p.Amount,
		Interest:       decimal.Zero,
		Balance:        reduced,
		EarlyPaymentID: p.ID,
	})

	switch p.Policy {
	case ReduceInstallment:
		result = append(result, redistribute(reduced, terms, tail[0].Number, len(tail))...)
	case ReduceTerm:
		result = append(result, shortenTerm(reduced, terms, tail[0], len(tail))...)
	}

	renumber(result)
	return result, nil
}

// regularDueDate возвращает срок взноса number. Срок считается от даты начала,
// поэтому прижатие к концу месяца не сдвигает следующие сроки.
func regularDueDate(terms LoanTerms, number int) time.Time {
	return addMonths(terms.StartDate, number)
}

// redistribute делит остаток поровну на прежнее число взносов
func redistribute(balance decimal.Decimal, terms LoanTerms, firstNumber, count int) []Installment {
	if !balance.IsPositive() {
		return nil
	}
	out := make([]Installment, 0, count)
	remaining := balance
	for i := 0; i < count; i++ {
		interest := utils.Money(remaining.Mul(terms.MonthlyRate))
		amortization := evenAmortization(balance, i, count)
		if i == count-1 {
			amortization = remaining
		}
		remaining = remaining.Sub(amortization)
		out = append(out, Installment{
			Number:       firstNumber + i,
			DueDate:      regularDueDate(terms, firstNumber+i),
			Payment:      amortization.Add(interest),
			Amortization: amortization,
			Interest:     interest,
			Balance:      remaining,
		})
	}
	return out
}

// shortenTerm гасит остаток, сохраняя размер взноса first: в SAC неизменна
// амортизация, в PRICE неизменен платеж. Последний взнос гасит остаток,
// который не больше обычной амортизации.
func shortenTerm(balance decimal.Decimal, terms LoanTerms, first Installment, maxCount int) []Installment {
	if !balance.IsPositive() {
		return nil
	}

	step := func(decimal.Decimal) decimal.Decimal { return first.Amortization }
	if terms.System == SystemPRICE {
		step = func(interest decimal.Decimal) decimal.Decimal { return first.Payment.Sub(interest) }
	}

	out := make([]Installment, 0, maxCount)
	remaining := balance
	for i := 0; remaining.IsPositive(); i++ {
		interest := utils.Money(remaining.Mul(terms.MonthlyRate))
		amortization := step(interest)
		if !amortization.IsPositive() {
			// платеж не покрывает проценты, срок сократить нельзя
			return redistribute(balance, terms, first.Number, maxCount)
		}
		// на последнем прежнем сроке остаются только копейки округления
		if amortization.GreaterThan(remaining) || i == maxCount-1 {
			amortization = remaining
		}
		remaining = remaining.Sub(amortization)
		out = append(out, Installment{
			Number:       first.Number + i,
			DueDate:      regularDueDate(terms, first.Number+i),
			Payment:      amortization.Add(interest),
			Amortization: amortization,
			Interest:     interest,
			Balance:      remaining,
		})
	}
	return out
}

// renumber нумерует обычные взносы с 1, записи досрочных платежей сохраняют маркер
func renumber(schedule []Installment) {
	n := 0
	for i := range schedule {
		if schedule[i].IsEarlyPayment() {
			continue
		}
		n++
		schedule[i].Number = n
	}
}
