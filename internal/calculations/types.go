package calculations

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmortizationSystem система амортизации кредита
type AmortizationSystem string

const (
	// SystemSAC постоянная амортизация, платеж убывает
	SystemSAC AmortizationSystem = "SAC"
	// SystemPRICE аннуитет, платеж постоянный
	SystemPRICE AmortizationSystem = "PRICE"
)

// Valid сообщает, известна ли система
func (s AmortizationSystem) Valid() bool {
	return s == SystemSAC || s == SystemPRICE
}

// ReductionPolicy определяет, как досрочный платеж меняет оставшийся график
type ReductionPolicy string

const (
	// ReduceInstallment уменьшает платежи при неизменном сроке
	ReduceInstallment ReductionPolicy = "ReduceInstallment"
	// ReduceTerm сокращает срок при неизменной амортизации
	ReduceTerm ReductionPolicy = "ReduceTerm"
)

// Valid сообщает, известна ли политика
func (p ReductionPolicy) Valid() bool {
	return p == ReduceInstallment || p == ReduceTerm
}

// EarlyPaymentNumber номер-маркер для записи досрочного платежа в графике
const EarlyPaymentNumber = 0

// LoanTerms условия кредита
type LoanTerms struct {
	TotalPrice  decimal.Decimal    `json:"total_price"`
	DownPayment decimal.Decimal    `json:"down_payment"`
	Months      int                `json:"months"`
	MonthlyRate decimal.Decimal    `json:"monthly_rate"`
	System      AmortizationSystem `json:"system"`
	Bank        string             `json:"bank,omitempty"`
	StartDate   time.Time          `json:"start_date"`
}

// FinancedAmount возвращает сумму кредита (цена минус первоначальный взнос)
func (t LoanTerms) FinancedAmount() decimal.Decimal {
	return t.TotalPrice.Sub(t.DownPayment)
}

// Installment одна запись графика платежей
type Installment struct {
	Number         int             `json:"number"`
	DueDate        time.Time       `json:"due_date"`
	Payment        decimal.Decimal `json:"payment"`
	Amortization   decimal.Decimal `json:"amortization"`
	Interest       decimal.Decimal `json:"interest"`
	Balance        decimal.Decimal `json:"balance"`
	EarlyPaymentID string          `json:"early_payment_id,omitempty"`
}

// IsEarlyPayment сообщает, является ли запись внесенным досрочным платежом
func (i Installment) IsEarlyPayment() bool {
	return i.Number == EarlyPaymentNumber
}

// EarlyPayment досрочный платеж
type EarlyPayment struct {
	ID     string          `json:"id"`
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Policy ReductionPolicy `json:"policy"`
}

// SimulationSummary агрегаты по графику
type SimulationSummary struct {
	FirstPayment   decimal.Decimal `json:"first_payment"`
	LastPayment    decimal.Decimal `json:"last_payment"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	AveragePayment decimal.Decimal `json:"average_payment"`
	Installments   int             `json:"installments"`
}

// Simulation сохраненная симуляция
type Simulation struct {
	ID            string             `json:"id"`
	System        AmortizationSystem `json:"system"`
	Terms         LoanTerms          `json:"terms"`
	CreatedAt     time.Time          `json:"created_at"`
	Baseline      []Installment      `json:"baseline"`
	Installments  []Installment      `json:"installments"`
	EarlyPayments []EarlyPayment     `json:"early_payments,omitempty"`
	Summary       SimulationSummary  `json:"summary"`
}

// Clone возвращает глубокую копию симуляции
func (s *Simulation) Clone() *Simulation {
	if s == nil {
		return nil
	}
	c := *s
	c.Baseline = append([]Installment(nil), s.Baseline...)
	c.Installments = append([]Installment(nil), s.Installments...)
	if s.EarlyPayments != nil {
		c.EarlyPayments = append([]EarlyPayment(nil), s.EarlyPayments...)
	}
	return &c
}

// Refresh пересчитывает производные агрегаты после изменения графика
func (s *Simulation) Refresh() {
	s.Summary = Aggregate(s.Installments, s.Terms.DownPayment)
}

// CalculationResult представляет результат расчета графика
type CalculationResult struct {
	Terms    LoanTerms         `json:"terms"`
	Summary  SimulationSummary `json:"summary"`
	Schedule []Installment     `json:"schedule"`
}

// SystemComparison сравнение SAC и PRICE для одних условий
type SystemComparison struct {
	SAC           CalculationResult  `json:"sac"`
	PRICE         CalculationResult  `json:"price"`
	InterestDiff  decimal.Decimal    `json:"interest_diff"`
	CheaperSystem AmortizationSystem `json:"cheaper_system,omitempty"`
	Savings       decimal.Decimal    `json:"savings"`
}

// InstallmentDiff разница платежей двух симуляций по номеру взноса
type InstallmentDiff struct {
	Number   int             `json:"number"`
	PaymentA decimal.Decimal `json:"payment_a"`
	PaymentB decimal.Decimal `json:"payment_b"`
	Diff     decimal.Decimal `json:"diff"`
}

// SimulationComparison результат сравнения двух симуляций
type SimulationComparison struct {
	A                  *Simulation       `json:"a"`
	B                  *Simulation       `json:"b"`
	TotalInterestDiff  decimal.Decimal   `json:"total_interest_diff"`
	TotalAmountDiff    decimal.Decimal   `json:"total_amount_diff"`
	FirstPaymentDiff   decimal.Decimal   `json:"first_payment_diff"`
	LastPaymentDiff    decimal.Decimal   `json:"last_payment_diff"`
	AveragePaymentDiff decimal.Decimal   `json:"average_payment_diff"`
	BetterOption       string            `json:"better_option"`
	Installments       []InstallmentDiff `json:"installments"`
}
