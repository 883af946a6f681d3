package calculations

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLoanTerms неверные условия кредита
	ErrInvalidLoanTerms = errors.New("invalid loan terms")
	// ErrInvalidEarlyPayment неверный досрочный платеж
	ErrInvalidEarlyPayment = errors.New("invalid early payment")
	// ErrInconsistentSchedule нарушен инвариант графика
	ErrInconsistentSchedule = errors.New("inconsistent schedule")
)

// ValidationError описывает нарушенное ограничение конкретного поля
type ValidationError struct {
	Kind       error
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s %s", e.Kind, e.Field, e.Constraint)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func invalidTerms(field, constraint string) error {
	return &ValidationError{Kind: ErrInvalidLoanTerms, Field: field, Constraint: constraint}
}

func invalidPayment(field, constraint string) error {
	return &ValidationError{Kind: ErrInvalidEarlyPayment, Field: field, Constraint: constraint}
}

func inconsistent(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInconsistentSchedule, fmt.Sprintf(format, args...))
}

// IsValidationError сообщает, вызвана ли ошибка неверными входными данными
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidLoanTerms) || errors.Is(err, ErrInvalidEarlyPayment)
}
