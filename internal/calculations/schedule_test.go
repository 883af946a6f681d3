package calculations

import (
	"errors"
	"testing"
	"time"
)

func TestBuildScheduleValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*LoanTerms)
		field  string
	}{
		{name: "zero months", modify: func(lt *LoanTerms) { lt.Months = 0 }, field: "months"},
		{name: "negative months", modify: func(lt *LoanTerms) { lt.Months = -3 }, field: "months"},
		{name: "zero price", modify: func(lt *LoanTerms) { lt.TotalPrice = dec("0") }, field: "total_price"},
		{name: "negative down payment", modify: func(lt *LoanTerms) { lt.DownPayment = dec("-1") }, field: "down_payment"},
		{name: "down payment equals price", modify: func(lt *LoanTerms) { lt.DownPayment = dec("120000") }, field: "down_payment"},
		{name: "down payment above price", modify: func(lt *LoanTerms) { lt.DownPayment = dec("130000") }, field: "down_payment"},
		{name: "fractional cents", modify: func(lt *LoanTerms) { lt.TotalPrice = dec("1000.005") }, field: "total_price"},
		{name: "negative rate", modify: func(lt *LoanTerms) { lt.MonthlyRate = dec("-0.001") }, field: "monthly_rate"},
		{name: "unknown system", modify: func(lt *LoanTerms) { lt.System = "GERMAN" }, field: "system"},
		{name: "missing start date", modify: func(lt *LoanTerms) { lt.StartDate = time.Time{} }, field: "start_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := testTerms(SystemSAC)
			tt.modify(&terms)

			schedule, err := BuildSchedule(terms)
			if err == nil {
				t.Fatalf("expected error, got schedule of %d installments", len(schedule))
			}
			if !errors.Is(err, ErrInvalidLoanTerms) {
				t.Errorf("expected ErrInvalidLoanTerms, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestBuildScheduleDoesNotMutateTerms(t *testing.T) {
	terms := testTerms(SystemPRICE)
	before := terms

	first, err := BuildSchedule(terms)
	if err != nil {
		t.Fatalf("BuildSchedule() error = %v", err)
	}
	second, err := BuildSchedule(terms)
	if err != nil {
		t.Fatalf("BuildSchedule() error = %v", err)
	}

	if !terms.TotalPrice.Equal(before.TotalPrice) || terms.Months != before.Months {
		t.Error("terms were mutated")
	}
	if len(first) != len(second) {
		t.Fatalf("schedules differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Payment.Equal(second[i].Payment) || !first[i].DueDate.Equal(second[i].DueDate) {
			t.Errorf("installment %d differs between runs", i+1)
		}
	}
}

func TestBuildScheduleDueDates(t *testing.T) {
	terms := testTerms(SystemSAC)
	terms.StartDate = time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	schedule, err := BuildSchedule(terms)
	if err != nil {
		t.Fatalf("BuildSchedule() error = %v", err)
	}

	want := []time.Time{
		time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC),
	}
	for i, w := range want {
		if !schedule[i].DueDate.Equal(w) {
			t.Errorf("installment %d: due %s, want %s", i+1, schedule[i].DueDate.Format(dateLayout), w.Format(dateLayout))
		}
	}
	if last := schedule[11].DueDate; !last.Equal(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("last installment due %s, want 2026-01-31", last.Format(dateLayout))
	}
}

func TestCheckScheduleDetectsBrokenChain(t *testing.T) {
	schedule, err := BuildSchedule(testTerms(SystemSAC))
	if err != nil {
		t.Fatalf("BuildSchedule() error = %v", err)
	}
	schedule[3].Balance = schedule[3].Balance.Add(dec("0.01"))

	if err := checkSchedule(schedule, dec("120000")); !errors.Is(err, ErrInconsistentSchedule) {
		t.Errorf("expected ErrInconsistentSchedule, got %v", err)
	}
}
