package calculations

import (
	"testing"
)

func TestCompareSystems(t *testing.T) {
	cmp, err := CompareSystems(testTerms(SystemPRICE))
	if err != nil {
		t.Fatalf("CompareSystems() error = %v", err)
	}

	if cmp.CheaperSystem != SystemSAC {
		t.Errorf("expected SAC to be cheaper, got %q", cmp.CheaperSystem)
	}
	if got := cmp.InterestDiff.StringFixed(2); got != "142.26" {
		t.Errorf("expected interest diff 142.26, got %s", got)
	}
	if !cmp.Savings.Equal(cmp.InterestDiff) {
		t.Errorf("expected savings %s, got %s", cmp.InterestDiff, cmp.Savings)
	}
	if cmp.SAC.Terms.System != SystemSAC || cmp.PRICE.Terms.System != SystemPRICE {
		t.Error("comparison results carry wrong systems")
	}
}

func TestCompareSystemsZeroRate(t *testing.T) {
	terms := testTerms(SystemSAC)
	terms.MonthlyRate = dec("0")

	cmp, err := CompareSystems(terms)
	if err != nil {
		t.Fatalf("CompareSystems() error = %v", err)
	}
	if cmp.CheaperSystem != "" {
		t.Errorf("expected no cheaper system, got %q", cmp.CheaperSystem)
	}
}

func TestCompareSystemsInvalidTerms(t *testing.T) {
	terms := testTerms(SystemSAC)
	terms.Months = 0
	if _, err := CompareSystems(terms); err == nil {
		t.Error("expected error for invalid terms")
	}
}

func simulationFor(t *testing.T, id string, terms LoanTerms) *Simulation {
	t.Helper()
	schedule, err := BuildSchedule(terms)
	if err != nil {
		t.Fatalf("BuildSchedule() error = %v", err)
	}
	sim := &Simulation{ID: id, System: terms.System, Terms: terms, Baseline: schedule, Installments: schedule}
	sim.Refresh()
	return sim
}

func TestCompareSimulations(t *testing.T) {
	sac := simulationFor(t, "sac", testTerms(SystemSAC))
	price := simulationFor(t, "price", testTerms(SystemPRICE))

	cmp, err := CompareSimulations(sac, price)
	if err != nil {
		t.Fatalf("CompareSimulations() error = %v", err)
	}
	if cmp.BetterOption != OptionA {
		t.Errorf("expected option A to win, got %q", cmp.BetterOption)
	}
	if got := cmp.TotalInterestDiff.StringFixed(2); got != "-142.26" {
		t.Errorf("expected interest diff -142.26, got %s", got)
	}
	if got := cmp.FirstPaymentDiff.StringFixed(2); got != "538.15" {
		t.Errorf("expected first payment diff 538.15, got %s", got)
	}
	if len(cmp.Installments) != 12 {
		t.Fatalf("expected 12 installment diffs, got %d", len(cmp.Installments))
	}
	first := cmp.Installments[0]
	if first.Number != 1 || !first.Diff.Equal(first.PaymentA.Sub(first.PaymentB)) {
		t.Errorf("unexpected first diff %+v", first)
	}

	reversed, err := CompareSimulations(price, sac)
	if err != nil {
		t.Fatalf("CompareSimulations() error = %v", err)
	}
	if reversed.BetterOption != OptionB {
		t.Errorf("expected option B to win, got %q", reversed.BetterOption)
	}
}

func TestCompareSimulationsTie(t *testing.T) {
	a := simulationFor(t, "a", testTerms(SystemSAC))
	b := simulationFor(t, "b", testTerms(SystemSAC))

	cmp, err := CompareSimulations(a, b)
	if err != nil {
		t.Fatalf("CompareSimulations() error = %v", err)
	}
	if cmp.BetterOption != OptionTie {
		t.Errorf("expected tie, got %q", cmp.BetterOption)
	}
}

func TestCompareSimulationsDifferentLengths(t *testing.T) {
	short := testTerms(SystemSAC)
	short.Months = 6
	a := simulationFor(t, "a", short)
	b := simulationFor(t, "b", testTerms(SystemSAC))

	cmp, err := CompareSimulations(a, b)
	if err != nil {
		t.Fatalf("CompareSimulations() error = %v", err)
	}
	if len(cmp.Installments) != 12 {
		t.Fatalf("expected 12 installment diffs, got %d", len(cmp.Installments))
	}
	last := cmp.Installments[11]
	if !last.PaymentA.IsZero() || !last.Diff.Equal(last.PaymentB.Neg()) {
		t.Errorf("missing installment should count as zero, got %+v", last)
	}
}

func TestCompareSimulationsNil(t *testing.T) {
	if _, err := CompareSimulations(nil, nil); err == nil {
		t.Error("expected error for nil simulations")
	}
}
