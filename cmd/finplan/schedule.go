package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cloud-ru/mcp-finance-planner/internal/calculations"
	"github.com/cloud-ru/mcp-finance-planner/internal/validators"
	"github.com/cloud-ru/mcp-finance-planner/pkg/utils"
)

// loanFlags флаги условий кредита, общие для schedule и report
type loanFlags struct {
	price       string
	downPayment string
	months      int
	rate        string
	system      string
	bank        string
	start       string
	payments    []string
}

func (f *loanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.price, "price", "", "total purchase price")
	cmd.Flags().StringVar(&f.downPayment, "down", "0", "down payment")
	cmd.Flags().IntVar(&f.months, "months", 0, "number of monthly installments")
	cmd.Flags().StringVar(&f.rate, "rate", "", "monthly interest rate as a fraction (0.01 = 1%)")
	cmd.Flags().StringVar(&f.system, "system", string(calculations.SystemPRICE), "amortization system: SAC or PRICE")
	cmd.Flags().StringVar(&f.bank, "bank", "", "bank name")
	cmd.Flags().StringVar(&f.start, "start", time.Now().Format("2006-01-02"), "origination date YYYY-MM-DD")
	cmd.Flags().StringArrayVar(&f.payments, "early", nil, "early payment DATE:AMOUNT:POLICY (repeatable)")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("months")
	_ = cmd.MarkFlagRequired("rate")
}

func (f *loanFlags) terms() (calculations.LoanTerms, error) {
	var terms calculations.LoanTerms
	var err error

	if terms.TotalPrice, err = decimal.NewFromString(f.price); err != nil {
		return terms, fmt.Errorf("--price: %w", err)
	}
	if terms.DownPayment, err = decimal.NewFromString(f.downPayment); err != nil {
		return terms, fmt.Errorf("--down: %w", err)
	}
	if terms.MonthlyRate, err = decimal.NewFromString(f.rate); err != nil {
		return terms, fmt.Errorf("--rate: %w", err)
	}
	if terms.StartDate, err = time.Parse("2006-01-02", f.start); err != nil {
		return terms, fmt.Errorf("--start: %w", err)
	}
	terms.Months = f.months
	terms.System = calculations.AmortizationSystem(f.system)
	terms.Bank = f.bank
	return terms, nil
}

func (f *loanFlags) earlyPayments() ([]calculations.EarlyPayment, error) {
	payments := make([]calculations.EarlyPayment, 0, len(f.payments))
	for i, raw := range f.payments {
		p, err := parseEarlyPayment(raw)
		if err != nil {
			return nil, fmt.Errorf("--early %q: %w", raw, err)
		}
		p.ID = fmt.Sprintf("cli-%d", i+1)
		payments = append(payments, p)
	}
	return payments, nil
}

func parseEarlyPayment(raw string) (calculations.EarlyPayment, error) {
	var p calculations.EarlyPayment
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return p, fmt.Errorf("expected DATE:AMOUNT:POLICY")
	}
	t, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return p, err
	}
	a, err := decimal.NewFromString(parts[1])
	if err != nil {
		return p, err
	}
	p.Date, p.Amount, p.Policy = t, a, calculations.ReductionPolicy(parts[2])
	return p, nil
}

// buildSimulation строит график и применяет досрочные платежи без сохранения
func (a *app) buildSimulation(f *loanFlags) (*calculations.Simulation, error) {
	terms, err := f.terms()
	if err != nil {
		return nil, err
	}
	if err := validators.CheckLoanTerms(a.cfg, terms); err != nil {
		return nil, err
	}
	payments, err := f.earlyPayments()
	if err != nil {
		return nil, err
	}
	if err := validators.CheckEarlyPaymentCount(a.cfg, len(payments)); err != nil {
		return nil, err
	}

	baseline, err := calculations.BuildSchedule(terms)
	if err != nil {
		return nil, err
	}
	installments, err := calculations.ApplyEarlyPayments(baseline, terms, payments)
	if err != nil {
		return nil, err
	}

	sim := &calculations.Simulation{
		ID:            "cli",
		System:        terms.System,
		Terms:         terms,
		CreatedAt:     time.Now().UTC(),
		Baseline:      baseline,
		Installments:  installments,
		EarlyPayments: calculations.SortEarlyPayments(payments),
	}
	sim.Refresh()
	return sim, nil
}

func newScheduleCmd(a *app) *cobra.Command {
	f := &loanFlags{}
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the installment schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sim, err := a.buildSimulation(f)
			if err != nil {
				return err
			}
			return printSchedule(cmd.OutOrStdout(), sim)
		},
	}
	f.register(cmd)
	return cmd
}

func printSchedule(out io.Writer, sim *calculations.Simulation) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "N\tDue\tPayment\tAmortization\tInterest\tBalance\t")
	for _, inst := range sim.Installments {
		number := fmt.Sprintf("%d", inst.Number)
		if inst.IsEarlyPayment() {
			number = "extra"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			number,
			inst.DueDate.Format("2006-01-02"),
			inst.Payment.StringFixed(2),
			inst.Amortization.StringFixed(2),
			inst.Interest.StringFixed(2),
			inst.Balance.StringFixed(2),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := sim.Summary
	fmt.Fprintf(out, "\nSystem %s, %d installments\n", sim.System, s.Installments)
	fmt.Fprintf(out, "First payment:   %s\n", utils.FormatBRL(s.FirstPayment))
	fmt.Fprintf(out, "Last payment:    %s\n", utils.FormatBRL(s.LastPayment))
	fmt.Fprintf(out, "Average payment: %s\n", utils.FormatBRL(s.AveragePayment))
	fmt.Fprintf(out, "Total interest:  %s\n", utils.FormatBRL(s.TotalInterest))
	fmt.Fprintf(out, "Total amount:    %s\n", utils.FormatBRL(s.TotalAmount))
	return nil
}
