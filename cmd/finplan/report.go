package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-finance-planner/internal/report"
)

func newReportCmd(a *app) *cobra.Command {
	f := &loanFlags{}
	var output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF report of a simulation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sim, err := a.buildSimulation(f)
			if err != nil {
				return err
			}
			data, err := report.NewGenerator(nil).SimulationPDF(sim)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			a.logger.Info("report written", zap.String("path", output), zap.Int("bytes", len(data)))
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "simulacao.pdf", "output file")
	return cmd
}
