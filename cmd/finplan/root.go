package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-finance-planner/internal/config"
	"github.com/cloud-ru/mcp-finance-planner/internal/logging"
)

type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "finplan",
		Short:         "Financing simulations (SAC/PRICE), early payments and pro-labore reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.AddCommand(newServeCmd(a), newScheduleCmd(a), newReportCmd(a))
	return root
}
