package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-finance-planner/internal/prolabore"
	"github.com/cloud-ru/mcp-finance-planner/internal/report"
	"github.com/cloud-ru/mcp-finance-planner/internal/repository"
	"github.com/cloud-ru/mcp-finance-planner/internal/server"
	"github.com/cloud-ru/mcp-finance-planner/internal/simulation"
	"github.com/cloud-ru/mcp-finance-planner/internal/tools"
	"github.com/cloud-ru/mcp-finance-planner/internal/tracing"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP tool server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			return a.serve()
		},
	}
	cmd.Flags().IntVar(&port, "port", 8000, "listen port (overrides PORT)")
	return cmd
}

// openRepository выбирает хранилище по STORE_BACKEND
func (a *app) openRepository(ctx context.Context) (repository.SimulationRepository, func(), error) {
	if !a.cfg.UsesRedis() {
		return repository.NewMemoryRepository(), func() {}, nil
	}

	repo := repository.NewRedisRepository(a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := repo.Ping(pingCtx); err != nil {
		_ = repo.Close()
		return nil, nil, fmt.Errorf("connect to redis %s: %w", a.cfg.RedisAddr, err)
	}
	return repo, func() { _ = repo.Close() }, nil
}

func (a *app) serve() error {
	ctx := context.Background()

	tracer, shutdownTracing, err := tracing.InitTracing(a.cfg.OTELServiceName, a.cfg.OTELEndpoint, a.logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			a.logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	repo, closeRepo, err := a.openRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	template, err := prolabore.LoadTemplate(a.cfg.ReportTemplate)
	if err != nil {
		return err
	}

	svc := simulation.NewService(repo, a.cfg, a.logger)
	limiter := server.NewRateLimiter(a.cfg.RateLimit, a.cfg.RateLimitWindow)
	defer limiter.Stop()

	srv := server.New(
		tools.NewRegistry(a.cfg, svc, tracer),
		svc,
		report.NewGenerator(nil),
		template,
		limiter,
		a.logger,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Port),
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", httpServer.Addr),
			zap.String("store", a.cfg.StoreBackend),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
		a.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	a.logger.Info("server exited")
	return nil
}
