package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cloud-ru/mcp-finance-planner/internal/calculations"
	"github.com/cloud-ru/mcp-finance-planner/internal/config"
	"github.com/cloud-ru/mcp-finance-planner/internal/metrics"
	"github.com/cloud-ru/mcp-finance-planner/internal/repository"
	"github.com/cloud-ru/mcp-finance-planner/internal/validators"
)

// ErrEarlyPaymentNotFound досрочный платеж с таким id не найден в симуляции
var ErrEarlyPaymentNotFound = errors.New("early payment not found")

// Service управляет сохраненными симуляциями.
// Любое изменение досрочных платежей пересчитывает график от базового.
type Service struct {
	repo   repository.SimulationRepository
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// Option настраивает Service
type Option func(*Service)

// WithClock задает источник времени создания симуляций
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator задает генератор идентификаторов
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService создает сервис симуляций. cfg может быть nil, тогда лимиты сервера не проверяются.
func NewService(repo repository.SimulationRepository, cfg *config.Config, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create строит базовый график и сохраняет новую симуляцию
func (s *Service) Create(ctx context.Context, terms calculations.LoanTerms) (*calculations.Simulation, error) {
	if s.cfg != nil {
		if err := validators.CheckLoanTerms(s.cfg, terms); err != nil {
			return nil, err
		}
	}

	schedule, err := calculations.BuildSchedule(terms)
	if err != nil {
		return nil, err
	}

	sim := &calculations.Simulation{
		ID:           s.newID(),
		System:       terms.System,
		Terms:        terms,
		CreatedAt:    s.now().UTC(),
		Baseline:     schedule,
		Installments: append([]calculations.Installment(nil), schedule...),
	}
	sim.Refresh()

	if err := s.repo.Create(ctx, sim); err != nil {
		return nil, fmt.Errorf("save simulation: %w", err)
	}

	s.logger.Info("simulation created",
		zap.String("op", "simulation.Create"),
		zap.String("id", sim.ID),
		zap.String("system", string(sim.System)),
		zap.Int("months", terms.Months),
	)
	return sim, nil
}

// Get возвращает симуляцию по id
func (s *Service) Get(ctx context.Context, id string) (*calculations.Simulation, error) {
	return s.repo.Get(ctx, id)
}

// List возвращает симуляции в порядке создания
func (s *Service) List(ctx context.Context) ([]*calculations.Simulation, error) {
	return s.repo.List(ctx)
}

// Delete удаляет симуляцию
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("simulation deleted", zap.String("op", "simulation.Delete"), zap.String("id", id))
	return nil
}

// AddEarlyPayment добавляет досрочный платеж; пустой id генерируется
func (s *Service) AddEarlyPayment(ctx context.Context, simID string, p calculations.EarlyPayment) (*calculations.Simulation, error) {
	sim, err := s.repo.Get(ctx, simID)
	if err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = s.newID()
	}
	if s.cfg != nil {
		if err := validators.CheckEarlyPaymentCount(s.cfg, len(sim.EarlyPayments)+1); err != nil {
			return nil, err
		}
	}

	payments := append(append([]calculations.EarlyPayment(nil), sim.EarlyPayments...), p)
	return s.recalculate(ctx, sim, payments, "add")
}

// EditEarlyPayment заменяет досрочный платеж с тем же id
func (s *Service) EditEarlyPayment(ctx context.Context, simID string, p calculations.EarlyPayment) (*calculations.Simulation, error) {
	sim, err := s.repo.Get(ctx, simID)
	if err != nil {
		return nil, err
	}

	idx := indexOf(sim.EarlyPayments, p.ID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrEarlyPaymentNotFound, p.ID)
	}
	payments := append([]calculations.EarlyPayment(nil), sim.EarlyPayments...)
	payments[idx] = p
	return s.recalculate(ctx, sim, payments, "edit")
}

// DeleteEarlyPayment удаляет досрочный платеж; без платежей график совпадает с базовым
func (s *Service) DeleteEarlyPayment(ctx context.Context, simID, paymentID string) (*calculations.Simulation, error) {
	sim, err := s.repo.Get(ctx, simID)
	if err != nil {
		return nil, err
	}

	idx := indexOf(sim.EarlyPayments, paymentID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrEarlyPaymentNotFound, paymentID)
	}
	payments := make([]calculations.EarlyPayment, 0, len(sim.EarlyPayments)-1)
	payments = append(payments, sim.EarlyPayments[:idx]...)
	payments = append(payments, sim.EarlyPayments[idx+1:]...)
	return s.recalculate(ctx, sim, payments, "delete")
}

// Compare сравнивает две сохраненные симуляции
func (s *Service) Compare(ctx context.Context, idA, idB string) (*calculations.SimulationComparison, error) {
	a, err := s.repo.Get(ctx, idA)
	if err != nil {
		return nil, fmt.Errorf("simulation A: %w", err)
	}
	b, err := s.repo.Get(ctx, idB)
	if err != nil {
		return nil, fmt.Errorf("simulation B: %w", err)
	}
	return calculations.CompareSimulations(a, b)
}

// recalculate применяет полный набор платежей к базовому графику и сохраняет результат.
// При ошибке сохраненная симуляция не меняется.
func (s *Service) recalculate(ctx context.Context, sim *calculations.Simulation, payments []calculations.EarlyPayment, op string) (*calculations.Simulation, error) {
	installments, err := calculations.ApplyEarlyPayments(sim.Baseline, sim.Terms, payments)
	if err != nil {
		metrics.Recalculations.WithLabelValues(op, "error").Inc()
		s.logger.Warn("early payment rejected",
			zap.String("op", "simulation."+op),
			zap.String("id", sim.ID),
			zap.Error(err),
		)
		return nil, err
	}

	updated := sim.Clone()
	updated.EarlyPayments = calculations.SortEarlyPayments(payments)
	updated.Installments = installments
	updated.Refresh()

	if err := s.repo.Update(ctx, updated); err != nil {
		metrics.Recalculations.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("save simulation: %w", err)
	}
	metrics.Recalculations.WithLabelValues(op, "success").Inc()

	s.logger.Info("simulation recalculated",
		zap.String("op", "simulation."+op),
		zap.String("id", updated.ID),
		zap.Int("early_payments", len(updated.EarlyPayments)),
		zap.String("total_interest", updated.Summary.TotalInterest.StringFixed(2)),
	)
	return updated, nil
}

func indexOf(payments []calculations.EarlyPayment, id string) int {
	for i, p := range payments {
		if p.ID == id {
			return i
		}
	}
	return -1
}
