package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-ru/mcp-finance-planner/internal/calculations"
)

func newSimulation(t *testing.T, created time.Time) *calculations.Simulation {
	t.Helper()
	terms := calculations.LoanTerms{
		TotalPrice:  decimal.NewFromInt(60000),
		DownPayment: decimal.NewFromInt(10000),
		Months:      6,
		MonthlyRate: decimal.RequireFromString("0.012"),
		System:      calculations.SystemSAC,
		Bank:        "Itaú",
		StartDate:   time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
	}
	schedule, err := calculations.BuildSchedule(terms)
	require.NoError(t, err)

	sim := &calculations.Simulation{
		ID:           uuid.NewString(),
		System:       terms.System,
		Terms:        terms,
		CreatedAt:    created,
		Baseline:     schedule,
		Installments: schedule,
	}
	sim.Refresh()
	return sim
}

// exerciseRepository проверяет общий контракт хранилища
func exerciseRepository(t *testing.T, repo SimulationRepository) {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	first := newSimulation(t, base)
	second := newSimulation(t, base.Add(time.Minute))

	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))
	t.Cleanup(func() {
		_ = repo.Delete(ctx, first.ID)
		_ = repo.Delete(ctx, second.ID)
	})

	assert.ErrorIs(t, repo.Create(ctx, first), ErrAlreadyExists)

	got, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Len(t, got.Installments, 6)
	assert.True(t, got.Summary.TotalInterest.Equal(first.Summary.TotalInterest))
	assert.True(t, got.Terms.StartDate.Equal(first.Terms.StartDate))

	// изменение полученной копии не затрагивает хранилище
	got.Installments[0].Payment = decimal.NewFromInt(1)
	again, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, again.Installments[0].Payment.Equal(decimal.NewFromInt(1)))

	again.Terms.Bank = "Bradesco"
	require.NoError(t, repo.Update(ctx, again))
	updated, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bradesco", updated.Terms.Bank)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	var ids []string
	for _, sim := range list {
		if sim.ID == first.ID || sim.ID == second.ID {
			ids = append(ids, sim.ID)
		}
	}
	assert.Equal(t, []string{first.ID, second.ID}, ids)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, first), ErrNotFound)
}

func TestMemoryRepository(t *testing.T) {
	exerciseRepository(t, NewMemoryRepository())
}

func TestMemoryRepositoryEmptyList(t *testing.T) {
	list, err := NewMemoryRepository().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRedisRepository(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	repo := NewRedisRepository(addr, os.Getenv("REDIS_PASSWORD"), 0)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.Ping(context.Background()))

	exerciseRepository(t, repo)
}
