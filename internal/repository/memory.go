package repository

import (
	"context"
	"sync"

	"github.com/cloud-ru/mcp-finance-planner/internal/calculations"
)

// MemoryRepository хранит симуляции в памяти процесса
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[string]*calculations.Simulation
}

// NewMemoryRepository создает пустое хранилище в памяти
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		data: make(map[string]*calculations.Simulation),
	}
}

func (r *MemoryRepository) Create(_ context.Context, sim *calculations.Simulation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[sim.ID]; exists {
		return ErrAlreadyExists
	}
	r.data[sim.ID] = sim.Clone()
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*calculations.Simulation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sim, ok := r.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sim.Clone(), nil
}

func (r *MemoryRepository) Update(_ context.Context, sim *calculations.Simulation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[sim.ID]; !exists {
		return ErrNotFound
	}
	r.data[sim.ID] = sim.Clone()
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[id]; !exists {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*calculations.Simulation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sims := make([]*calculations.Simulation, 0, len(r.data))
	for _, sim := range r.data {
		sims = append(sims, sim.Clone())
	}
	sortByCreation(sims)
	return sims, nil
}
