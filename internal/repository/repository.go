package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/cloud-ru/mcp-finance-planner/internal/calculations"
)

var (
	// ErrNotFound симуляция с таким идентификатором не найдена
	ErrNotFound = errors.New("simulation not found")
	// ErrAlreadyExists симуляция с таким идентификатором уже сохранена
	ErrAlreadyExists = errors.New("simulation already exists")
)

// SimulationRepository хранилище симуляций, ключом служит Simulation.ID.
// Реализации сохраняют и возвращают копии: изменения у вызывающего не видны хранилищу.
type SimulationRepository interface {
	Create(ctx context.Context, sim *calculations.Simulation) error
	Get(ctx context.Context, id string) (*calculations.Simulation, error)
	Update(ctx context.Context, sim *calculations.Simulation) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*calculations.Simulation, error)
}

// sortByCreation упорядочивает симуляции по времени создания, затем по id
func sortByCreation(sims []*calculations.Simulation) {
	sort.SliceStable(sims, func(i, j int) bool {
		if !sims[i].CreatedAt.Equal(sims[j].CreatedAt) {
			return sims[i].CreatedAt.Before(sims[j].CreatedAt)
		}
		return sims[i].ID < sims[j].ID
	})
}
