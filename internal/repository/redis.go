package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cloud-ru/mcp-finance-planner/internal/calculations"
)

const (
	keyPrefix = "simulation:"
	indexKey  = "simulations"
)

// RedisRepository хранит симуляции в Redis: JSON запись под simulation:<id>
// и множество идентификаторов simulations
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository создает хранилище поверх клиента Redis
func NewRedisRepository(addr, password string, db int) *RedisRepository {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisRepository{client: rdb}
}

// Ping проверяет доступность Redis
func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close закрывает соединение
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func simulationKey(id string) string {
	return keyPrefix + id
}

func (r *RedisRepository) Create(ctx context.Context, sim *calculations.Simulation) error {
	data, err := json.Marshal(sim)
	if err != nil {
		return fmt.Errorf("encode simulation %s: %w", sim.ID, err)
	}

	created, err := r.client.SetNX(ctx, simulationKey(sim.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("redis set %s: %w", sim.ID, err)
	}
	if !created {
		return ErrAlreadyExists
	}
	if err := r.client.SAdd(ctx, indexKey, sim.ID).Err(); err != nil {
		return fmt.Errorf("redis index %s: %w", sim.ID, err)
	}
	return nil
}

func (r *RedisRepository) Get(ctx context.Context, id string) (*calculations.Simulation, error) {
	data, err := r.client.Get(ctx, simulationKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", id, err)
	}
	return decodeSimulation(id, data)
}

func (r *RedisRepository) Update(ctx context.Context, sim *calculations.Simulation) error {
	data, err := json.Marshal(sim)
	if err != nil {
		return fmt.Errorf("encode simulation %s: %w", sim.ID, err)
	}

	updated, err := r.client.SetXX(ctx, simulationKey(sim.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("redis set %s: %w", sim.ID, err)
	}
	if !updated {
		return ErrNotFound
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, simulationKey(id))
	pipe.SRem(ctx, indexKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis delete %s: %w", id, err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RedisRepository) List(ctx context.Context) ([]*calculations.Simulation, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	if len(ids) == 0 {
		return []*calculations.Simulation{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = simulationKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	sims := make([]*calculations.Simulation, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// запись удалена между SMEMBERS и MGET
			continue
		}
		sim, err := decodeSimulation(ids[i], []byte(s))
		if err != nil {
			return nil, err
		}
		sims = append(sims, sim)
	}
	sortByCreation(sims)
	return sims, nil
}

func decodeSimulation(id string, data []byte) (*calculations.Simulation, error) {
	var sim calculations.Simulation
	if err := json.Unmarshal(data, &sim); err != nil {
		return nil, fmt.Errorf("decode simulation %s: %w", id, err)
	}
	return &sim, nil
}
