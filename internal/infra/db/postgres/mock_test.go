//go:build !integration

package postgres

import (
	"context"
	"sync"
	"time"

	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerMentorRepo mocks the database repository that the decorator wraps.
type mockInnerMentorRepo struct {
	SaveFunc          func(ctx context.Context, tx repository.Tx, m *model.Mentor) error
	FindByIDFunc      func(ctx context.Context, tx repository.Tx, id string) (*model.Mentor, error)
	ListAvailableFunc func(ctx context.Context, tx repository.Tx, userID string) ([]*model.Mentor, error)
	DeleteFunc        func(ctx context.Context, tx repository.Tx, id string) error
}

func (m *mockInnerMentorRepo) Save(ctx context.Context, tx repository.Tx, mn *model.Mentor) error {
	return m.SaveFunc(ctx, tx, mn)
}
func (m *mockInnerMentorRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Mentor, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerMentorRepo) ListAvailable(ctx context.Context, tx repository.Tx, userID string) ([]*model.Mentor, error) {
	return m.ListAvailableFunc(ctx, tx, userID)
}
func (m *mockInnerMentorRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	return m.DeleteFunc(ctx, tx, id)
}

// mockRedis is a map-backed RedisClient good enough for decorator tests.
type mockRedis struct {
	mu    sync.Mutex
	store map[string]string
}

func newMockRedis() *mockRedis {
	return &mockRedis{store: make(map[string]string)}
}

func (m *mockRedis) Ping(ctx context.Context) error { return nil }

func (m *mockRedis) Set(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		m.store[key] = string(v)
	case string:
		m.store[key] = v
	}
	return nil
}

func (m *mockRedis) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.store[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *mockRedis) Incr(ctx context.Context, key string) (int64, error) { return 0, nil }

func (m *mockRedis) Expire(ctx context.Context, key string, _ time.Duration) error { return nil }

func (m *mockRedis) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.store, k)
	}
	return nil
}

func (m *mockRedis) Close() error { return nil }
