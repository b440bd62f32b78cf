//go:build !integration

package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"

	"ai-mentor-platform/internal/domain"
	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/adapter"
	"ai-mentor-platform/internal/domain/ports/repository"
	"ai-mentor-platform/internal/infra/redis"
)

// In-memory repositories used by the unit tests in this package. They copy
// on read and write so tests cannot share mutable state with the use case.

type memUserRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.User
	creds   map[string][]byte // email -> hash
	saveErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[string]*model.User), creds: make(map[string][]byte)}
}

func (m *memUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *memUserRepo) SaveCredentials(ctx context.Context, tx repository.Tx, userID string, hash []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.store {
		if u.ID == userID {
			m.creds[u.Email] = append([]byte(nil), hash...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) CredentialsByEmail(ctx context.Context, tx repository.Tx, email string) (*repository.Credentials, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hash, ok := m.creds[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for _, u := range m.store {
		if u.Email == email {
			return &repository.Credentials{UserID: u.ID, PasswordHash: hash}, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) ListReminderRecipients(ctx context.Context, tx repository.Tx, limit int) ([]*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.User
	for _, u := range m.store {
		if u.RemindersEnabled {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

type memMentorRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Mentor
}

func newMemMentorRepo() *memMentorRepo {
	return &memMentorRepo{store: make(map[string]*model.Mentor)}
}

func (m *memMentorRepo) Save(ctx context.Context, tx repository.Tx, mentor *model.Mentor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *mentor
	m.store[mentor.ID] = &cp
	return nil
}

func (m *memMentorRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Mentor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mn, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *mn
	return &cp, nil
}

func (m *memMentorRepo) ListAvailable(ctx context.Context, tx repository.Tx, userID string) ([]*model.Mentor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Mentor
	for _, mn := range m.store {
		if mn.AvailableTo(userID) {
			cp := *mn
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memMentorRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

type memCheckinRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.CheckinRecord
	saveErr error
}

func newMemCheckinRepo() *memCheckinRepo {
	return &memCheckinRepo{store: make(map[string]*model.CheckinRecord)}
}

func (m *memCheckinRepo) Save(ctx context.Context, tx repository.Tx, c *model.CheckinRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *memCheckinRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.CheckinRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCheckinRepo) sorted(userID string) []*model.CheckinRecord {
	var out []*model.CheckinRecord
	for _, c := range m.store {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *memCheckinRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.CheckinRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := m.sorted(userID)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (m *memCheckinRepo) ListByUserSince(ctx context.Context, tx repository.Tx, userID string, since time.Time) ([]*model.CheckinRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.CheckinRecord
	for _, c := range m.sorted(userID) {
		if !c.CreatedAt.Before(since) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCheckinRepo) CountByUserSince(ctx context.Context, tx repository.Tx, userID string, since time.Time) (int, error) {
	list, _ := m.ListByUserSince(ctx, tx, userID, since)
	return len(list), nil
}

type memJobRepo struct {
	mu    sync.RWMutex
	store map[string]*model.GenerationJob
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{store: make(map[string]*model.GenerationJob)}
}

func (m *memJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.GenerationJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.store[job.ID] = &cp
	return nil
}

func (m *memJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.GenerationJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memJobRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.GenerationJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.GenerationJob
	for _, j := range m.store {
		if j.UserID == userID {
			cp := *j
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memJobRepo) ClaimQueued(ctx context.Context) (*model.GenerationJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.store {
		if j.Status == model.GenerationQueued {
			_ = j.Advance(model.GenerationGenerating, j.Progress)
			cp := *j
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// fakeTxManager runs the callback immediately with a nil tx handle.
type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

// fakeAI returns a fixed reply, or fails when err is set.
type fakeAI struct {
	reply string
	err   error
	calls int
}

func (f *fakeAI) ListModels(ctx context.Context) ([]string, error)       { return []string{"fake"}, nil }
func (f *fakeAI) GetModelInfo(model string) (adapter.ModelInfo, error)   { return adapter.ModelInfo{Name: model}, nil }
func (f *fakeAI) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	return len(messages), nil
}
func (f *fakeAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	reply, _, err := f.ChatWithUsage(ctx, model, messages)
	return reply, err
}
func (f *fakeAI) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	f.calls++
	if f.err != nil {
		return "", adapter.Usage{}, f.err
	}
	return f.reply, adapter.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30}, nil
}

// fakeProvider records created jobs and serves scripted lookups.
type fakeProvider struct {
	mu        sync.Mutex
	created   []string
	deleted   []string
	createErr error
	next      int
}

func (f *fakeProvider) newJob() (*adapter.ProviderJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.next++
	id := fmt.Sprintf("prov-%d", f.next)
	f.created = append(f.created, id)
	return &adapter.ProviderJob{ID: id, Status: model.GenerationQueued}, nil
}

func (f *fakeProvider) CreateVideoJob(ctx context.Context, cfg adapter.VideoJobConfig) (*adapter.ProviderJob, error) {
	return f.newJob()
}
func (f *fakeProvider) CreateAvatarJob(ctx context.Context, cfg adapter.AvatarJobConfig) (*adapter.ProviderJob, error) {
	return f.newJob()
}
func (f *fakeProvider) CreateVoiceJob(ctx context.Context, cfg adapter.VoiceJobConfig) (*adapter.ProviderJob, error) {
	return f.newJob()
}
func (f *fakeProvider) GetJob(ctx context.Context, providerJobID string) (*adapter.ProviderJob, error) {
	return &adapter.ProviderJob{ID: providerJobID, Status: model.GenerationGenerating}, nil
}
func (f *fakeProvider) DeleteJob(ctx context.Context, providerJobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, providerJobID)
	return nil
}

// mockRedis is a map-backed RedisClient. Get on a missing key returns
// redis.Nil like the real driver.
type mockRedis struct {
	mu     sync.Mutex
	data   map[string]string
	counts map[string]int64
}

func newMockRedis() *mockRedis {
	return &mockRedis{data: make(map[string]string), counts: make(map[string]int64)}
}

func (m *mockRedis) Ping(ctx context.Context) error { return nil }

func (m *mockRedis) Set(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case string:
		m.data[key] = v
	case []byte:
		m.data[key] = string(v)
	}
	return nil
}

func (m *mockRedis) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *mockRedis) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

func (m *mockRedis) Expire(ctx context.Context, key string, _ time.Duration) error { return nil }

func (m *mockRedis) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
		delete(m.counts, k)
	}
	return nil
}

func (m *mockRedis) Close() error { return nil }
