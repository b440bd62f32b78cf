package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-mentor-platform/internal/domain/model"
	"ai-mentor-platform/internal/domain/ports/repository"
	"ai-mentor-platform/internal/infra/metrics"
	red "ai-mentor-platform/internal/infra/redis"
)

var _ repository.MentorRepository = (*mentorRepoCacheDecorator)(nil)

// mentorRepoCacheDecorator caches mentor reads in redis. Mentors change
// rarely and are read on every check-in submission, so a short TTL pays for
// itself quickly. Writes invalidate both the entity key and the per-user
// list keys.
type mentorRepoCacheDecorator struct {
	inner repository.MentorRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewMentorRepoCacheDecorator(inner repository.MentorRepository, cache red.RedisClient) repository.MentorRepository {
	return &mentorRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   1 * time.Hour,
	}
}

func mentorKey(id string) string          { return fmt.Sprintf("mentor:%s", id) }
func mentorListKey(userID string) string  { return fmt.Sprintf("mentors:available:%s", userID) }

func (d *mentorRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Mentor, error) {
	val, err := d.cache.Get(ctx, mentorKey(id))
	if err == nil {
		var m model.Mentor
		if json.Unmarshal([]byte(val), &m) == nil {
			metrics.IncCacheRequest("mentor", "hit")
			return &m, nil
		}
	}

	metrics.IncCacheRequest("mentor", "miss")
	m, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if m != nil {
		bytes, _ := json.Marshal(m)
		_ = d.cache.Set(ctx, mentorKey(id), bytes, d.ttl)
	}
	return m, nil
}

func (d *mentorRepoCacheDecorator) ListAvailable(ctx context.Context, tx repository.Tx, userID string) ([]*model.Mentor, error) {
	val, err := d.cache.Get(ctx, mentorListKey(userID))
	if err == nil {
		var ms []*model.Mentor
		if json.Unmarshal([]byte(val), &ms) == nil {
			metrics.IncCacheRequest("mentor_list", "hit")
			return ms, nil
		}
	}

	metrics.IncCacheRequest("mentor_list", "miss")
	ms, err := d.inner.ListAvailable(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if len(ms) > 0 {
		bytes, _ := json.Marshal(ms)
		_ = d.cache.Set(ctx, mentorListKey(userID), bytes, d.ttl)
	}
	return ms, nil
}

// Writes must invalidate. The list key for the owner is dropped too; builtin
// mentor edits only happen through seeding, where the cache is cold anyway.
func (d *mentorRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, m *model.Mentor) error {
	_ = d.cache.Del(ctx, mentorKey(m.ID))
	if m.OwnerID != "" {
		_ = d.cache.Del(ctx, mentorListKey(m.OwnerID))
	}
	return d.inner.Save(ctx, tx, m)
}

func (d *mentorRepoCacheDecorator) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m, err := d.inner.FindByID(ctx, tx, id)
	if err == nil && m != nil && m.OwnerID != "" {
		_ = d.cache.Del(ctx, mentorListKey(m.OwnerID))
	}
	_ = d.cache.Del(ctx, mentorKey(id))
	return d.inner.Delete(ctx, tx, id)
}
