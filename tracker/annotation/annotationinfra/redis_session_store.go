package annotationinfra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/kernel"
	"github.com/Abraxas-365/jobtrack/tracker/annotation"
	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "annotation:session:"

// RedisSessionStore implements annotation.SessionStore on Redis. Every write
// refreshes the key's TTL so idle sessions expire on their own. A ttl of zero
// keeps sessions until they are deleted, as MemorySessionStore does.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisSessionStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisSessionStore) key(id kernel.SessionID) string {
	return sessionKeyPrefix + id.String()
}

// Create stores a new session, failing if the id is already taken
func (s *RedisSessionStore) Create(ctx context.Context, session *annotation.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return storeError("marshal", session.ID, err)
	}

	ok, err := s.client.SetNX(ctx, s.key(session.ID), data, s.ttl).Result()
	if err != nil {
		return storeError("create", session.ID, err)
	}
	if !ok {
		return annotation.ErrSessionAlreadyExists().WithDetail("session_id", session.ID)
	}
	return nil
}

// Get loads a session and slides its expiry
func (s *RedisSessionStore) Get(ctx context.Context, id kernel.SessionID) (*annotation.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, annotation.ErrSessionNotFound().WithDetail("session_id", id)
		}
		return nil, storeError("get", id, err)
	}

	var session annotation.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, annotation.ErrInvalidState().
			WithCause(err).
			WithDetail("session_id", id)
	}

	// EXPIRE with 0 would delete the key
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, s.key(id), s.ttl).Err(); err != nil {
			return nil, storeError("touch", id, err)
		}
	}
	return &session, nil
}

// Update overwrites an existing session. A session that expired is not recreated.
func (s *RedisSessionStore) Update(ctx context.Context, session *annotation.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return storeError("marshal", session.ID, err)
	}

	ok, err := s.client.SetXX(ctx, s.key(session.ID), data, s.ttl).Result()
	if err != nil {
		return storeError("update", session.ID, err)
	}
	if !ok {
		return annotation.ErrSessionNotFound().WithDetail("session_id", session.ID)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id kernel.SessionID) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return storeError("delete", id, err)
	}
	if n == 0 {
		return annotation.ErrSessionNotFound().WithDetail("session_id", id)
	}
	return nil
}

// Count scans the session keyspace. Redis drops expired keys itself.
func (s *RedisSessionStore) Count(ctx context.Context) (int, error) {
	var (
		cursor uint64
		n      int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, sessionKeyPrefix+"*", 100).Result()
		if err != nil {
			return 0, storeError("count", "", err)
		}
		n += len(keys)
		cursor = next
		if cursor == 0 {
			return n, nil
		}
	}
}

// Ping checks if the Redis connection is alive
func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func storeError(op string, id kernel.SessionID, err error) error {
	return annotation.ErrRegistry.NewWithCause(annotation.CodeSessionStoreFailed, err).
		WithDetail("operation", op).
		WithDetail("session_id", id)
}
