package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type redisManager struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisManager stores sessions as JSON values under prefix+userID.
// A positive ttl is applied as key expiration on every save.
func NewRedisManager(client redis.Cmdable, prefix string, ttl time.Duration) Manager {
	return &redisManager{client: client, prefix: prefix, ttl: ttl, now: time.Now}
}

func (m *redisManager) key(userID int64) string {
	return m.prefix + strconv.FormatInt(userID, 10)
}

func (m *redisManager) Get(ctx context.Context, userID int64) (*Session, error) {
	raw, err := m.client.Get(ctx, m.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return idleSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: redis get: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("state: decode session: %w", err)
	}
	if s.Data == nil {
		s.Data = make(map[string]string)
	}
	return &s, nil
}

func (m *redisManager) Save(ctx context.Context, userID int64, s *Session) error {
	if s == nil {
		return ErrNilSession
	}
	if !s.Active() {
		return m.Clear(ctx, userID)
	}
	cp := s.clone()
	cp.UpdatedAt = m.now().UTC()
	raw, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("state: encode session: %w", err)
	}
	if err := m.client.Set(ctx, m.key(userID), raw, m.ttl).Err(); err != nil {
		return fmt.Errorf("state: redis set: %w", err)
	}
	return nil
}

func (m *redisManager) Clear(ctx context.Context, userID int64) error {
	if err := m.client.Del(ctx, m.key(userID)).Err(); err != nil {
		return fmt.Errorf("state: redis del: %w", err)
	}
	return nil
}

func (m *redisManager) InProgress(ctx context.Context, userID int64) (bool, error) {
	s, err := m.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.Active(), nil
}
