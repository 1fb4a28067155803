package adminauth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	resetKeyPrefix     = "ar"
	resetRecordVersion = "1"
)

// RedisResetStore shares outstanding reset tokens across server instances.
// The Redis TTL bounds how long an abandoned token can linger, but expiry
// decisions are made against the stored timestamp so a matched-but-expired
// token is still burned on redemption.
//
// RedisResetStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RedisResetStore struct {
	redis *redis.Client

	now func() time.Time
}

// NewRedisResetStore describes the newredisresetstore operation and its observable behavior.
//
// NewRedisResetStore may return an error when input validation, dependency calls, or security checks fail.
// NewRedisResetStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisResetStore(client *redis.Client) *RedisResetStore {
	return &RedisResetStore{
		redis: client,
		now:   time.Now,
	}
}

func (s *RedisResetStore) key(token string) string {
	return resetKeyPrefix + ":" + token
}

// Save describes the save operation and its observable behavior.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisResetStore) Save(ctx context.Context, rec ResetRecord) error {
	ttl := time.Until(time.Unix(rec.ExpiresAt, 0))
	if ttl <= 0 {
		return nil
	}

	data := resetRecordVersion + ":" +
		strconv.FormatInt(rec.UserID, 10) + ":" +
		strconv.FormatInt(rec.ExpiresAt, 10)
	if err := s.redis.Set(ctx, s.key(rec.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return nil
}

// Consume describes the consume operation and its observable behavior.
//
// Consume may return an error when input validation, dependency calls, or security checks fail.
// Consume does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisResetStore) Consume(ctx context.Context, token string) (ResetRecord, error) {
	data, err := s.redis.GetDel(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ResetRecord{}, ErrResetNotFound
		}
		return ResetRecord{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	rec, err := decodeResetRecord(token, data)
	if err != nil {
		return ResetRecord{}, ErrResetNotFound
	}
	if s.now().Unix() > rec.ExpiresAt {
		return ResetRecord{}, ErrResetExpired
	}

	return rec, nil
}

// Remove describes the remove operation and its observable behavior.
//
// Remove may return an error when input validation, dependency calls, or security checks fail.
// Remove does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisResetStore) Remove(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, s.key(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func decodeResetRecord(token, data string) (ResetRecord, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != resetRecordVersion {
		return ResetRecord{}, errors.New("invalid reset record")
	}

	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return ResetRecord{}, errors.New("invalid reset record user id")
	}
	expiresAt, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return ResetRecord{}, errors.New("invalid reset record expiry timestamp")
	}

	return ResetRecord{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}, nil
}
