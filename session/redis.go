package session

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
	tokenKeyPrefix     = "at"
	tokenUserKeyPrefix = "atu"
	tokenRecordVersion = "1"
)

// RedisStore shares the token space across server instances. Expiry rides
// on the Redis TTL, so there is nothing for a sweeper to do.
//
// RedisStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RedisStore struct {
	redis  *redis.Client
	prefix string
}

// NewRedisStore describes the newredisstore operation and its observable behavior.
//
// NewRedisStore may return an error when input validation, dependency calls, or security checks fail.
// NewRedisStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		redis:  client,
		prefix: tokenKeyPrefix,
	}
}

func (s *RedisStore) key(value string) string {
	return s.prefix + ":" + value
}

func (s *RedisStore) userKey(userID int64) string {
	return tokenUserKeyPrefix + ":" + strconv.FormatInt(userID, 10)
}

// Save describes the save operation and its observable behavior.
//
// Save may return an error when input validation, dependency calls, or security checks fail.
// Save does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Save(ctx context.Context, tok Token) error {
	ttl := time.Until(time.Unix(tok.ExpiresAt, 0))
	if ttl <= 0 {
		return nil
	}

	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, s.key(tok.Value), encodeTokenRecord(tok), ttl)
	pipe.SAdd(ctx, s.userKey(tok.UserID), tok.Value)
	pipe.Expire(ctx, s.userKey(tok.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Validate(ctx context.Context, value string) (Token, error) {
	data, err := s.redis.Get(ctx, s.key(value)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Token{}, ErrTokenNotFound
		}
		return Token{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	tok, err := decodeTokenRecord(value, data)
	if err != nil {
		// Corrupt entries validate as absent, and are removed on touch.
		_ = s.redis.Del(ctx, s.key(value)).Err()
		return Token{}, ErrTokenNotFound
	}
	if time.Now().Unix() > tok.ExpiresAt {
		_ = s.redis.Del(ctx, s.key(value)).Err()
		return Token{}, ErrTokenNotFound
	}

	return tok, nil
}

// Revoke describes the revoke operation and its observable behavior.
//
// Revoke may return an error when input validation, dependency calls, or security checks fail.
// Revoke does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) Revoke(ctx context.Context, value string) error {
	data, err := s.redis.Get(ctx, s.key(value)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, s.key(value))
	if tok, decodeErr := decodeTokenRecord(value, data); decodeErr == nil {
		pipe.SRem(ctx, s.userKey(tok.UserID), value)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// RevokeAllForUser describes the revokeallforuser operation and its observable behavior.
//
// RevokeAllForUser may return an error when input validation, dependency calls, or security checks fail.
// RevokeAllForUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *RedisStore) RevokeAllForUser(ctx context.Context, userID int64) error {
	values, err := s.redis.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	pipe := s.redis.TxPipeline()
	for _, value := range values {
		pipe.Del(ctx, s.key(value))
	}
	pipe.Del(ctx, s.userKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

func encodeTokenRecord(tok Token) string {
	return tokenRecordVersion + ":" +
		strconv.FormatInt(tok.UserID, 10) + ":" +
		strconv.FormatInt(tok.CreatedAt, 10) + ":" +
		strconv.FormatInt(tok.ExpiresAt, 10)
}

func decodeTokenRecord(value, data string) (Token, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 4 || parts[0] != tokenRecordVersion {
		return Token{}, errors.New("invalid token record")
	}

	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Token{}, errors.New("invalid token record user id")
	}
	createdAt, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Token{}, errors.New("invalid token record created timestamp")
	}
	expiresAt, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return Token{}, errors.New("invalid token record expiry timestamp")
	}

	return Token{
		Value:     value,
		UserID:    userID,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}, nil
}
