package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zrxcoding/Gaming/internal/models"
)

const sessionKeyPrefix = "gaming:session:"

// RedisSessionStore keeps sessions as JSON values. Keys carry the idle
// timeout as TTL, so Redis expires idle sessions on its own.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a session store on client. A ttl of zero
// keeps sessions until deleted.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

func (r *RedisSessionStore) Load(ctx context.Context, userID string) (*models.UserSession, error) {
	data, err := r.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var session models.UserSession
	if err := json.Unmarshal(data, &session); err != nil {
		// An unreadable session is dropped and the user starts over.
		_ = r.client.Del(ctx, sessionKey(userID)).Err()
		return nil, nil
	}
	return &session, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, session *models.UserSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(session.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// DeleteIdle scans all session keys. Keys written with a TTL expire without
// it; this covers sessions written before the timeout was configured. Each
// key is checked and deleted under WATCH, so a session saved between the
// check and the delete survives.
func (r *RedisSessionStore) DeleteIdle(ctx context.Context, cutoff time.Time) (int, error) {
	removed := 0
	iter := r.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		deleted, err := r.deleteIfIdle(ctx, iter.Val(), cutoff)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return removed, err
		}
		if deleted {
			removed++
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan sessions: %w", err)
	}
	return removed, nil
}

func (r *RedisSessionStore) deleteIfIdle(ctx context.Context, key string, cutoff time.Time) (bool, error) {
	deleted := false
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("redis get session: %w", err)
		}

		var session models.UserSession
		if err := json.Unmarshal(data, &session); err == nil && !session.LastActive.Before(cutoff) {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		if err == nil {
			deleted = true
		}
		return err
	}, key)
	return deleted, err
}

func (r *RedisSessionStore) Count(ctx context.Context) (int, error) {
	count := 0
	iter := r.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("redis scan sessions: %w", err)
	}
	return count, nil
}
