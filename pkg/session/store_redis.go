package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix   = "session:"
	userSessionsPrefix = "user_sessions:"
	expiryIndexKey     = "session_expirations"
)

// RedisStore persists sessions as JSON values with a native key TTL, plus a
// per-user set for bulk revocation and a sorted set indexed by expiry for the
// periodic sweep. The key TTL already evicts expired values; DeleteExpired
// reconciles the bookkeeping structures and removes records the TTL has not
// reached yet (clock skew between write and expiry adjustments is not a
// concern since records are immutable).
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a session store over the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(token string) string  { return sessionKeyPrefix + token }
func userKey(userID string) string    { return userSessionsPrefix + userID }
func expiryScore(t time.Time) float64 { return float64(t.UnixMilli()) }

func (s *RedisStore) Create(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Millisecond // let redis evict immediately, keep SET NX semantics
	}

	ok, err := s.client.SetNX(ctx, sessionKey(sess.Token), data, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	if !ok {
		return ErrDuplicateToken
	}

	if err := s.client.SAdd(ctx, userKey(sess.UserID), sess.Token).Err(); err != nil {
		return fmt.Errorf("failed to index session by user: %w", err)
	}
	if err := s.client.ZAdd(ctx, expiryIndexKey, redis.Z{
		Score:  expiryScore(sess.ExpiresAt),
		Member: sess.Token,
	}).Err(); err != nil {
		return fmt.Errorf("failed to index session by expiry: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByToken(ctx context.Context, token string, now time.Time) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	// Lazy expiry check, authoritative over the key TTL
	if !sess.ExpiresAt.After(now) {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

func (s *RedisStore) DeleteByToken(ctx context.Context, token string) (bool, error) {
	// Load the record first to unlink the user set entry
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("failed to load session: %w", err)
	}
	if err == nil {
		var sess Session
		if jsonErr := json.Unmarshal(data, &sess); jsonErr == nil {
			_ = s.client.SRem(ctx, userKey(sess.UserID), token).Err()
		}
	}
	_ = s.client.ZRem(ctx, expiryIndexKey, token).Err()

	deleted, err := s.client.Del(ctx, sessionKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return deleted > 0, nil
}

func (s *RedisStore) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	tokens, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list user sessions: %w", err)
	}
	if len(tokens) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(tokens))
	members := make([]any, 0, len(tokens))
	for _, token := range tokens {
		keys = append(keys, sessionKey(token))
		members = append(members, token)
	}

	// DEL reports how many keys actually existed, which keeps the count exact
	// even when the key TTL already evicted some of the indexed tokens.
	deleted, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to delete user sessions: %w", err)
	}
	_ = s.client.ZRem(ctx, expiryIndexKey, members...).Err()
	if err := s.client.Del(ctx, userKey(userID)).Err(); err != nil {
		return deleted, fmt.Errorf("failed to clear user session index: %w", err)
	}
	return deleted, nil
}

func (s *RedisStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	max := "(" + strconv.FormatInt(now.UnixMilli(), 10)
	tokens, err := s.client.ZRangeByScore(ctx, expiryIndexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: max,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list expired sessions: %w", err)
	}
	if len(tokens) == 0 {
		return 0, nil
	}

	var count int64
	for _, token := range tokens {
		deleted, err := s.DeleteByToken(ctx, token)
		if err != nil {
			return count, err
		}
		if deleted {
			count++
		}
	}
	_ = s.client.ZRemRangeByScore(ctx, expiryIndexKey, "-inf", max).Err()
	return count, nil
}

// Compile-time interface assertion
var _ Store = (*RedisStore)(nil)
