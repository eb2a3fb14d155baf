package redisinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-otp-auth/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ExpiredRetention keeps a key alive past the code's expiry so verification
// can still tell an expired code from a missing one.
const ExpiredRetention = 24 * time.Hour

// minTTL keeps a key written for an already-expired entry from vanishing on write.
const minTTL = time.Second

const (
	hashFieldCode  = "code"
	hashFieldEntry = "entry"
)

// consumeScript deletes the key only when its stored code matches ARGV[1].
var consumeScript = redis.NewScript(`
local stored = redis.call("HGET", KEYS[1], "code")
if not stored or stored ~= ARGV[1] then
  return 0
end
redis.call("DEL", KEYS[1])
return 1
`)

// putIfAbsentScript writes the hash and its expiry only when KEYS[1] does not exist.
var putIfAbsentScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
redis.call("HSET", KEYS[1], "code", ARGV[1], "entry", ARGV[2])
redis.call("PEXPIRE", KEYS[1], ARGV[3])
return 1
`)

// PendingCodeStore keeps pending codes in Redis hashes shared by every
// instance of the service. Key: <prefix>:<purpose>:<identity>.
type PendingCodeStore struct {
	client redis.UniversalClient
	prefix string
}

func NewPendingCodeStore(client redis.UniversalClient, prefix string) *PendingCodeStore {
	if prefix == "" {
		prefix = "pending_code"
	}
	return &PendingCodeStore{client: client, prefix: prefix}
}

func (s *PendingCodeStore) Put(ctx context.Context, p *domain.PendingCode) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pending code: %w", err)
	}
	key := s.key(p.Purpose, p.Identity)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, hashFieldCode, p.Code, hashFieldEntry, raw)
		pipe.PExpire(ctx, key, keyTTL(p.ExpiresAt, time.Now()))
		return nil
	})
	return err
}

// PutIfAbsent stores p only when no entry exists for its key.
func (s *PendingCodeStore) PutIfAbsent(ctx context.Context, p *domain.PendingCode) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pending code: %w", err)
	}
	ttl := keyTTL(p.ExpiresAt, time.Now())
	n, err := putIfAbsentScript.Run(ctx, s.client, []string{s.key(p.Purpose, p.Identity)},
		p.Code, raw, ttl.Milliseconds()).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("pending code already present: %w", domain.ErrConflict)
	}
	return nil
}

func (s *PendingCodeStore) Get(ctx context.Context, purpose domain.Purpose, identity string) (*domain.PendingCode, error) {
	raw, err := s.client.HGet(ctx, s.key(purpose, identity), hashFieldEntry).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("pending code not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var p domain.PendingCode
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal pending code: %w", err)
	}
	return &p, nil
}

func (s *PendingCodeStore) Delete(ctx context.Context, purpose domain.Purpose, identity string) error {
	return s.client.Del(ctx, s.key(purpose, identity)).Err()
}

func (s *PendingCodeStore) Consume(ctx context.Context, purpose domain.Purpose, identity, code string) error {
	n, err := consumeScript.Run(ctx, s.client, []string{s.key(purpose, identity)}, code).Int()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("pending code already consumed: %w", domain.ErrNotFound)
	}
	return nil
}

// keyTTL is the key lifetime for an entry expiring at expiresAt, never below minTTL.
func keyTTL(expiresAt, now time.Time) time.Duration {
	ttl := expiresAt.Sub(now) + ExpiredRetention
	if ttl < minTTL {
		return minTTL
	}
	return ttl
}

func (s *PendingCodeStore) key(purpose domain.Purpose, identity string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, purpose, identity)
}
