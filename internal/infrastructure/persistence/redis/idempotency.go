package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/fabric-inventory/pkg/errors"
	"github.com/xiebiao/fabric-inventory/pkg/idempotency"
)

const idempotencyKeyPrefix = "idempotency:"

// IdempotencyStore keeps idempotency records as JSON strings.
//
// Key layout:
//
//	idempotency:{Idempotency-Key} → {"state":"pending|done","fingerprint":...}
//
// Pending records are claimed with SET NX so two concurrent requests with the
// same key can never both run.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates the store. ttl bounds both the pending claim and
// how long a completed response can be replayed.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

func (s *IdempotencyStore) key(k string) string {
	return idempotencyKeyPrefix + k
}

// Acquire implements idempotency.Store.
func (s *IdempotencyStore) Acquire(ctx context.Context, key, fingerprint string) (*idempotency.Record, error) {
	pending, err := json.Marshal(&idempotency.Record{
		State:       idempotency.StatePending,
		Fingerprint: fingerprint,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "encode idempotency record failed")
	}

	ok, err := s.client.SetNX(ctx, s.key(key), pending, s.ttl).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "claim idempotency key failed")
	}
	if ok {
		return nil, nil
	}

	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET; the caller may simply retry
			return nil, idempotency.ErrInFlight
		}
		return nil, apperrors.Wrap(err, "read idempotency key failed")
	}

	var rec idempotency.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, apperrors.Wrap(err, "decode idempotency record failed")
	}

	switch {
	case rec.Fingerprint != fingerprint:
		return nil, idempotency.ErrKeyReused
	case rec.State != idempotency.StateDone:
		return nil, idempotency.ErrInFlight
	default:
		return &rec, nil
	}
}

// Complete implements idempotency.Store.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, rec *idempotency.Record) error {
	rec.State = idempotency.StateDone
	raw, err := json.Marshal(rec)
	if err != nil {
		return apperrors.Wrap(err, "encode idempotency record failed")
	}
	if err := s.client.Set(ctx, s.key(key), raw, s.ttl).Err(); err != nil {
		return apperrors.Wrap(err, "store idempotency record failed")
	}
	return nil
}

// Release implements idempotency.Store.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return apperrors.Wrap(err, "release idempotency key failed")
	}
	return nil
}

var _ idempotency.Store = (*IdempotencyStore)(nil)
