// Package idempotency describes how completed POST responses are remembered
// under a client supplied Idempotency-Key and replayed on retries.
package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	apperrors "github.com/xiebiao/fabric-inventory/pkg/errors"
)

// HeaderKey is the request header carrying the client key.
const HeaderKey = "Idempotency-Key"

// Record states
const (
	StatePending = "pending"
	StateDone    = "done"
)

var (
	// ErrInFlight is returned while the first request with the same key is still running.
	ErrInFlight = apperrors.New(apperrors.ErrCodeConflict, "request is already being processed")
	// ErrKeyReused is returned when a key comes back with a different request.
	ErrKeyReused = apperrors.New(apperrors.ErrCodeBadRequest, "idempotency key was already used with a different request")
)

// Record is what the store keeps under a key.
type Record struct {
	State       string `json:"state"`
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Store remembers responses by key.
type Store interface {
	// Acquire claims key for a new request. It returns (nil, nil) when the
	// caller owns the key and must run the request, or the completed record
	// to replay. ErrInFlight and ErrKeyReused report the other outcomes.
	Acquire(ctx context.Context, key, fingerprint string) (*Record, error)
	// Complete stores the final response for an acquired key.
	Complete(ctx context.Context, key string, rec *Record) error
	// Release forgets key so the request can be retried.
	Release(ctx context.Context, key string) error
}

// Fingerprint identifies a request by method, route and body.
func Fingerprint(method, route string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(route))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
