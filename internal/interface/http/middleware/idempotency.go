package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/fabric-inventory/pkg/errors"
	"github.com/xiebiao/fabric-inventory/pkg/idempotency"
	"github.com/xiebiao/fabric-inventory/pkg/metrics"
	"github.com/xiebiao/fabric-inventory/pkg/response"
)

const (
	maxIdempotencyKeyLen    = 255
	maxIdempotencyBodyBytes = 1 << 20 // 1 MiB

	// storeTimeout bounds Complete/Release, which run after the handler and
	// must not depend on the client still being connected.
	storeTimeout = 2 * time.Second
)

var (
	errIdempotencyKeyTooLong = apperrors.New(apperrors.ErrCodeBadRequest, "Idempotency-Key must be at most 255 characters")
	errBodyTooLarge          = apperrors.New(http.StatusRequestEntityTooLarge, "request body too large")
)

// Idempotency replays the first successful response of a POST retried with the
// same Idempotency-Key header.
//
// Flow:
//  1. No header, or not a POST → pass through
//  2. Fingerprint method + route + body, then claim the key
//  3. Completed record with the same fingerprint → replay status and body
//  4. Otherwise run the handler; 2xx responses are stored, anything else
//     releases the key so the client can retry
//
// Concurrent duplicates get 409 while the first request runs; a key reused
// with a different body gets 400.
func Idempotency(store idempotency.Store, log *zap.Logger) gin.HandlerFunc {
	metrics.InitMetrics()

	return func(c *gin.Context) {
		key := c.GetHeader(idempotency.HeaderKey)
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			response.Error(c, errIdempotencyKeyTooLong)
			return
		}

		// 1. Read the body once, give the handler a fresh reader
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxIdempotencyBodyBytes+1))
		if err != nil {
			response.Error(c, apperrors.ErrBindError)
			return
		}
		if len(body) > maxIdempotencyBodyBytes {
			response.Error(c, errBodyTooLarge)
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		// 2. Claim
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fingerprint := idempotency.Fingerprint(c.Request.Method, route, body)
		storeKey := c.Request.Method + " " + route + " " + key

		replay, err := store.Acquire(c.Request.Context(), storeKey, fingerprint)
		if err != nil {
			response.Error(c, err)
			return
		}

		// 3. Replay
		if replay != nil {
			metrics.IncCounter(metrics.IdempotentReplaysTotal)
			c.Header("Idempotent-Replayed", "true")
			c.Data(replay.Status, replay.ContentType, replay.Body)
			c.Abort()
			return
		}

		// 4. Run and record
		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder

		finished := false
		defer func() {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), storeTimeout)
			defer cancel()

			// a panicking handler never sets finished
			status := recorder.Status()
			if !finished || status < 200 || status >= 300 {
				if err := store.Release(ctx, storeKey); err != nil {
					log.Warn("release idempotency key failed", zap.String("key", key), zap.Error(err))
				}
				return
			}

			err := store.Complete(ctx, storeKey, &idempotency.Record{
				Fingerprint: fingerprint,
				Status:      status,
				ContentType: recorder.Header().Get("Content-Type"),
				Body:        recorder.buf.Bytes(),
			})
			if err != nil {
				log.Warn("store idempotent response failed", zap.String("key", key), zap.Error(err))
			}
		}()

		c.Next()
		finished = true
	}
}

// bodyRecorder copies everything written to the client into buf.
type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
