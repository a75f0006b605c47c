package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/cmlabs-hris/attendance-engine/internal/handler/http/response"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	ReplayedHeader    = "Idempotent-Replayed"

	idempotencyLockTTL = 30 * time.Second
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyKeys returns the cache and lock keys of a request.
func IdempotencyKeys(path, actor, key string) (cacheKey, lockKey string) {
	cacheKey = fmt.Sprintf("idemp:%s:%s:%s", path, actor, key)
	return cacheKey, cacheKey + ":lock"
}

// Idempotency replays the stored response of a POST that carries an Idempotency-Key the
// caller already used. A key whose first request is still running answers 409. Redis
// failures let the request through.
func Idempotency(rdb redis.Cmdable, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idempKey := r.Header.Get(IdempotencyHeader)
			if idempKey == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			actor := "anonymous"
			if subject, ok := authz.SubjectFromContext(r.Context()); ok {
				actor = subject.ActorID()
			}
			cacheKey, lockKey := IdempotencyKeys(r.URL.Path, actor, idempKey)
			ctx := r.Context()

			val, err := rdb.Get(ctx, cacheKey).Result()
			switch {
			case err == nil:
				var cached cachedResponse
				if err := json.Unmarshal([]byte(val), &cached); err == nil {
					w.Header().Set("Content-Type", cached.ContentType)
					w.Header().Set(ReplayedHeader, "true")
					w.WriteHeader(cached.Status)
					_, _ = w.Write(cached.Body)
					return
				}
				slog.Warn("Discarding unreadable idempotent response", "key", cacheKey)
			case !errors.Is(err, redis.Nil):
				slog.Error("Idempotency lookup failed", "key", cacheKey, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			acquired, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
			if err != nil {
				slog.Error("Idempotency lock failed", "key", lockKey, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !acquired {
				response.Conflict(w, "A request with this Idempotency-Key is still being processed")
				return
			}
			defer func() {
				if err := rdb.Del(ctx, lockKey).Err(); err != nil {
					slog.Error("Idempotency unlock failed", "key", lockKey, "error", err)
				}
			}()

			var body bytes.Buffer
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusInternalServerError {
				return
			}

			payload, err := json.Marshal(cachedResponse{
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        body.Bytes(),
			})
			if err != nil {
				return
			}
			if err := rdb.Set(ctx, cacheKey, string(payload), ttl).Err(); err != nil {
				slog.Error("Idempotency store failed", "key", cacheKey, "error", err)
			}
		})
	}
}
