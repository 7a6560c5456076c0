package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/facturio/backend/internal/infrastructure/cache"
	"github.com/facturio/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader is the header clients use to deduplicate retried
// mutating requests.
const IdempotencyKeyHeader = "Idempotency-Key"

// MaxIdempotencyKeyLength caps the accepted key size.
const MaxIdempotencyKeyLength = 255

// IdempotencyConfig holds configuration for the idempotency middleware.
type IdempotencyConfig struct {
	Store cache.IdempotencyStore
	// TTL is how long a key blocks replays. Zero means cache.DefaultIdempotencyTTL.
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency returns a middleware that rejects replayed mutating requests.
//
// Clients opt in by sending an Idempotency-Key header on POST/PUT/PATCH/DELETE.
// The first request with a given key reserves it; any retry within the TTL is
// answered with 409 instead of re-executing the operation. Requests without
// the header pass through untouched.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = cache.DefaultIdempotencyTTL
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeBadRequest, "Idempotency key too long"))
			return
		}

		// Scope the key by method and path so the same key can be reused
		// across different endpoints.
		scopedKey := c.Request.Method + ":" + c.FullPath() + ":" + key

		fresh, err := cfg.Store.Reserve(c.Request.Context(), scopedKey, ttl)
		if err != nil {
			// fail open: a broken store must not take down writes
			if cfg.Logger != nil {
				cfg.Logger.Error("Idempotency store unavailable",
					zap.String("key", key),
					zap.Error(err))
			}
			c.Next()
			return
		}
		if !fresh {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponse(
				dto.ErrCodeDuplicateRequest, "Request with this idempotency key was already processed"))
			return
		}

		c.Next()
	}
}
