package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redisStore "bank-account-service/internal/adapter/storage/redis"
	"bank-account-service/config"
	"bank-account-service/pkg/apperror"
	"bank-account-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Endpoint groups with their own rate limit budget.
const (
	GroupReads       = "reads"
	GroupWrites      = "writes"
	GroupCredentials = "credentials"
)

// RateLimitRule defines a rate limit for an endpoint group.
type RateLimitRule struct {
	Limit  int64
	Window time.Duration
}

// RateLimitStore counts requests per key in fixed windows.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*redisStore.RateLimitResult, error)
}

// DefaultRateLimitRules derives the per-group limits from cfg. Credential
// checks get a tenth of the budget since each failure counts toward a lock.
func DefaultRateLimitRules(cfg config.RateLimitConfig) map[string]RateLimitRule {
	base := RateLimitRule{Limit: int64(cfg.Requests), Window: cfg.Window}
	creds := base
	creds.Limit = max(base.Limit/10, 1)
	return map[string]RateLimitRule{
		GroupReads:       base,
		GroupWrites:      base,
		GroupCredentials: creds,
	}
}

// RateLimiter creates a rate-limiting middleware for a given endpoint group.
func RateLimiter(store RateLimitStore, group string, rule RateLimitRule, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := extractIdentifier(c)
		key := fmt.Sprintf("%s:%s", identifier, group)

		result, err := store.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn().Err(err).Str("group", group).Msg("rate limit check failed, allowing request (degraded mode)")
			c.Next()
			return
		}

		// Always set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			retryAfter := max(result.ResetAt-time.Now().Unix(), 1)
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			response.Error(c, apperror.ErrRateLimitExceeded())
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractIdentifier keys limits by token subject, falling back to client IP.
func extractIdentifier(c *gin.Context) string {
	if sub := c.GetString(CtxSubject); sub != "" {
		return sub
	}
	return c.ClientIP()
}
