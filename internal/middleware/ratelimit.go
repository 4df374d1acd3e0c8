package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/qpaper-backend/internal/config"
	"github.com/stemsi/qpaper-backend/internal/response"
)

// UploadLimiter counts uploads per client IP in fixed one-minute windows
// shared through Redis, so every instance sees the same budget.
type UploadLimiter struct {
	rdb    redis.Cmdable
	limit  int64
	window time.Duration
	log    zerolog.Logger
	now    func() time.Time
}

// NewUploadLimiter allows perMinute uploads per client IP.
func NewUploadLimiter(rdb redis.Cmdable, perMinute int, log zerolog.Logger) *UploadLimiter {
	return &UploadLimiter{
		rdb:    rdb,
		limit:  int64(perMinute),
		window: time.Minute,
		log:    log.With().Str("component", "upload_limiter").Logger(),
		now:    time.Now,
	}
}

// Allow reports whether ip may upload now. Redis failures let the request through.
func (l *UploadLimiter) Allow(c *gin.Context, ip string) bool {
	bucket := l.now().Unix() / int64(l.window/time.Second)
	key := config.CacheKey.UploadRateKey(ip, bucket)
	ctx := c.Request.Context()

	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		l.log.Warn().Err(err).Str("ip", ip).Msg("Rate limit check failed, allowing request")
		return true
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			l.log.Warn().Err(err).Str("key", key).Msg("Failed to set rate limit window expiry")
		}
	}
	return n <= l.limit
}

// Middleware rejects requests over the limit with 429.
func (l *UploadLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c, c.ClientIP()) {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}
