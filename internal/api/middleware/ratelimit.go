package middleware

import (
	"encoding/json"
	"fmt"
	"loan-backoffice/internal/config"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	rateLimitKeyPrefix = "loan-backoffice:ratelimit:"

	// Local buckets untouched for limiterIdleTTL are dropped, checked at most
	// once per limiterSweepInterval.
	limiterIdleTTL       = 3 * time.Minute
	limiterSweepInterval = time.Minute
)

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimiterMiddleware limits requests per client IP. With a Redis client the
// count is a fixed one second window shared by every instance. Without one, or
// while Redis is failing, each IP gets an in-process token bucket.
type RateLimiterMiddleware struct {
	redisClient *redis.Client
	cfg         config.RateLimitConfig
	logger      *slog.Logger
	window      time.Duration
	now         func() time.Time

	limiters  sync.Map
	lastSweep atomic.Int64
}

func NewRateLimiterMiddleware(
	cfg config.RateLimitConfig,
	redisClient *redis.Client,
	logger *slog.Logger,
) *RateLimiterMiddleware {
	logger = logger.With("component", "RateLimiter")

	switch {
	case !cfg.Enabled:
		logger.Info("Rate limiting is disabled via configuration.")
	case redisClient == nil:
		logger.Info("Rate limiter using in-process token buckets", "rps", cfg.RPS, "burst", cfg.Burst)
	default:
		logger.Info("Rate limiter using Redis fixed window", "rps", cfg.RPS, "window", time.Second)
	}

	return &RateLimiterMiddleware{
		redisClient: redisClient,
		cfg:         cfg,
		logger:      logger,
		window:      time.Second,
		now:         time.Now,
	}
}

func (rl *RateLimiterMiddleware) IsEnabled() bool {
	return rl.cfg.Enabled && rl.cfg.RPS > 0
}

func (rl *RateLimiterMiddleware) extractIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if xRealIP != "" && net.ParseIP(xRealIP) != nil {
		return xRealIP
	}

	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}

	if parsedIP := net.ParseIP(r.RemoteAddr); parsedIP != nil {
		return parsedIP.String()
	}

	rl.logger.Warn("Could not determine client IP for rate limiting", "remoteAddr", r.RemoteAddr, "x-forwarded-for", xff, "x-real-ip", xRealIP)
	return "unknown"
}

func (rl *RateLimiterMiddleware) localLimiter(ip string) *rate.Limiter {
	now := rl.now()
	rl.sweepIdle(now)

	v, ok := rl.limiters.Load(ip)
	if !ok {
		burst := rl.cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		v, _ = rl.limiters.LoadOrStore(ip, &localEntry{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RPS), burst)})
	}
	entry := v.(*localEntry)
	entry.lastSeen.Store(now.UnixNano())
	return entry.limiter
}

func (rl *RateLimiterMiddleware) sweepIdle(now time.Time) {
	last := rl.lastSweep.Load()
	if now.UnixNano()-last < int64(limiterSweepInterval) || !rl.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	cutoff := now.Add(-limiterIdleTTL).UnixNano()
	removed := 0
	rl.limiters.Range(func(key, value any) bool {
		if value.(*localEntry).lastSeen.Load() < cutoff {
			rl.limiters.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		rl.logger.Debug("Evicted idle rate limiters", "count", removed)
	}
}

// allowRedis reports whether the request fits the shared window. ok is false
// when Redis could not answer.
func (rl *RateLimiterMiddleware) allowRedis(r *http.Request, ip string) (allowed, ok bool) {
	ctx := r.Context()
	key := rateLimitKeyPrefix + ip

	pipe := rl.redisClient.TxPipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		rl.logger.Error("Redis pipeline failed during rate limiting check", "error", err, "ip", ip, "key", key)
		return false, false
	}

	return incrCmd.Val() <= int64(rl.cfg.RPS), true
}

func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	if !rl.IsEnabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.extractIP(r)
		if ip == "unknown" {
			rl.logger.Error("Blocking request due to unknown client IP for rate limiting")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		allowed, ok := false, false
		if rl.redisClient != nil {
			allowed, ok = rl.allowRedis(r, ip)
		}
		if !ok {
			allowed = rl.localLimiter(ip).Allow()
		}

		if !allowed {
			rl.logger.Warn("Rate limit exceeded", "ip", ip, "limit", rl.cfg.RPS)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprintf("%.0f", rl.window.Seconds()))
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{
					"message": "Rate limit exceeded",
				},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
