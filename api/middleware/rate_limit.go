package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/angelmondragon/wardrop-backend/api/responses"
	"github.com/angelmondragon/wardrop-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
)

const (
	defaultRateLimitRequests = 300
	defaultRateLimitWindow   = time.Minute
)

// RateLimit throttles every API request per client IP with an in-process
// sliding window. Rejections use the standard error envelope.
func RateLimit(cfg config.RateLimitConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	if cfg.Disabled {
		return func(next http.Handler) http.Handler { return next }
	}
	requests := cfg.Requests
	if requests <= 0 {
		requests = defaultRateLimitRequests
	}
	window := cfg.Window
	if window <= 0 {
		window = defaultRateLimitWindow
	}
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			if logg != nil {
				logg.Warn(logg.WithField(r.Context(), "ip", clientIP(r)), "api.rate_limit.blocked")
			}
			responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
		}),
	)
}
