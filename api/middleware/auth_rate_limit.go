package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/wardrop-backend/api/responses"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
)

// credentialBodyLimit caps how much of a login or register body is buffered.
const credentialBodyLimit = 64 << 10

type rateLimiterStore interface {
	CountInWindow(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy throttles one credential endpoint by client IP and by
// the submitted admin email.
type AuthRateLimitPolicy struct {
	endpoint   string
	window     time.Duration
	ipLimit    int64
	emailLimit int64
}

// NewAuthRateLimitPolicy builds a policy for the named endpoint. A zero limit
// disables that dimension.
func NewAuthRateLimitPolicy(endpoint string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	endpoint = strings.ToLower(strings.TrimSpace(endpoint))
	if endpoint == "" {
		endpoint = "auth"
	}
	return AuthRateLimitPolicy{
		endpoint:   endpoint,
		window:     window,
		ipLimit:    int64(ipLimit),
		emailLimit: int64(emailLimit),
	}
}

func (p AuthRateLimitPolicy) active() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

// counter is a single throttled dimension resolved for one request.
type counter struct {
	dimension string
	value     string
	limit     int64
}

func (p AuthRateLimitPolicy) scope(c counter) string {
	return "auth:" + p.endpoint + ":" + c.dimension + ":" + c.value
}

// AuthRateLimit rejects credential attempts once either counter passes its
// limit inside the policy window.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.active() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			counters := make([]counter, 0, 2)
			if policy.ipLimit > 0 {
				if ip := clientIP(r); ip != "" {
					counters = append(counters, counter{dimension: "ip", value: ip, limit: policy.ipLimit})
				}
			}
			if policy.emailLimit > 0 {
				body, err := io.ReadAll(io.LimitReader(r.Body, credentialBodyLimit))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
				if email := submittedEmail(body); email != "" {
					counters = append(counters, counter{dimension: "email", value: digest(email), limit: policy.emailLimit})
				}
			}

			for _, c := range counters {
				attempts, err := store.CountInWindow(ctx, policy.scope(c), policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limit store unavailable"))
					return
				}
				if attempts > c.limit {
					throttled(ctx, logg, w, policy, c, attempts)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func throttled(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, policy AuthRateLimitPolicy, c counter, attempts int64) {
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"endpoint":  policy.endpoint,
			"dimension": c.dimension,
			"value":     c.value,
			"attempts":  attempts,
			"limit":     c.limit,
		})
		logg.Warn(logCtx, "auth.rate_limit.blocked")
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(policy.window.Seconds())))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
}

// clientIP prefers proxy headers, then the socket peer.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func submittedEmail(body []byte) string {
	var creds struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(body, &creds) != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(creds.Email))
}

// digest keeps raw addresses out of redis keys and logs.
func digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}
