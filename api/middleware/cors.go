package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/cors"
)

// devOrigin is the vite dev server of the back-office frontend.
const devOrigin = "http://localhost:5173"

// CORS applies the allowed-origin policy. A "*" entry opens the API to any
// origin and turns off credentialed requests, which browsers refuse to mix.
func CORS(origins []string) func(http.Handler) http.Handler {
	cleaned := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			cleaned = append(cleaned, o)
		}
	}
	if len(cleaned) == 0 {
		cleaned = []string{devOrigin}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   cleaned,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-Id", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Disposition", "Idempotent-Replayed", "Retry-After", "X-Request-Id"},
		AllowCredentials: !slices.Contains(cleaned, "*"),
		MaxAge:           300,
	}).Handler
}
