package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sangkips/pedidos-api/internal/config"
)

var (
	// the dashboard dev server
	defaultOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

	defaultMethods = []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}

	// headers the API reads; always allowed whatever the configuration says
	requiredHeaders = []string{"Authorization", "Content-Type", IdempotencyKeyHeader, "X-Request-ID"}

	// headers the dashboard reads from responses: export filename, archive
	// location and rate limit backoff
	exposedHeaders = []string{
		"Content-Disposition", "Content-Length", "Content-Type", "Retry-After",
		"X-Archive-Key", "X-Archive-URL", "X-Idempotency-Replayed",
		"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-Request-ID",
	}
)

// CORSMiddleware creates a CORS middleware with the provided configuration
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	return cors.New(corsConfig(cfg))
}

func corsConfig(cfg *config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     mergeHeaders(append([]string{"Accept", "Origin"}, cfg.AllowedHeaders...), requiredHeaders),
		ExposeHeaders:    exposedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = defaultOrigins
	}
	if len(c.AllowMethods) == 0 {
		c.AllowMethods = defaultMethods
	}
	return c
}

// mergeHeaders appends the extra headers missing from base, compared case
// insensitively
func mergeHeaders(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, h := range append(base, extra...) {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(h))
	}
	return out
}
