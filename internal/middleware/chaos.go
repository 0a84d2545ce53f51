package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/optima-platform/ledger/internal/chaos"
	"github.com/optima-platform/ledger/internal/config"
)

var excludedPaths = []string{
	"/health",
	"/docs",
}

// FailureInjection creates middleware that injects latency and random failures
// for testing resilience of client applications.
func FailureInjection(cfg *config.AppConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isExcludedPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			chaos.Sleep(r.Context(), cfg.MinLatencyMS, cfg.MaxLatencyMS)

			if chaos.Roll(cfg.FailureRate) {
				logger.Debug("injecting random failure",
					"path", r.URL.Path,
					"method", r.Method,
				)
				writeError(w, http.StatusInternalServerError, "internal_error", "Random failure injection")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isExcludedPath(path string) bool {
	for _, excluded := range excludedPaths {
		if strings.HasPrefix(path, excluded) {
			return true
		}
	}
	return false
}
