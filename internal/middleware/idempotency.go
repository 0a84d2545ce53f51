// Package middleware provides HTTP middleware components for the ledger API.
package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/optima-platform/ledger/internal/auth"
	"github.com/optima-platform/ledger/internal/models"
)

// IdempotencyKeyHeader carries the client-chosen key of a mutating request.
// Handlers also forward it to the ledger so the store deduplicates retries.
const IdempotencyKeyHeader = "Idempotency-Key"

// idempotentPrefixes defines which paths require idempotency handling
//
// Only mutating operations (POST) need idempotency
var idempotentPrefixes = []string{
	"/api/v1/me/",
	"/api/v1/admin/",
}

// IdempotencyRepository defines the interface for idempotency storage
type IdempotencyRepository interface {
	Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error)
	Store(ctx context.Context, idemKey *models.IdempotencyKey) error
}

// IdempotencyLocker guards a key while its first request is in flight.
// Backends without a lock pass nil to Idempotency.
type IdempotencyLocker interface {
	Acquire(ctx context.Context, key, requestPath string) (bool, error)
	Release(ctx context.Context, key, requestPath string) error
}

type responseCapture struct {
	http.ResponseWriter
	body       bytes.Buffer
	statusCode int
}

func newResponseCapture(w http.ResponseWriter) *responseCapture {
	return &responseCapture{
		ResponseWriter: w,
		statusCode:     http.StatusOK, // Default if WriteHeader not called
	}
}

func (rc *responseCapture) WriteHeader(code int) {
	rc.statusCode = code
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b) // Capture for caching
	return rc.ResponseWriter.Write(b)
}

// Idempotency creates middleware that replays cached 2xx responses for a
// repeated Idempotency-Key. Entries are scoped to the caller, so two users
// sending the same key never see each other's responses. It must run after
// Authenticate.
func Idempotency(repo IdempotencyRepository, locker IdempotencyLocker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requiresIdempotency(r) {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := r.Header.Get(IdempotencyKeyHeader)
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			requestPath := scopedRequestPath(r)
			ctx := r.Context()

			cached, err := repo.Get(ctx, idempotencyKey, requestPath)
			if err != nil {
				logger.Error("failed to check idempotency cache", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if cached != nil {
				logger.Debug("returning cached idempotent response",
					"key", idempotencyKey,
					"path", requestPath,
					"status", cached.ResponseStatus,
				)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Idempotent-Replayed", "true")
				w.WriteHeader(cached.ResponseStatus)
				//nolint:errcheck // Best effort response writing
				w.Write([]byte(cached.ResponseBody))
				return
			}

			if locker != nil {
				acquired, err := locker.Acquire(ctx, idempotencyKey, requestPath)
				switch {
				case err != nil:
					logger.Error("failed to acquire idempotency lock", "error", err, "key", idempotencyKey)
				case !acquired:
					logger.Info("rejecting concurrent idempotent request",
						"key", idempotencyKey,
						"path", requestPath,
					)
					writeConflict(w)
					return
				default:
					defer func() {
						// The request context may already be cancelled here.
						if err := locker.Release(context.WithoutCancel(ctx), idempotencyKey, requestPath); err != nil {
							logger.Error("failed to release idempotency lock", "error", err, "key", idempotencyKey)
						}
					}()
				}
			}

			capture := newResponseCapture(w)
			next.ServeHTTP(capture, r)

			if shouldCacheResponse(capture.statusCode) {
				idemKey := &models.IdempotencyKey{
					Key:            idempotencyKey,
					RequestPath:    requestPath,
					ResponseStatus: capture.statusCode,
					ResponseBody:   capture.body.String(),
					CreatedAt:      time.Now(),
				}

				if err := repo.Store(context.WithoutCancel(ctx), idemKey); err != nil {
					logger.Error("failed to store idempotency key",
						"error", err,
						"key", idempotencyKey,
					)
				}
			}
		})
	}
}

func requiresIdempotency(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}

	for _, prefix := range idempotentPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// scopedRequestPath prefixes the normalized path with the caller's subject
func scopedRequestPath(r *http.Request) string {
	path := normalizeRequestPath(r.URL.Path)
	if id, ok := auth.IdentityFrom(r.Context()); ok {
		return id.Subject + ":" + path
	}
	return path
}

func normalizeRequestPath(urlPath string) string {
	return strings.TrimSuffix(urlPath, "/")
}

func shouldCacheResponse(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

func writeConflict(w http.ResponseWriter) {
	writeError(w, http.StatusConflict, "idempotency_conflict",
		"A request with this Idempotency-Key is already being processed")
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	//nolint:errcheck // Best effort response writing
	json.NewEncoder(w).Encode(errorResponse{Error: code, Message: message})
}
