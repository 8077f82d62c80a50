package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/classzip/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
)

// LoggingMiddleware returns a middleware that logs HTTP requests. The
// request context carries a logger tagged with the request id.
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := middleware.GetReqID(r.Context())
			logger := ctxlog.From(ctx).With("request_id", reqID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("HTTP request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}()

			next.ServeHTTP(ww, r.WithContext(ctxlog.With(r.Context(), logger)))
		})
	}
}

type tokenCtxKey struct{}

func withToken(ctx context.Context, token *model.Token) context.Context {
	return context.WithValue(ctx, tokenCtxKey{}, token)
}

func tokenFromContext(ctx context.Context) *model.Token {
	token, _ := ctx.Value(tokenCtxKey{}).(*model.Token)
	return token
}

// isPublicPath reports whether path is reachable without a session. Any
// path containing a dot is treated as a static asset.
func isPublicPath(path string) bool {
	switch {
	case path == "/", path == "/health", path == "/logout":
		return true
	case strings.HasPrefix(path, "/auth/"):
		return true
	case strings.Contains(path, "."):
		return true
	}
	return false
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(&model.ErrorResponse{
		Error: err.Error(),
	}); err != nil {
		// Can't get context here, so use background context
		ctxlog.From(context.Background()).Error("Failed to encode error response", "error", err)
	}
}
