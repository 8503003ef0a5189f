package http

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/nikolayk812/foodcart/internal/logger"
	"github.com/nikolayk812/foodcart/internal/service"
)

const (
	headerSessionID     = "X-Session-ID"
	headerCustomerEmail = "X-Customer-Email"
	headerCustomerRole  = "X-Customer-Role"
)

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	viewerKey    contextKey = "viewer"
)

// RequireSession reads the cart handle from X-Session-ID.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(r.Header.Get(headerSessionID))
		if sessionID == "" {
			writeErrorCode(w, http.StatusBadRequest, "MISSING_SESSION", headerSessionID+" header is required")
			return
		}
		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireViewer reads the identity injected upstream by the identity provider.
// Requests without an email are rejected with 401, unknown roles with 403.
func RequireViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimSpace(r.Header.Get(headerCustomerEmail))
		if email == "" {
			writeErrorCode(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}

		role := domain.RoleCustomer
		if raw := r.Header.Get(headerCustomerRole); raw != "" {
			parsed, err := domain.ParseRole(raw)
			if err != nil {
				writeErrorCode(w, http.StatusForbidden, "FORBIDDEN", err.Error())
				return
			}
			role = parsed
		}

		ctx := context.WithValue(r.Context(), viewerKey, service.Viewer{Email: email, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

func viewerFromContext(ctx context.Context) service.Viewer {
	v, _ := ctx.Value(viewerKey).(service.Viewer)
	return v
}

func requestIDFromContext(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// ContentTypeJSON rejects request bodies that are not JSON.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				writeErrorCode(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger stores a logger enriched with the request ID in the context
// and logs every completed request.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			l := base
			if id := requestIDFromContext(r.Context()); id != "" {
				l = l.With(slog.String("request_id", id))
			}
			ctx := logger.NewContext(r.Context(), l)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			l.InfoContext(ctx, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Recovery turns a panic into a 500 response.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					l.ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)
					writeErrorCode(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
