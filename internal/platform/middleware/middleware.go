// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the HTTP chain that sits in front of the sign-in
API and the guarded pages.

Chain (outermost first, see api.NewServer):

  - RequestID: correlation ID for logs and responses.
  - StructuredLogger: one slog line per request, carrying the member ID once known.
  - IPRateLimiter: per-address token buckets.
  - PanicRecovery: converts panics into the standard 500 envelope.
  - Authenticate: resolves the session cookie or bearer token into claims.
  - CORS: hushnote.app origins plus a configured allow list.
  - RouteGuard: page redirects based on the claims (page group only).
*/
package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/hushnote/internal/platform/apperr"
	"github.com/taibuivan/hushnote/internal/platform/constants"
	"github.com/taibuivan/hushnote/internal/platform/ctxutil"
	"github.com/taibuivan/hushnote/internal/platform/respond"
	"github.com/taibuivan/hushnote/pkg/uuid"
)

// # Request Tracing

// RequestID reuses the caller's X-Request-ID or mints a UUIDv7, and echoes it back.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New()
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), requestID)))
		})
	}
}

// # Activity Logging

// wrapWriter records the status and size of a response.
func wrapWriter(writer http.ResponseWriter, request *http.Request) chimw.WrapResponseWriter {
	return chimw.NewWrapResponseWriter(writer, request.ProtoMajor)
}

// statusOf returns the written status, treating "nothing written yet" as 200.
func statusOf(writer chimw.WrapResponseWriter) int {
	if status := writer.Status(); status != 0 {
		return status
	}
	return http.StatusOK
}

// levelFor maps a response status to the log level of its access line.
func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

/*
StructuredLogger stores a request-scoped logger in the context and writes one
"http_request_finished" line when the handler returns.

The member ID is read after the handler ran, so requests authenticated further
down the chain are still attributed. Sign-in failures log at warn level (401)
without the submitted identifier.
*/
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
			)

			// Authenticate writes the claims into the request it passes on,
			// so keep a pointer we can read back afterwards.
			tracked := &trackedRequest{}
			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			ctx = withTracker(ctx, tracked)

			wrapped := wrapWriter(writer, request)
			next.ServeHTTP(wrapped, request.WithContext(ctx))

			status := statusOf(wrapped)
			attributes := []slog.Attr{
				slog.Int("status", status),
				slog.Int("bytes", wrapped.BytesWritten()),
				slog.Duration("latency", time.Since(startTime)),
				slog.String("ip", RealIP(request)),
			}
			if tracked.userID != "" {
				attributes = append(attributes, slog.String("user_id", tracked.userID))
			}

			requestLogger.LogAttrs(ctx, levelFor(status), "http_request_finished", attributes...)
		})
	}
}

// # Reliability & Safety

// PanicRecovery turns a panic into the standard 500 envelope and logs the stack.
// http.ErrAbortHandler is re-panicked so net/http can drop the connection.
func PanicRecovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
					slog.Any("panic", recovered),
					slog.String("stack", string(debug.Stack())),
				)

				respond.Error(writer, request, apperr.Internal(fmt.Errorf("panic: %v", recovered)))
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig defines the behavior needed by the CORS middleware.
type AppConfig interface {
	IsDevelopment() bool
	AllowedOrigins() []string
}

const (
	corsAllowMethods  = "GET, POST, OPTIONS"
	corsAllowHeaders  = "Accept, Content-Type, Authorization, X-Request-ID"
	corsExposeHeaders = "X-Request-ID"
	corsMaxAge        = "300"
)

// originAllowed accepts https://hushnote.app, any https subdomain of it and the
// configured extras. Development accepts every origin.
func originAllowed(cfg AppConfig, origin string) bool {
	if cfg.IsDevelopment() || slices.Contains(cfg.AllowedOrigins(), origin) {
		return true
	}

	host, ok := strings.CutPrefix(origin, "https://")
	if !ok {
		return false
	}
	return host == constants.AppDomain || strings.HasSuffix(host, "."+constants.AppDomain)
}

// CORS answers preflights and decorates cross-origin responses. The session
// cookie travels cross-origin, so credentials are allowed and the origin is
// always echoed rather than "*".
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			header := writer.Header()
			header.Add("Vary", constants.HeaderOrigin)

			if originAllowed(cfg, origin) {
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Expose-Headers", corsExposeHeaders)

				if request.Method == http.MethodOptions {
					header.Set("Access-Control-Allow-Methods", corsAllowMethods)
					header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
					header.Set("Access-Control-Max-Age", corsMaxAge)
				}
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Middleware Helpers

// RealIP returns the client address: X-Real-IP, then the first X-Forwarded-For
// hop, then the connection's remote host.
func RealIP(request *http.Request) string {
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
