// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/hushnote/internal/platform/constants"
	"github.com/taibuivan/hushnote/internal/platform/ctxutil"
)

// # Route Guard

// GuardAction is the outcome of a route guard evaluation.
type GuardAction string

const (
	// GuardAllow lets the request through unchanged.
	GuardAllow GuardAction = "allow"

	// GuardRedirect sends the visitor to [Decision.Location].
	GuardRedirect GuardAction = "redirect"
)

// Decision is the result of [Decide].
type Decision struct {
	Action   GuardAction
	Location string
}

// Decide evaluates the page access rules for a single request. The first matching rule wins:
//
//   - signed in, on /sign-in*, /sign-up*, /verify* or exactly / : redirect to /dashboard
//   - anonymous, on /dashboard* : redirect to /sign-in
//   - anything else : allow
//
// Prefix checks are plain string prefixes, so /sign-in-help is treated like /sign-in.
func Decide(authenticated bool, requestPath string) Decision {
	if authenticated && (strings.HasPrefix(requestPath, constants.PathSignIn) ||
		strings.HasPrefix(requestPath, constants.PathSignUp) ||
		strings.HasPrefix(requestPath, constants.PathVerify) ||
		requestPath == constants.PathHome) {
		return Decision{Action: GuardRedirect, Location: constants.PathDashboard}
	}

	if !authenticated && strings.HasPrefix(requestPath, constants.PathDashboard) {
		return Decision{Action: GuardRedirect, Location: constants.PathSignIn}
	}

	return Decision{Action: GuardAllow}
}

// RouteMatcher reports whether a path is covered by the guard.
//
// Patterns use chi syntax. A pattern ending in "/*" also matches its bare
// prefix, so "/dashboard/*" covers "/dashboard" and "/dashboard/a/b".
type RouteMatcher struct {
	mux *chi.Mux
}

// NewRouteMatcher builds a matcher from chi route patterns.
func NewRouteMatcher(patterns []string) *RouteMatcher {
	mux := chi.NewRouter()
	noop := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	registered := make(map[string]bool, len(patterns)*2)
	register := func(pattern string) {
		if pattern == "" || registered[pattern] {
			return
		}
		registered[pattern] = true
		mux.Handle(pattern, noop)
	}

	for _, pattern := range patterns {
		register(pattern)
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
			register(prefix)
		}
	}

	return &RouteMatcher{mux: mux}
}

// Match reports whether path is one of the guarded routes.
func (matcher *RouteMatcher) Match(requestPath string) bool {
	return matcher.mux.Match(chi.NewRouteContext(), http.MethodGet, requestPath)
}

// guardPath normalises the request path the same way the router does, so
// "//dashboard" and "/sign-in/" are judged as "/dashboard" and "/sign-in".
func guardPath(request *http.Request) string {
	return path.Clean("/" + request.URL.Path)
}

// RouteGuard redirects page requests according to [Decide].
//
// # Usage
//
// Must be registered AFTER [Authenticate]; a request counts as signed in when
// session claims are present in its context. Paths outside matcher bypass the
// guard entirely. Both matching and [Decide] see the cleaned path. metrics may be nil.
func RouteGuard(matcher *RouteMatcher, metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestPath := guardPath(request)

			if !matcher.Match(requestPath) {
				next.ServeHTTP(writer, request)
				return
			}

			authenticated := ctxutil.GetAuthUser(request.Context()) != nil
			decision := Decide(authenticated, requestPath)
			metrics.observeGuard(decision.Action)

			if decision.Action == GuardRedirect {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "route_guard_redirect",
					slog.String("from", requestPath),
					slog.String("to", decision.Location),
					slog.Bool("authenticated", authenticated),
				)
				http.Redirect(writer, request, decision.Location, http.StatusTemporaryRedirect)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
