// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: JWT issuer, session cookie, and page routing targets.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "hushnote-api"
	AppVersion = "0.1.0-dev"

	// AppDomain is the registrable domain whose https origins pass CORS.
	AppDomain = "hushnote.app"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in session tokens.
	AuthIssuer = "hushnote.app"

	// SessionCookieName is the cookie that carries the signed session token.
	SessionCookieName = "hushnote.session-token"

	// SessionCookiePath scopes the session cookie to the whole site so page routes see it.
	SessionCookiePath = "/"

	// CredentialsProviderID identifies the username/password provider.
	CredentialsProviderID = "credentials"

	// AuthBasePath is where the authentication endpoints are mounted.
	AuthBasePath = "/api/auth"
)

// # Page Routing

const (
	// PathHome is the landing page.
	PathHome = "/"

	// PathSignIn is the unauthenticated entry point. Anonymous dashboard visits land here.
	PathSignIn = "/sign-in"

	// PathSignUp is the registration page.
	PathSignUp = "/sign-up"

	// PathVerify is the account verification page prefix.
	PathVerify = "/verify"

	// PathDashboard is where authenticated visitors of public pages are sent.
	PathDashboard = "/dashboard"
)

// GuardedRoutes lists the chi patterns for which the route guard runs.
// A trailing "/*" also matches the bare prefix.
var GuardedRoutes = []string{
	"/dashboard/*",
	"/sign-in",
	"/sign-up",
	"/",
	"/verify/*",
}

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldCode    = "code"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixLoginAttempts = "auth:login_attempts:"
)
