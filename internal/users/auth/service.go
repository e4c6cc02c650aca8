// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/taibuivan/hushnote/internal/platform/apperr"
	"github.com/taibuivan/hushnote/internal/platform/ctxutil"
	"github.com/taibuivan/hushnote/internal/platform/sec"
)

// # Contracts & Types

// TokenSigner defines the contract for signing session tokens.
type TokenSigner interface {
	// Sign stamps expiry metadata on claims and returns the signed token string.
	Sign(claims *sec.SessionClaims, timeToLive time.Duration) (string, error)
}

// SessionConfig controls the lifetime of signed sessions.
type SessionConfig struct {
	// MaxAge is how long a freshly signed token stays valid.
	MaxAge time.Duration

	// UpdateAge is the token age after which [Service.Resume] re-issues it.
	// Zero disables re-issuing.
	UpdateAge time.Duration
}

// Service composes the authenticator, the claims projection and the token signer
// at the HTTP boundary.
//
// # Review Process
//
// This service is critical for security. Any changes to the rejection messages
// or to the claims copied into tokens must be reviewed together with [ProjectIntoSession].
type Service struct {
	authenticator *Authenticator
	signer        TokenSigner
	throttle      LoginThrottle
	metrics       *Metrics
	config        SessionConfig
	now           func() time.Time
}

// NewService constructs a new [Service]. throttle and metrics may be nil.
func NewService(
	authenticator *Authenticator,
	signer TokenSigner,
	throttle LoginThrottle,
	metrics *Metrics,
	config SessionConfig,
) *Service {
	if config.MaxAge <= 0 {
		config.MaxAge = DefaultSessionMaxAge
	}

	return &Service{
		authenticator: authenticator,
		signer:        signer,
		throttle:      throttle,
		metrics:       metrics,
		config:        config,
		now:           time.Now,
	}
}

// # Sign-in Flow

// SignInInput defines credentials for an authentication attempt.
type SignInInput struct {
	Identifier string // Email or username
	Password   string
	IPAddress  string
}

// SignedSession is a freshly signed token together with the session it encodes.
type SignedSession struct {
	Token     string
	ExpiresAt time.Time
	Session   *Session
}

/*
SignIn verifies credentials and issues a signed session token.

Description: The three credential rejections are collapsed into a single
Unauthorized error whose message text is the only signal left for callers.
Failed attempts are counted per identifier when a throttle is configured.

Parameters:
  - context: context.Context
  - input: SignInInput

Returns:
  - *SignedSession: Token, expiry and session view
  - err: Unauthorized, RateLimited or internal failures
*/
func (service *Service) SignIn(context context.Context, input SignInInput) (*SignedSession, error) {
	logger := ctxutil.GetLogger(context)

	// Throttle gate, evaluated before the directory is touched
	if service.throttle != nil {
		retryAfter, err := service.throttle.Check(context, input.Identifier)
		if err != nil {
			return nil, fmt.Errorf("auth_service_throttle_check_failed: %w", err)
		}
		if retryAfter > 0 {
			service.metrics.observe("throttled")
			logger.WarnContext(context, "signin_throttled", slog.Duration("retry_after", retryAfter))
			return nil, apperr.RateLimited(int(math.Ceil(retryAfter.Seconds())))
		}
	}

	claims, err := service.authenticator.Authenticate(context, input.Identifier, input.Password)
	if err != nil {
		if !isCredentialFailure(err) {
			service.metrics.observe("error")
			return nil, fmt.Errorf("auth_service_signin_failed: %w", err)
		}

		reason := failureReason(err)
		service.metrics.observe(reason)
		logger.InfoContext(context, "signin_rejected", slog.String("reason", reason))

		if service.throttle != nil {
			if terr := service.throttle.RecordFailure(context, input.Identifier); terr != nil {
				logger.ErrorContext(context, "signin_throttle_record_failed", slog.Any("error", terr))
			}
		}

		// Single opaque channel: message text only, no cause.
		return nil, apperr.Unauthorized(err.Error())
	}

	if service.throttle != nil {
		if terr := service.throttle.Reset(context, input.Identifier); terr != nil {
			logger.ErrorContext(context, "signin_throttle_reset_failed", slog.Any("error", terr))
		}
	}

	token := EmbedIntoToken(&sec.SessionClaims{}, claims)
	signed, err := service.sign(token)
	if err != nil {
		return nil, err
	}

	service.metrics.observe("success")
	logger.InfoContext(context, "signin_succeeded", slog.String("user_id", claims.ID))

	return signed, nil
}

// # Session Access

/*
Resume builds the session view for a request carrying token.

Description: The token passes through [EmbedIntoToken] without a claim set, so
its embedded fields are kept as signed. When the token is older than the
configured update age, a re-signed copy with a fresh expiry is returned as well.

Parameters:
  - context: context.Context
  - token: *sec.SessionClaims (nil for anonymous requests)

Returns:
  - *Session: Session view, nil when token is nil
  - *SignedSession: Re-issued token, nil when no refresh is due
  - err: Signing failures
*/
func (service *Service) Resume(context context.Context, token *sec.SessionClaims) (*Session, *SignedSession, error) {
	if token == nil {
		return nil, nil, nil
	}

	session := ProjectIntoSession(&Session{}, token)

	if !service.refreshDue(token) {
		return session, nil, nil
	}

	// Copy so the verified claims held by the request context are not mutated.
	refreshed := *token
	signed, err := service.sign(EmbedIntoToken(&refreshed, nil))
	if err != nil {
		return nil, nil, err
	}

	ctxutil.GetLogger(context).DebugContext(context, "session_token_reissued", slog.String("user_id", token.UserID))

	return signed.Session, signed, nil
}

// refreshDue reports whether token was issued more than UpdateAge ago.
func (service *Service) refreshDue(token *sec.SessionClaims) bool {
	if service.config.UpdateAge <= 0 || token.IssuedAt == nil {
		return false
	}
	return service.now().Sub(token.IssuedAt.Time) >= service.config.UpdateAge
}

// sign signs token with the configured max age and projects the result.
func (service *Service) sign(token *sec.SessionClaims) (*SignedSession, error) {
	signedToken, err := service.signer.Sign(token, service.config.MaxAge)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_signing_failed: %w", err)
	}

	session := ProjectIntoSession(&Session{}, token)

	return &SignedSession{
		Token:     signedToken,
		ExpiresAt: session.Expires,
		Session:   session,
	}, nil
}
