// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/hushnote/internal/platform/apperr"
	"github.com/taibuivan/hushnote/internal/platform/sec"
	"github.com/taibuivan/hushnote/internal/users/auth"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	testIssuer = "hushnote.test"
)

func newTokenService(t *testing.T) *sec.TokenService {
	t.Helper()
	tokens, err := sec.NewTokenService(testSecret, testIssuer)
	require.NoError(t, err)
	return tokens
}

// failingSigner always fails to sign.
type failingSigner struct{}

func (failingSigner) Sign(*sec.SessionClaims, time.Duration) (string, error) {
	return "", errors.New("hsm offline")
}

/*
TestService_SignIn_Success verifies a signed token carries the member claims.
*/
func TestService_SignIn_Success(t *testing.T) {
	tokens := newTokenService(t)
	service := auth.NewService(auth.NewAuthenticator(newDirectory(t)), tokens, nil, nil, auth.SessionConfig{MaxAge: time.Hour})

	signed, err := service.SignIn(context.Background(), auth.SignInInput{Identifier: "tai@hushnote.app", Password: testPassword})
	require.NoError(t, err)

	claims, err := tokens.VerifyToken(signed.Token)
	require.NoError(t, err)
	assert.Equal(t, "665f1c2e9b1d4a0012345678", claims.UserID)
	assert.Equal(t, "tai", claims.Username)
	assert.True(t, claims.IsVerified)
	assert.True(t, claims.IsAcceptingMessages)

	assert.Equal(t, "tai", signed.Session.User.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), signed.ExpiresAt, 5*time.Second)
	assert.Equal(t, signed.ExpiresAt, signed.Session.Expires)
}

/*
TestService_SignIn_Collapses verifies every rejection becomes the same Unauthorized shape.
*/
func TestService_SignIn_Collapses(t *testing.T) {
	service := auth.NewService(auth.NewAuthenticator(newDirectory(t)), newTokenService(t), nil, nil, auth.SessionConfig{})

	tests := []struct {
		name        string
		identifier  string
		password    string
		wantMessage string
	}{
		{"user_not_found", "nobody", testPassword, "No user found with this email"},
		{"not_verified", "ghost", testPassword, "Please verify your account before logging in"},
		{"incorrect_password", "tai", "nope", "Incorrect password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := service.SignIn(context.Background(), auth.SignInInput{Identifier: tt.identifier, Password: tt.password})
			assert.Nil(t, signed)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "UNAUTHORIZED", appError.Code)
			assert.Equal(t, http.StatusUnauthorized, appError.HTTPStatus)
			assert.Equal(t, tt.wantMessage, appError.Message)

			// Only the message survives the boundary.
			assert.Nil(t, appError.Cause)
			assert.False(t, errors.Is(err, auth.ErrUserNotFound))
		})
	}
}

/*
TestService_SignIn_Errors verifies infrastructure failures are not reported as rejections.
*/
func TestService_SignIn_Errors(t *testing.T) {
	t.Run("directory_outage", func(t *testing.T) {
		directory := &memoryDirectory{err: errors.New("connection refused")}
		service := auth.NewService(auth.NewAuthenticator(directory), newTokenService(t), nil, nil, auth.SessionConfig{})

		_, err := service.SignIn(context.Background(), auth.SignInInput{Identifier: "tai", Password: testPassword})
		require.Error(t, err)
		assert.Nil(t, apperr.As(err))
	})

	t.Run("signing_failure", func(t *testing.T) {
		service := auth.NewService(auth.NewAuthenticator(newDirectory(t)), failingSigner{}, nil, nil, auth.SessionConfig{})

		_, err := service.SignIn(context.Background(), auth.SignInInput{Identifier: "tai", Password: testPassword})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "hsm offline")
	})
}

/*
TestService_SignIn_Throttle verifies failed attempts are counted and eventually refused.
*/
func TestService_SignIn_Throttle(t *testing.T) {
	throttle, _ := newThrottle(t, 2, time.Minute)
	directory := newDirectory(t)
	registry := prometheus.NewRegistry()
	service := auth.NewService(auth.NewAuthenticator(directory), newTokenService(t), throttle, auth.NewMetrics(registry), auth.SessionConfig{})

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := service.SignIn(ctx, auth.SignInInput{Identifier: "tai", Password: "nope"})
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	}

	readsBefore := directory.reads
	_, err := service.SignIn(ctx, auth.SignInInput{Identifier: "tai", Password: testPassword})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "RATE_LIMITED", appError.Code)
	assert.Equal(t, readsBefore, directory.reads)

	count, err := testutil.GatherAndCount(registry, "hushnote_auth_signin_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count) // incorrect_password + throttled
}

/*
TestService_SignIn_ResetsThrottle verifies success clears earlier failures.
*/
func TestService_SignIn_ResetsThrottle(t *testing.T) {
	throttle, server := newThrottle(t, 5, time.Minute)
	service := auth.NewService(auth.NewAuthenticator(newDirectory(t)), newTokenService(t), throttle, nil, auth.SessionConfig{})

	ctx := context.Background()
	_, _ = service.SignIn(ctx, auth.SignInInput{Identifier: "tai", Password: "nope"})
	assert.True(t, server.Exists("auth:login_attempts:tai"))

	_, err := service.SignIn(ctx, auth.SignInInput{Identifier: "tai", Password: testPassword})
	require.NoError(t, err)
	assert.False(t, server.Exists("auth:login_attempts:tai"))
}

/*
TestService_Resume verifies session projection and token re-issue.
*/
func TestService_Resume(t *testing.T) {
	tokens := newTokenService(t)
	service := auth.NewService(auth.NewAuthenticator(newDirectory(t)), tokens, nil, nil, auth.SessionConfig{
		MaxAge:    time.Hour,
		UpdateAge: 10 * time.Minute,
	})
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		session, reissued, err := service.Resume(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, session)
		assert.Nil(t, reissued)
	})

	t.Run("fresh_token", func(t *testing.T) {
		token := &sec.SessionClaims{UserID: "u1", Username: "tai", IsVerified: true}
		_, err := tokens.Sign(token, time.Hour)
		require.NoError(t, err)

		session, reissued, err := service.Resume(ctx, token)
		require.NoError(t, err)
		assert.Nil(t, reissued)
		assert.Equal(t, "tai", session.User.Username)
		assert.True(t, session.User.IsVerified)
	})

	t.Run("stale_token", func(t *testing.T) {
		issuedAt := time.Now().Add(-30 * time.Minute)
		token := &sec.SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(issuedAt),
				ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
			},
			UserID:              "u1",
			Username:            "tai",
			IsAcceptingMessages: true,
		}

		session, reissued, err := service.Resume(ctx, token)
		require.NoError(t, err)
		require.NotNil(t, reissued)

		// Claims are carried over unchanged and the expiry is pushed out.
		claims, err := tokens.VerifyToken(reissued.Token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, "tai", claims.Username)
		assert.True(t, claims.IsAcceptingMessages)
		assert.True(t, session.Expires.After(issuedAt.Add(time.Hour)))

		// The caller's token is left as verified.
		assert.True(t, token.IssuedAt.Time.Equal(jwt.NewNumericDate(issuedAt).Time))
	})
}
