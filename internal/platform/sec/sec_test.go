// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/hushnote/internal/platform/sec"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	testIssuer = "hushnote.test"
)

func newTokenService(t *testing.T, secret string) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService(secret, testIssuer)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_RoundTrip verifies that application claims survive signing.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTokenService(t, testSecret)

	claims := &sec.SessionClaims{
		UserID:              "user-1",
		IsVerified:          true,
		IsAcceptingMessages: true,
		Username:            "tai",
	}

	signed, err := service.Sign(claims, time.Hour)
	require.NoError(t, err)

	verified, err := service.VerifyToken(signed)
	require.NoError(t, err)

	assert.Equal(t, "user-1", verified.UserID)
	assert.Equal(t, "user-1", verified.Subject)
	assert.True(t, verified.IsVerified)
	assert.True(t, verified.IsAcceptingMessages)
	assert.Equal(t, "tai", verified.Username)
	assert.Equal(t, testIssuer, verified.Issuer)
	assert.NotEmpty(t, verified.ID)
	assert.NotNil(t, verified.ExpiresAt)
	assert.NotNil(t, verified.IssuedAt)
}

/*
TestTokenService_Rejects covers tokens that must never verify.
*/
func TestTokenService_Rejects(t *testing.T) {
	service := newTokenService(t, testSecret)

	valid, err := service.Sign(&sec.SessionClaims{UserID: "user-1"}, time.Hour)
	require.NoError(t, err)

	expired, err := service.Sign(&sec.SessionClaims{UserID: "user-1"}, -time.Minute)
	require.NoError(t, err)

	other := newTokenService(t, "ffffffffffffffffffffffffffffffff")
	foreign, err := other.Sign(&sec.SessionClaims{UserID: "user-1"}, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong_secret", foreign},
		{"tampered_payload", tampered},
		{"garbage", "not-a-token"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.VerifyToken(tt.token)
			assert.Error(t, err)
		})
	}
}

/*
TestNewTokenService_EmptySecret verifies construction fails without a secret.
*/
func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenService("", testIssuer)
	assert.ErrorIs(t, err, sec.ErrEmptySecret)
}

/*
TestCheckPasswordHash verifies bcrypt comparison in both directions.
*/
func TestCheckPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("correct horse", hash))
	assert.False(t, sec.CheckPasswordHash("wrong horse", hash))
	assert.False(t, sec.CheckPasswordHash("correct horse", "not-a-bcrypt-hash"))
}
