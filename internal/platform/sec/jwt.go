// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and session token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces (token signer, token verifier).
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/hushnote/pkg/uuid"
)

// SessionClaims is the payload carried by the signed session token.
//
// # Why custom claims?
//
// Every field a page needs about the signed-in member is embedded here so that
// the session can be rebuilt on each request without a directory lookup.
// Nothing secret (password hash, tokens) is ever written into it.
type SessionClaims struct {
	jwt.RegisteredClaims

	UserID              string `json:"_id,omitempty"`
	IsVerified          bool   `json:"isVerified,omitempty"`
	IsAcceptingMessages bool   `json:"isAcceptingMessages,omitempty"`
	Username            string `json:"username,omitempty"`
}

// ErrEmptySecret is returned when a [TokenService] is built without a signing secret.
var ErrEmptySecret = errors.New("auth: session signing secret is empty")

// TokenService signs and verifies session tokens using HS256.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenService creates a new TokenService from the shared signing secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Sign stamps the registered claims (issuer, subject, iat, exp, jti) on claims
// and returns the signed token string. Application claim fields are left as-is.
func (service *TokenService) Sign(claims *SessionClaims, timeToLive time.Duration) (string, error) {
	currentTime := service.now()

	claims.Issuer = service.issuer
	claims.Subject = claims.UserID
	claims.IssuedAt = jwt.NewNumericDate(currentTime)
	claims.ExpiresAt = jwt.NewNumericDate(currentTime.Add(timeToLive))
	claims.ID = uuid.New()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("auth: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a session token string.
func (service *TokenService) VerifyToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	},
		jwt.WithIssuer(service.issuer),
		jwt.WithTimeFunc(service.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	if err != nil {
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	return claims, nil
}
