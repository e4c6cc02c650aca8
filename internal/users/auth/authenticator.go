// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/hushnote/internal/platform/sec"
)

// # Credential Verification

// PasswordComparer checks a plain-text password against a stored hash in constant time.
type PasswordComparer func(plainTextPassword, existingHash string) bool

// Authenticator verifies member credentials against the directory.
//
// # Concurrency
//
// Authenticator holds no mutable state and is safe for concurrent use.
type Authenticator struct {
	directory Directory
	compare   PasswordComparer
}

// NewAuthenticator constructs an [Authenticator] backed by bcrypt comparison.
func NewAuthenticator(directory Directory) *Authenticator {
	return &Authenticator{
		directory: directory,
		compare:   sec.CheckPasswordHash,
	}
}

/*
Authenticate resolves identifier to a member and checks the password.

Description: Performs exactly one directory read. The verification gate is
evaluated before the password, so an unverified account is rejected even when
the password is correct.

Parameters:
  - context: context.Context
  - identifier: string (email or username, matched exactly)
  - password: string

Returns:
  - *ClaimSet: Token-safe claims of the member
  - err: ErrUserNotFound, ErrNotVerified, ErrIncorrectPassword or directory failures
*/
func (authenticator *Authenticator) Authenticate(context context.Context, identifier, password string) (*ClaimSet, error) {

	// Single lookup on email OR username
	identity, err := authenticator.directory.FindByEmailOrUsername(context, identifier)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("auth_authenticator_lookup_failed: %w", err)
	}

	// Verification gate precedes the password check
	if !identity.IsVerified {
		return nil, ErrNotVerified
	}

	if !authenticator.compare(password, identity.PasswordHash) {
		return nil, ErrIncorrectPassword
	}

	return NewClaimSet(identity), nil
}
