// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements member sign-in for Hushnote.

It defines the identity record read from the user directory, the claim set
embedded in the signed session token, and the session object handed to pages.

# Architecture

  - Authenticator: verifies credentials against the directory (one read, no writes).
  - Projector: [EmbedIntoToken] and [ProjectIntoSession] keep token and session in sync.
  - Service: composes both at the HTTP boundary (sign-in, session, sign-out).
*/
package auth

import "time"

// # Domain Entities

// Identity is a member record as stored by the user directory.
//
// It is read-only from the sign-in flow's perspective.
type Identity struct {
	ID                  string    `json:"id"`
	Email               string    `json:"email"`
	Username            string    `json:"username"`
	PasswordHash        string    `json:"-"` // Never serialised to clients.
	IsVerified          bool      `json:"isVerified"`
	IsAcceptingMessages bool      `json:"isAcceptingMessages"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// ClaimSet is the subset of an [Identity] that is safe to embed in a signed token.
//
// Adding a field here requires adding it to both [EmbedIntoToken] and
// [ProjectIntoSession], and to [SessionUser].
type ClaimSet struct {
	ID                  string `json:"_id"`
	IsVerified          bool   `json:"isVerified"`
	IsAcceptingMessages bool   `json:"isAcceptingMessages"`
	Username            string `json:"username"`
}

// NewClaimSet projects an identity into its token-safe claims.
func NewClaimSet(identity *Identity) *ClaimSet {
	return &ClaimSet{
		ID:                  identity.ID,
		IsVerified:          identity.IsVerified,
		IsAcceptingMessages: identity.IsAcceptingMessages,
		Username:            identity.Username,
	}
}

// SessionUser is the member view exposed to page handlers.
type SessionUser struct {
	ID                  string `json:"_id,omitempty"`
	IsVerified          bool   `json:"isVerified"`
	IsAcceptingMessages bool   `json:"isAcceptingMessages"`
	Username            string `json:"username,omitempty"`
}

// Session is rebuilt from the session token on every request and never persisted.
type Session struct {
	User    SessionUser `json:"user"`
	Expires time.Time   `json:"expires"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldIdentifier  = "identifier"
	FieldPassword    = "password"
	FieldCallbackURL = "callbackUrl"
	FieldURL         = "url"
	FieldError       = "error"
)
