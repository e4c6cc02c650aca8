// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "github.com/taibuivan/hushnote/internal/platform/sec"

// # Claims Projection
//
// Both functions below copy the same four fields. A field added to one must be
// added to the other in the same change.

// EmbedIntoToken writes claims into token. When claims is nil (any request
// other than a fresh sign-in) the token is returned untouched and keeps the
// fields embedded when it was first signed.
func EmbedIntoToken(token *sec.SessionClaims, claims *ClaimSet) *sec.SessionClaims {
	if claims == nil {
		return token
	}

	token.UserID = claims.ID
	token.IsVerified = claims.IsVerified
	token.IsAcceptingMessages = claims.IsAcceptingMessages
	token.Username = claims.Username

	return token
}

// ProjectIntoSession copies the token claims into the session user. A nil token
// leaves the session unmodified.
func ProjectIntoSession(session *Session, token *sec.SessionClaims) *Session {
	if token == nil {
		return session
	}

	session.User.ID = token.UserID
	session.User.IsVerified = token.IsVerified
	session.User.IsAcceptingMessages = token.IsAcceptingMessages
	session.User.Username = token.Username

	if token.ExpiresAt != nil {
		session.Expires = token.ExpiresAt.Time
	}

	return session
}
