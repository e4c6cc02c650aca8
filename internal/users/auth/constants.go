// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Session Constraints

const (
	// DefaultSessionMaxAge is how long a signed session token stays valid.
	DefaultSessionMaxAge = 30 * 24 * time.Hour

	// MaxCredentialBytes bounds the identifier and password accepted at sign-in.
	// It sits well above bcrypt's 72-byte input so longer passwords are still
	// judged by the hash comparison.
	MaxCredentialBytes = 1024

	// MaxFormMemory caps the in-memory size of a multipart sign-in form.
	MaxFormMemory = 32 << 10
)
