// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # Directory Access

// Directory defines the read contract of the external user directory.
type Directory interface {

	/*
		FindByEmailOrUsername returns the record whose email OR username equals
		identifier exactly. No trimming or case folding is applied.

		Parameters:
		  - context: context.Context
		  - identifier: string

		Returns:
		  - *Identity: Hydrated record, including the password hash
		  - error: ErrUserNotFound when no record matches, or retrieval failures
	*/
	FindByEmailOrUsername(context context.Context, identifier string) (*Identity, error)
}

// # Attempt Throttling

// LoginThrottle tracks failed sign-in attempts per identifier.
type LoginThrottle interface {

	/*
		Check reports how long the identifier must wait before trying again.

		Parameters:
		  - context: context.Context
		  - identifier: string

		Returns:
		  - time.Duration: Zero when an attempt is allowed
		  - error: Storage failures
	*/
	Check(context context.Context, identifier string) (time.Duration, error)

	/*
		RecordFailure counts a rejected attempt for the identifier.

		Parameters:
		  - context: context.Context
		  - identifier: string

		Returns:
		  - error: Storage failures
	*/
	RecordFailure(context context.Context, identifier string) error

	/*
		Reset clears the failure counter after a successful sign-in.

		Parameters:
		  - context: context.Context
		  - identifier: string

		Returns:
		  - error: Storage failures
	*/
	Reset(context context.Context, identifier string) error
}
