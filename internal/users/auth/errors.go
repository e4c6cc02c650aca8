// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "errors"

// # Sign-in Failures

// The message text of these errors is shown to the visitor as-is.
var (
	ErrUserNotFound      = errors.New("No user found with this email")
	ErrNotVerified       = errors.New("Please verify your account before logging in")
	ErrIncorrectPassword = errors.New("Incorrect password")
)

// isCredentialFailure reports whether err is one of the rejections above,
// as opposed to an infrastructure failure.
func isCredentialFailure(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrNotVerified) ||
		errors.Is(err, ErrIncorrectPassword)
}

// failureReason maps a credential failure to a stable label for logs and metrics.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrNotVerified):
		return "not_verified"
	case errors.Is(err, ErrIncorrectPassword):
		return "incorrect_password"
	default:
		return "error"
	}
}
