// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/hushnote/internal/platform/sec"
	"github.com/taibuivan/hushnote/internal/users/auth"
)

const testPassword = "correct horse battery"

// memoryDirectory is an in-memory [auth.Directory] that counts lookups.
type memoryDirectory struct {
	mu      sync.Mutex
	records []*auth.Identity
	reads   int
	err     error
}

func (directory *memoryDirectory) FindByEmailOrUsername(_ context.Context, identifier string) (*auth.Identity, error) {
	directory.mu.Lock()
	defer directory.mu.Unlock()

	directory.reads++
	if directory.err != nil {
		return nil, directory.err
	}

	for _, record := range directory.records {
		if record.Email == identifier || record.Username == identifier {
			copied := *record
			return &copied, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

// newDirectory seeds a verified member "tai" and an unverified member "ghost",
// both using testPassword.
func newDirectory(t *testing.T) *memoryDirectory {
	t.Helper()

	hash, err := sec.HashPassword(testPassword)
	require.NoError(t, err)

	return &memoryDirectory{records: []*auth.Identity{
		{
			ID:                  "665f1c2e9b1d4a0012345678",
			Email:               "tai@hushnote.app",
			Username:            "tai",
			PasswordHash:        hash,
			IsVerified:          true,
			IsAcceptingMessages: true,
		},
		{
			ID:           "665f1c2e9b1d4a0087654321",
			Email:        "ghost@hushnote.app",
			Username:     "ghost",
			PasswordHash: hash,
			IsVerified:   false,
		},
	}}
}
