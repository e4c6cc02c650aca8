// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

/*
TestUserDocument_Decode verifies the stored member document maps onto an Identity.
*/
func TestUserDocument_Decode(t *testing.T) {
	objectID, err := bson.ObjectIDFromHex("665f1c2e9b1d4a0012345678")
	require.NoError(t, err)
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	raw, err := bson.Marshal(bson.M{
		"_id":                 objectID,
		"email":               "tai@hushnote.app",
		"username":            "tai",
		"password":            "$2a$10$hash",
		"isVerified":          true,
		"isAcceptingMessages": false,
		"createdAt":           createdAt,
		"updatedAt":           createdAt,
		"verifyCode":          "123456",
	})
	require.NoError(t, err)

	var document userDocument
	require.NoError(t, bson.Unmarshal(raw, &document))

	identity := document.toIdentity()
	assert.Equal(t, "665f1c2e9b1d4a0012345678", identity.ID)
	assert.Equal(t, "tai@hushnote.app", identity.Email)
	assert.Equal(t, "tai", identity.Username)
	assert.Equal(t, "$2a$10$hash", identity.PasswordHash)
	assert.True(t, identity.IsVerified)
	assert.False(t, identity.IsAcceptingMessages)
	assert.True(t, createdAt.Equal(identity.CreatedAt))
}
