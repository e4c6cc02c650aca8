// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/taibuivan/hushnote/internal/platform/dberr"
)

// # Mongo Directory

// MongoUsersCollection is the collection holding member documents.
const MongoUsersCollection = "users"

// userDocument mirrors the stored member document.
type userDocument struct {
	ID                  bson.ObjectID `bson:"_id"`
	Email               string        `bson:"email"`
	Username            string        `bson:"username"`
	Password            string        `bson:"password"`
	IsVerified          bool          `bson:"isVerified"`
	IsAcceptingMessages bool          `bson:"isAcceptingMessages"`
	CreatedAt           time.Time     `bson:"createdAt"`
	UpdatedAt           time.Time     `bson:"updatedAt"`
}

// toIdentity converts the stored document, rendering the ObjectID as hex.
func (document *userDocument) toIdentity() *Identity {
	return &Identity{
		ID:                  document.ID.Hex(),
		Email:               document.Email,
		Username:            document.Username,
		PasswordHash:        document.Password,
		IsVerified:          document.IsVerified,
		IsAcceptingMessages: document.IsAcceptingMessages,
		CreatedAt:           document.CreatedAt,
		UpdatedAt:           document.UpdatedAt,
	}
}

// MongoDirectory implements [Directory] on a MongoDB collection.
type MongoDirectory struct {
	collection *mongo.Collection
}

// NewMongoDirectory creates a Directory reading from database.users.
func NewMongoDirectory(database *mongo.Database) *MongoDirectory {
	return &MongoDirectory{collection: database.Collection(MongoUsersCollection)}
}

/*
FindByEmailOrUsername retrieves the member whose email or username equals identifier.

Parameters:
  - context: context.Context
  - identifier: string

Returns:
  - *Identity: Hydrated member
  - error: ErrUserNotFound or driver errors
*/
func (repository *MongoDirectory) FindByEmailOrUsername(context context.Context, identifier string) (*Identity, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "email", Value: identifier}},
		bson.D{{Key: "username", Value: identifier}},
	}}}

	var document userDocument
	if err := repository.collection.FindOne(context, filter).Decode(&document); err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("mongo_directory_find_failed: %w", err)
	}

	return document.toIdentity(), nil
}
