// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds table and column names shared by the SQL stores and migrations.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table               string
	ID                  string
	Username            string
	Email               string
	Password            string
	IsVerified          string
	IsAcceptingMessages string
	CreatedAt           string
	UpdatedAt           string
	DeletedAt           string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:               "users.account",
	ID:                  "id",
	Username:            "username",
	Email:               "email",
	Password:            "passwordhash",
	IsVerified:          "isverified",
	IsAcceptingMessages: "isacceptingmessages",
	CreatedAt:           "createdat",
	UpdatedAt:           "updatedat",
	DeletedAt:           "deletedat",
}

// IdentityColumns returns the columns read by the sign-in lookup, in scan order.
func (t UserAccountTable) IdentityColumns() []string {
	return []string{
		t.ID, t.Email, t.Username, t.Password, t.IsVerified,
		t.IsAcceptingMessages, t.CreatedAt, t.UpdatedAt,
	}
}
