// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/hushnote/internal/platform/database/schema"
	"github.com/taibuivan/hushnote/internal/platform/dberr"
)

// # Postgres Directory

// findIdentityQuery selects [schema.UserAccountTable.IdentityColumns] for a live
// account whose email or username equals $1. An email match sorts first.
var findIdentityQuery = buildFindIdentityQuery(schema.UserAccount)

func buildFindIdentityQuery(table schema.UserAccountTable) string {
	return fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE (%s = $1 OR %s = $1) AND %s IS NULL
		ORDER BY (%s = $1) DESC
		LIMIT 1`,
		strings.Join(table.IdentityColumns(), ", "),
		table.Table,
		table.Email, table.Username, table.DeletedAt,
		table.Email,
	)
}

// PostgresDirectory implements [Directory] on the users.account table using pgx.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

// NewPostgresDirectory creates a new PostgreSQL implementation of the Directory.
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

/*
FindByEmailOrUsername retrieves the account whose email or username equals identifier.

Description: Exact, case-sensitive comparison on both columns, filtering out
soft-deleted accounts. Email and username are unique, so at most one row is
expected; the ordering only makes the result deterministic if a username ever
collides with another account's email.

Parameters:
  - context: context.Context
  - identifier: string

Returns:
  - *Identity: Hydrated account entity
  - error: ErrUserNotFound or database errors
*/
func (repository *PostgresDirectory) FindByEmailOrUsername(context context.Context, identifier string) (*Identity, error) {
	identity := &Identity{}
	err := repository.pool.QueryRow(context, findIdentityQuery, identifier).Scan(
		&identity.ID,
		&identity.Email,
		&identity.Username,
		&identity.PasswordHash,
		&identity.IsVerified,
		&identity.IsAcceptingMessages,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)

	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres_directory_find_failed: %w", err)
	}

	return identity, nil
}
