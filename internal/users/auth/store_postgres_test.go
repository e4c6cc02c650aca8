// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/hushnote/internal/platform/database/schema"
)

/*
TestFindIdentityQuery verifies the sign-in lookup query.

It must compare both identifier columns against the same parameter, skip
soft-deleted rows, prefer an email match and return at most one row.
*/
func TestFindIdentityQuery(t *testing.T) {
	query := strings.Join(strings.Fields(findIdentityQuery), " ")

	assert.Equal(t, "SELECT id, email, username, passwordhash, isverified, isacceptingmessages, createdat, updatedat "+
		"FROM users.account "+
		"WHERE (email = $1 OR username = $1) AND deletedat IS NULL "+
		"ORDER BY (email = $1) DESC "+
		"LIMIT 1", query)

	// One parameter only; the identifier is never interpolated
	assert.NotContains(t, query, "$2")
	assert.NotContains(t, strings.ToLower(query), "lower(")
}

/*
TestFindIdentityQuery_ScanOrder verifies the selected columns line up with the Scan targets.
*/
func TestFindIdentityQuery_ScanOrder(t *testing.T) {
	table := schema.UserAccount
	assert.Equal(t, []string{
		table.ID, table.Email, table.Username, table.Password,
		table.IsVerified, table.IsAcceptingMessages, table.CreatedAt, table.UpdatedAt,
	}, table.IdentityColumns())
}

/*
TestAccountMigration_Columns verifies the migration creates exactly the columns the schema names.
*/
func TestAccountMigration_Columns(t *testing.T) {
	raw, err := os.ReadFile("../../../data/migrations/000001_create_users_account.up.sql")
	require.NoError(t, err)
	migration := string(raw)

	table := schema.UserAccount
	start := strings.Index(migration, "CREATE TABLE IF NOT EXISTS "+table.Table)
	require.GreaterOrEqual(t, start, 0)
	body := migration[start:]
	body = body[strings.Index(body, "(")+1 : strings.Index(body, ");")]

	var columns []string
	for _, line := range strings.Split(body, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			columns = append(columns, fields[0])
		}
	}

	assert.ElementsMatch(t, append(table.IdentityColumns(), table.DeletedAt), columns)
}
