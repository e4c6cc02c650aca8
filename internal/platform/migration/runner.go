// Copyright (c) 2026 Hushnote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the SQL files under data/migrations with
// golang-migrate before the postgres directory starts serving sign-ins.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "pgx5" database driver.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// Registers the "file" source driver.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// pgx5Scheme is the URL scheme golang-migrate's pgx/v5 driver registers under.
const pgx5Scheme = "pgx5://"

// databaseURL rewrites a postgres:// or postgresql:// URL to the pgx5 scheme.
// Anything else is returned untouched and left for golang-migrate to reject.
func databaseURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return pgx5Scheme + rest
		}
	}
	return dsn
}

// version reads the applied version, treating a fresh database as version 0.
func version(migrator *migrate.Migrate) (uint, bool, error) {
	current, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return current, dirty, err
}

/*
RunUp brings the users.account schema up to the latest migration.

Description: Refuses to touch a dirty database. Being already up to date is
not an error.

Parameters:
  - dsn: postgres:// URL, the same value the connection pool uses
  - migrationsPath: directory holding the NNNNNN_name.up.sql files
  - logger: *slog.Logger

Returns:
  - error: migration_* failures
*/
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	migrator, err := migrate.New("file://"+migrationsPath, databaseURL(dsn))
	if err != nil {
		return fmt.Errorf("migration_init_failed: %w", err)
	}
	defer func() {
		sourceErr, databaseErr := migrator.Close()
		if closeErr := errors.Join(sourceErr, databaseErr); closeErr != nil {
			logger.Warn("migration_close_failed", slog.Any("error", closeErr))
		}
	}()

	migrator.Log = slogBridge{logger: logger}

	from, dirty, err := version(migrator)
	if err != nil {
		return fmt.Errorf("migration_version_failed: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration_dirty_state: version %d needs manual repair", from)
	}

	switch err := migrator.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
		return nil
	case err != nil:
		return fmt.Errorf("migration_up_failed: %w", err)
	}

	to, _, _ := version(migrator)
	logger.Info("migration_applied",
		slog.Uint64("from_version", uint64(from)),
		slog.Uint64("to_version", uint64(to)),
	)
	return nil
}

// slogBridge forwards golang-migrate's printf logging to slog at debug level.
type slogBridge struct {
	logger *slog.Logger
}

func (bridge slogBridge) Printf(format string, args ...any) {
	bridge.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (bridge slogBridge) Verbose() bool {
	return false
}
