package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	apperrors "github.com/lexatlas/lexatlas/pkg/errors"
)

// RunMigrations applies all pending migrations from migrationsPath
// (a file:// URL) against the database at dbURL.  Nothing pending is not
// an error.
func RunMigrations(dbURL, migrationsPath string) error {
	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeMigrationFailed, "failed to create migrate instance")
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperrors.Wrap(err, apperrors.ErrCodeMigrationFailed, "failed to run migrations")
	}
	return nil
}

// RollbackMigrations rolls the schema back by the given number of steps.
func RollbackMigrations(dbURL, migrationsPath string, steps int) error {
	if steps <= 0 {
		return apperrors.InvalidParam(fmt.Sprintf("steps must be greater than 0, got %d", steps))
	}

	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeMigrationFailed, "failed to create migrate instance")
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return apperrors.New(apperrors.ErrCodeMigrationFailed, "no migrations to roll back")
		}
		return apperrors.Wrap(err, apperrors.ErrCodeMigrationFailed, fmt.Sprintf("failed to rollback %d step(s)", steps))
	}
	return nil
}

// MigrationStatus reports the current schema version and whether a failed
// migration left it dirty.
func MigrationStatus(dbURL, migrationsPath string) (version uint, dirty bool, err error) {
	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return 0, false, apperrors.Wrap(err, apperrors.ErrCodeMigrationFailed, "failed to create migrate instance")
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, apperrors.Wrap(err, apperrors.ErrCodeMigrationFailed, "failed to get migration version")
	}
	return version, dirty, nil
}
