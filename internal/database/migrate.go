package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate creates the notes table and its indexes. Running it against an
// up-to-date database is a no-op.
func Migrate(ctx context.Context, cfg Config) error {
	if cfg.URL == "" {
		return &ConfigurationError{Key: "DATABASE_URL"}
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("error loading migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(cfg.URL))
	if err != nil {
		return classifyConnError(err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			zap.S().Warnf("Failed to close migrator: %v %v", srcErr, dbErr)
		}
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			zap.S().Infof("Database schema is up to date")
			return nil
		}
		return fmt.Errorf("error running migrations: %w", err)
	}
	version, dirty, _ := m.Version()
	zap.S().Infof("Database schema migrated to version %d (dirty=%t)", version, dirty)
	return nil
}

// migrateURL rewrites a postgres URL to the scheme of migrate's pgx/v5 driver.
func migrateURL(url string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(url, prefix) {
			return "pgx5://" + strings.TrimPrefix(url, prefix)
		}
	}
	return url
}
