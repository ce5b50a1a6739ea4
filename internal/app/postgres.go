package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"

	"github.com/adanyl0v/taskflow/internal/config"
	"github.com/adanyl0v/taskflow/internal/migrations"
)

var globalPostgresPool *pgxpool.Pool

func MustConnectPostgres() {
	cfg := config.Global().Postgres

	poolCfg, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		panic(err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	globalPostgresPool, err = pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = globalPostgresPool.Ping(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to ping postgres")
		panic(err)
	}
	globalLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")
}

// MustMigratePostgres applies pending migrations when auto-migration is enabled.
func MustMigratePostgres() {
	if !config.Global().Postgres.AutoMigrate {
		globalLogger.Debug().Msg("auto-migration disabled")
		return
	}

	if err := MigrateUp(); err != nil {
		panic(err)
	}
}

func DisconnectPostgres() {
	globalPostgresPool.Close()
	globalLogger.Info().Msg("disconnected from postgres")
}

func MigrateUp() error {
	return withMigrator(func(m *migrations.Migrator) error {
		if err := m.Up(); err != nil {
			return err
		}
		version, _, err := m.Version()
		if err != nil {
			return err
		}
		globalLogger.Info().
			Uint("version", version).
			Msg("applied migrations")
		return nil
	})
}

func MigrateDown() error {
	return withMigrator(func(m *migrations.Migrator) error {
		if err := m.Down(); err != nil {
			return err
		}
		globalLogger.Info().Msg("rolled back migrations")
		return nil
	})
}

func MigrationVersion() (version uint, dirty bool, err error) {
	err = withMigrator(func(m *migrations.Migrator) error {
		version, dirty, err = m.Version()
		return err
	})
	return version, dirty, err
}

func withMigrator(fn func(m *migrations.Migrator) error) error {
	m, err := migrations.NewMigrator(config.Global().Postgres.URL())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to create migrator")
		return err
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil {
			globalLogger.Warn().
				Err(closeErr).
				Msg("failed to close migrator")
		}
	}()

	if err = fn(m); err != nil {
		globalLogger.Error().
			Err(err).
			Msg("migration failed")
		return oops.Code("MIGRATION_FAILED").Wrap(err)
	}
	return nil
}
