package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"pms/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const defaultMigrationSource = "file://migrations/postgres"

type action func(mig *migrate.Migrate) error

func getDBName(config *config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

// connectionURL targets the write pool; credentials are escaped so passwords may hold URL characters.
func connectionURL(config *config.Config) string {
	write := config.DB.Postgres.Write

	query := url.Values{}
	query.Set("sslmode", write.SSLMode)

	if config.DB.Postgres.MigrationTable != "" {
		query.Set("x-migrations-table", config.DB.Postgres.MigrationTable)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(write.Username, write.Password),
		Host:     net.JoinHostPort(write.Host, write.Port),
		Path:     "/" + getDBName(config, write.Name),
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func migrationSource(config *config.Config) string {
	if config.DB.Postgres.MigrationPath != "" {
		return config.DB.Postgres.MigrationPath
	}

	return defaultMigrationSource
}

func run(config *config.Config, name string, fn action) error {
	mig, err := migrate.New(migrationSource(config), connectionURL(config))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer mig.Close()

	if err := fn(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migration %s: %w", name, err)
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().Str("action", name).Uint("version", version).Bool("dirty", dirty).Msg("Database migration completed")

	return nil
}

func Up(config *config.Config) error {
	return run(config, "up", func(mig *migrate.Migrate) error { return mig.Up() })
}

func StepUp(config *config.Config) error {
	return run(config, "step-up", func(mig *migrate.Migrate) error { return mig.Steps(1) })
}

func Down(config *config.Config) error {
	return run(config, "down", func(mig *migrate.Migrate) error { return mig.Steps(-1) })
}

func Drop(config *config.Config) error {
	return run(config, "drop", func(mig *migrate.Migrate) error { return mig.Down() })
}
