package postgres

//nolint:revive
import (
	"errors"
	"net"
	"net/url"
	"pms/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	driverName                = "postgres"
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

// Connection splits reads and writes so replicas can serve availability searches and reports.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint describes a single Postgres server.
type Endpoint struct {
	Name     string
	Host     string
	Port     string
	Username string
	Password string
	Database string
	SSLMode  string
	Timezone string
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	write := Endpoint{
		Name:     "write",
		Host:     pg.Write.Host,
		Port:     pg.Write.Port,
		Username: pg.Write.Username,
		Password: pg.Write.Password,
		Database: databaseName(pg.Prefix, pg.Write.Name),
		SSLMode:  pg.Write.SSLMode,
		Timezone: pg.Write.Timezone,
	}

	read := Endpoint{
		Name:     "read",
		Host:     pg.Read.Host,
		Port:     pg.Read.Port,
		Username: pg.Read.Username,
		Password: pg.Read.Password,
		Database: databaseName(pg.Prefix, pg.Read.Name),
		SSLMode:  pg.Read.SSLMode,
		Timezone: pg.Read.Timezone,
	}

	return &Connection{
		Read:  Connect(read, pg.MaxRetry, pg.RetryWaitTime),
		Write: Connect(write, pg.MaxRetry, pg.RetryWaitTime),
	}
}

// Close releases both pools. A shared pool is only closed once.
func (c *Connection) Close() error {
	if c == nil {
		return nil
	}

	var errs []error

	if c.Write != nil {
		errs = append(errs, c.Write.Close())
	}

	if c.Read != nil && c.Read != c.Write {
		errs = append(errs, c.Read.Close())
	}

	return errors.Join(errs...)
}

func databaseName(prefix, name string) string {
	return prefix + name
}

// DSN renders the endpoint as a lib/pq connection URL.
func (e Endpoint) DSN() string {
	query := url.Values{}

	sslMode := e.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	query.Set("sslmode", sslMode)

	if e.Timezone != "" {
		query.Set("timezone", e.Timezone)
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     "/" + e.Database,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Connect opens a pool to the endpoint, retrying up to maxRetry times. It returns nil when every attempt fails.
func Connect(endpoint Endpoint, maxRetry, waitTime int) *sqlx.DB {
	logger := log.With().
		Str("name", endpoint.Name).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("dbName", endpoint.Database).
		Logger()

	for retry := range maxRetry {
		db, err := sqlx.Connect(driverName, endpoint.DSN())
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxLifetime(postgresConnMaxLifetime)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", retry+1).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	logger.Error().Int("attempts", maxRetry).Msg("Giving up connecting to database")

	return nil
}
