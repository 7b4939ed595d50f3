package postgres

//nolint:revive
import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"meetingbook/config"
)

const (
	maxIdleConns = 10
	maxOpenConns = 10
)

// Connection keeps separate pools for reads and writes; both may point at the same server.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres
	wait := time.Duration(pg.RetryWaitTime) * time.Second

	return &Connection{
		Read:  connect("read", DSN(cfg, pg.Read), pg.MaxRetry, wait),
		Write: connect("write", DSN(cfg, pg.Write), pg.MaxRetry, wait),
	}
}

// DSN renders a lib/pq connection URL for node. The configured prefix is prepended
// to the database name, and a node timezone becomes the session TimeZone.
func DSN(cfg *config.Config, node config.PostgresNode) string {
	query := url.Values{}
	if node.SSLMode != "" {
		query.Set("sslmode", node.SSLMode)
	}

	if node.Timezone != "" {
		query.Set("timezone", node.Timezone)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(node.Username, node.Password),
		Host:     net.JoinHostPort(node.Host, node.Port),
		Path:     "/" + cfg.DB.Postgres.Prefix + node.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// WithTransaction runs fn inside a write transaction, committing on success and rolling back otherwise.
func (c *Connection) WithTransaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := c.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("failed to roll back transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// connect retries until the server answers, and exits the process when it never does.
func connect(name, dsn string, attempts int, wait time.Duration) *sqlx.DB {
	for attempt := 1; attempt <= max(attempts, 1); attempt++ {
		db, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxIdleConns(maxIdleConns)
			db.SetMaxOpenConns(maxOpenConns)
			log.Info().Str("pool", name).Msg("connected to postgres")

			return db
		}

		log.Error().Err(err).Str("pool", name).Int("attempt", attempt).Msg("postgres not reachable, retrying")
		time.Sleep(wait)
	}

	log.Fatal().Str("pool", name).Msg("giving up connecting to postgres")

	return nil
}
