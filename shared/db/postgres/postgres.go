package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dfryer1193/imagehost/shared/db"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

var _ db.Database = (*PostgresDB)(nil)

const (
	defaultMaxAttempts = 30
	defaultRetryDelay  = time.Second
)

// PostgresConfig holds the connection parameters for the metadata store.
type PostgresConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string

	// MaxAttempts and RetryDelay bound the readiness wait in WaitReady.
	// Zero values fall back to 30 attempts at 1s apart.
	MaxAttempts int
	RetryDelay  time.Duration
}

// PostgresDB implements the db.Database interface for PostgreSQL.
type PostgresDB struct {
	cfg *PostgresConfig
	db  *sql.DB
}

// NewPostgresDB creates a new Postgres database instance. Connect must be
// called before the handle is usable.
func NewPostgresDB(cfg *PostgresConfig) *PostgresDB {
	return &PostgresDB{
		cfg: cfg,
	}
}

func (p *PostgresDB) dsn() string {
	return fmt.Sprintf(
		"host=%s port=%s dbname=%s user=%s password=%s sslmode=disable",
		p.cfg.Host, p.cfg.Port, p.cfg.Name, p.cfg.User, p.cfg.Password,
	)
}

// Connect opens the connection pool. It does not verify the database is
// reachable; use WaitReady for that, so a slow-starting database does not
// prevent the process from booting.
func (p *PostgresDB) Connect() error {
	if p.db != nil {
		return fmt.Errorf("database already connected")
	}

	db, err := sql.Open("postgres", p.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	p.db = db
	return nil
}

// WaitReady pings the database until it answers, retrying up to the
// configured attempt count with a fixed delay between attempts. Each failure
// is logged. After exhausting all attempts the last error is returned.
func (p *PostgresDB) WaitReady(ctx context.Context) error {
	if p.db == nil {
		return fmt.Errorf("database not connected")
	}

	maxAttempts := p.cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	delay := p.cfg.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = p.db.PingContext(ctx)
		if lastErr == nil {
			return nil
		}

		log.Warn().
			Err(lastErr).
			Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Msg("Waiting for database to become ready")

		select {
		case <-ctx.Done():
			return fmt.Errorf("gave up waiting for database: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("database not ready after %d attempts: %w", maxAttempts, lastErr)
}

// Migrate runs all pending schema migrations.
func (p *PostgresDB) Migrate() error {
	if p.db == nil {
		return fmt.Errorf("database not connected")
	}
	return runMigrations(p.db)
}

// Close closes the database connection
func (p *PostgresDB) Close() error {
	if p.db == nil {
		return nil
	}

	err := p.db.Close()
	p.db = nil
	return err
}

// DB returns the underlying *sql.DB instance
func (p *PostgresDB) DB() *sql.DB {
	return p.db
}
