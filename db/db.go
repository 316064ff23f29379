package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/usario/creators-services/internal/events"
)

type CRMDB struct {
	DB     *sql.DB
	Events events.Notifier
	Log    *zerolog.Logger
}

// NewCRMDB opens the Postgres connection and checks it is reachable.
func NewCRMDB(connStr string, notifier events.Notifier, log *zerolog.Logger) (*CRMDB, error) {
	if connStr == "" {
		log.Error().Msg("database source is not set")
		return nil, fmt.Errorf("database source is not set")
	}

	// Open the database connection
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open database connection")
		return nil, err
	}

	// Check we are actually connected
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Database connection failed during ping")
		db.Close()
		return nil, err
	}

	if notifier == nil {
		notifier = events.NoopNotifier{}
	}

	return &CRMDB{
		DB:     db,
		Events: notifier,
		Log:    log,
	}, nil
}

func (db *CRMDB) Close() error {
	if err := db.DB.Close(); err != nil {
		return err
	}
	db.Log.Info().Msg("database connection closed")

	db.Events.Close()
	db.Log.Info().Msg("event publisher closed")

	return nil
}

// Ping reports whether the database is reachable.
func (db *CRMDB) Ping(ctx context.Context) error {
	return db.DB.PingContext(ctx)
}

// CommitTransaction commits tx, rolling back if the commit fails.
func (db *CRMDB) CommitTransaction(tx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

// publish sends a change event for a committed write. Failures are logged,
// the write itself already succeeded.
func (db *CRMDB) publish(table, eventType string, record any) {
	if err := db.Events.Notify(events.NewChangeEvent(table, eventType, record)); err != nil {
		db.Log.Warn().Err(err).Str("table", table).Str("type", eventType).Msg("failed to publish change event")
	}
}

func (db *CRMDB) execQuery(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) (sql.Result, error) {
	if db.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", translate(err))
	}
	return res, nil
}
