package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/sirupsen/logrus"
)

// SQLStore keeps the same key-value layout in a single Postgres table,
// for deployments where the hotel state must outlive one machine. Update
// maps to a database transaction with the touched rows locked.
type SQLStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// SQLConfig holds the connection settings for the Postgres backend.
type SQLConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
}

// OpenSQLStore connects to Postgres and ensures the state table exists.
func OpenSQLStore(cfg SQLConfig, logger *logrus.Logger) (*SQLStore, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sqlx.Connect("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)

	s := &SQLStore{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an existing connection. Used by tests.
func NewSQLStore(db *sqlx.DB, logger *logrus.Logger) *SQLStore {
	return &SQLStore{db: db, logger: logger}
}

func (s *SQLStore) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS hotel_state (
			key   TEXT PRIMARY KEY,
			value JSONB NOT NULL
		)`
	if _, err := s.db.Exec(ddl); err != nil {
		return &StorageError{Op: "migrate", Err: err}
	}
	return nil
}

// Get implements Tx.
func (s *SQLStore) Get(key string, dest interface{}) error {
	return getRow(s.db, s.logger, key, dest, "SELECT value FROM hotel_state WHERE key = $1")
}

// Set implements Tx.
func (s *SQLStore) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	const upsert = `
		INSERT INTO hotel_state (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := s.db.Exec(upsert, key, raw); err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

// Update implements Store.
func (s *SQLStore) Update(fn func(tx Tx) error) error {
	dbTx, err := s.db.Beginx()
	if err != nil {
		return &StorageError{Op: "begin", Err: err}
	}

	if err := fn(&sqlTx{tx: dbTx, logger: s.logger}); err != nil {
		dbTx.Rollback()
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return &StorageError{Op: "commit", Err: err}
	}
	return nil
}

// Ping implements Store.
func (s *SQLStore) Ping() error {
	if err := s.db.Ping(); err != nil {
		return &StorageError{Op: "ping", Err: err}
	}
	return nil
}

// Close implements Store.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// sqlTx runs Get/Set against an open transaction. Reads lock the row so
// concurrent transitions over the same collection serialize.
type sqlTx struct {
	tx     *sqlx.Tx
	logger *logrus.Logger
}

func (t *sqlTx) Get(key string, dest interface{}) error {
	return getRow(t.tx, t.logger, key, dest, "SELECT value FROM hotel_state WHERE key = $1 FOR UPDATE")
}

func (t *sqlTx) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	const upsert = `
		INSERT INTO hotel_state (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := t.tx.Exec(upsert, key, raw); err != nil {
		return &StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

type rowQuerier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

func getRow(q rowQuerier, logger *logrus.Logger, key string, dest interface{}, query string) error {
	var raw []byte
	err := q.QueryRow(query, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return &StorageError{Op: "get", Key: key, Err: err}
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logger.WithError(err).WithField("key", key).Warn("Stored value is undeserializable, treating as empty")
	}
	return nil
}
