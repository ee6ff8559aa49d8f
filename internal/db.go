package internal

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB is the key catalog database connection.
type DB struct {
	*sqlx.DB
}

const keySchema = `
CREATE TABLE IF NOT EXISTS keys (
	path TEXT NOT NULL,
	fingerprint TEXT NOT NULL,
	key_type TEXT NOT NULL,
	algorithm TEXT NOT NULL,
	format TEXT NOT NULL,
	encoding TEXT NOT NULL,
	bit_length INTEGER NOT NULL DEFAULT 0,
	discovered_at TIMESTAMP NOT NULL,
	PRIMARY KEY (path, fingerprint)
);
CREATE INDEX IF NOT EXISTS idx_keys_fingerprint ON keys(fingerprint);
`

// NewDB opens (and initializes) the catalog at path, or in memory when path
// is empty.
func NewDB(path string) (*DB, error) {
	dsn := path
	if dsn == "" {
		// Pin to a single connection — each :memory: connection is a separate
		// database, so connection pooling must be disabled.
		dsn = "file::memory:"
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	dbObj := &DB{DB: db}
	if _, err := db.Exec(keySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	slog.Debug("key catalog initialized", "path", path)
	return dbObj, nil
}

// InsertKey upserts a key record, keyed by (path, fingerprint) so rescans
// stay idempotent.
func (db *DB) InsertKey(rec KeyRecord) error {
	_, err := db.NamedExec(`
		INSERT OR REPLACE INTO keys
		(path, fingerprint, key_type, algorithm, format, encoding, bit_length, discovered_at)
		VALUES (:path, :fingerprint, :key_type, :algorithm, :format, :encoding, :bit_length, :discovered_at)`,
		rec)
	if err != nil {
		return fmt.Errorf("inserting key record: %w", err)
	}
	return nil
}

// GetAllKeys returns all cataloged key records ordered by path.
func (db *DB) GetAllKeys() ([]KeyRecord, error) {
	var keys []KeyRecord
	if err := db.Select(&keys, "SELECT * FROM keys ORDER BY path"); err != nil {
		return nil, fmt.Errorf("getting all keys: %w", err)
	}
	return keys, nil
}

// GetKeysByFingerprint returns every record sharing a fingerprint, which
// surfaces the same key stored under multiple paths or formats.
func (db *DB) GetKeysByFingerprint(fingerprint string) ([]KeyRecord, error) {
	var keys []KeyRecord
	if err := db.Select(&keys, "SELECT * FROM keys WHERE fingerprint = ? ORDER BY path", fingerprint); err != nil {
		return nil, fmt.Errorf("getting keys by fingerprint: %w", err)
	}
	return keys, nil
}
