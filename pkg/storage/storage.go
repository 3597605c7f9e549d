package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const magicValue = "licsum"

// DB wraps the project SQLite database. One database holds one project's
// categories, expression bindings, conversions and scans.
type DB struct {
	store
	sql *sql.DB
}

// Tx is a transaction-scoped view of the database. It exposes the same
// read/write surface as DB, which is what gives scan imports their
// all-or-nothing behavior.
type Tx struct {
	store
	tx   *sql.Tx
	done bool
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS config (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS categories (
  id   INTEGER PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS bindings (
  id          INTEGER PRIMARY KEY,
  expression  TEXT NOT NULL UNIQUE,
  category_id INTEGER NOT NULL REFERENCES categories(id)
);
CREATE TABLE IF NOT EXISTS conversions (
  id       INTEGER PRIMARY KEY,
  old_text TEXT NOT NULL UNIQUE,
  new_text TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS scans (
  id          INTEGER PRIMARY KEY,
  scan_dt     TEXT NOT NULL,
  description TEXT
);
CREATE TABLE IF NOT EXISTS files (
  id          INTEGER PRIMARY KEY,
  scan_id     INTEGER NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
  filename    TEXT NOT NULL,
  expression  TEXT NOT NULL,
  display     TEXT NOT NULL,
  category_id INTEGER NOT NULL REFERENCES categories(id),
  md5         TEXT,
  sha1        TEXT,
  sha256      TEXT
);
CREATE INDEX IF NOT EXISTS idx_files_scan ON files(scan_id, filename);
    `); err != nil {
		return nil, err
	}

	d := &DB{store: store{q: db}, sql: db}
	if err := d.checkMagicAndVersion(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// checkMagicAndVersion stamps a fresh database, rejects a foreign one, and
// refuses databases whose schema version this build cannot serve.
func (d *DB) checkMagicAndVersion(ctx context.Context) error {
	magic, err := d.ConfigValue(ctx, keyMagic)
	switch {
	case errors.Is(err, ErrNoSuchKey):
		_, err := d.sql.ExecContext(ctx,
			"INSERT INTO config (key, value) VALUES (?, ?), (?, ?)",
			keyMagic, magicValue, keyInitialized, "no")
		return err
	case err != nil:
		return err
	case magic != magicValue:
		return fmt.Errorf("not a licsum database (magic is %q)", magic)
	}

	dbVersion, err := d.ConfigValue(ctx, keyVersion)
	if errors.Is(err, ErrNoSuchKey) {
		// stamped but never initialized
		return nil
	}
	if err != nil {
		return err
	}
	cmp, err := compareVersions(dbVersion, Version)
	if err != nil {
		return fmt.Errorf("bad version string %q in database: %w", dbVersion, err)
	}
	if cmp > 0 {
		return fmt.Errorf("database version %s is newer than this build (%s); upgrade licsum", dbVersion, Version)
	}
	cmp, err = compareVersions(dbVersion, lastSchemaChange)
	if err != nil {
		return err
	}
	if cmp < 0 {
		return fmt.Errorf("database version %s predates the last schema change (%s) and must be migrated", dbVersion, lastSchemaChange)
	}
	return nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Initialized reports whether the database has been seeded with project
// configuration.
func (d *DB) Initialized(ctx context.Context) (bool, error) {
	v, err := d.ConfigValue(ctx, keyInitialized)
	if errors.Is(err, ErrNoSuchKey) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "yes", nil
}

// Begin starts a transaction. All scan-import writes go through the
// returned Tx so they commit or roll back as one unit.
func (d *DB) Begin(ctx context.Context) (*Tx, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{store: store{q: tx}, tx: tx}, nil
}

// MarkInitialized stamps the version and flips the initialized flag. Called
// once, at the end of project seeding.
func (t *Tx) MarkInitialized(ctx context.Context) error {
	if _, err := t.tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO config (key, value) VALUES (?, ?), (?, ?)",
		keyVersion, Version, keyInitialized, "yes"); err != nil {
		return err
	}
	return nil
}

func (t *Tx) Commit() error {
	t.done = true
	return t.tx.Commit()
}

// Rollback is a no-op after Commit, so it is safe to defer.
func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Rollback()
}
