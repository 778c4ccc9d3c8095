// Package sqlite is the SQLite-backed store for reacto preferences.
package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	msqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/mrreacto/reacto/internal/log"
	"github.com/mrreacto/reacto/internal/prefs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const pragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(wal)"

// DB owns the SQLite connection.
type DB struct {
	conn     *sql.DB
	path     string
	migrator *migrate.Migrate
}

// NewDB opens (creating if needed) the database at path, backs up an
// existing file to path+".bak" and applies pending migrations.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		if err := backup(path, path+".bak"); err != nil {
			return nil, fmt.Errorf("backing up database: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", "file:"+filepath.ToSlash(path)+"?"+pragmas)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return open(conn, path)
}

// NewMemoryDB opens a private in-memory database with migrations applied.
func NewMemoryDB() (*DB, error) {
	conn, err := sql.Open("sqlite3", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	conn.SetMaxOpenConns(1)
	return open(conn, ":memory:")
}

func open(conn *sql.DB, path string) (*DB, error) {
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	m, err := runMigrations(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	log.Debug(log.CatDB, "Database ready", "path", path)
	return &DB{conn: conn, path: path, migrator: m}, nil
}

// Close closes the connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// Connection returns the underlying *sql.DB.
func (d *DB) Connection() *sql.DB {
	return d.conn
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// PreferenceRepository returns the preferences store.
func (d *DB) PreferenceRepository() prefs.Repository {
	return newPreferenceRepository(d.conn)
}

// SchemaVersion returns the applied migration version, or 0 before the
// first migration.
func (d *DB) SchemaVersion() (uint, error) {
	version, dirty, err := d.migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}

// runMigrations applies every pending embedded migration. The returned
// Migrate must not be closed: closing it closes conn.
func runMigrations(conn *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("loading migrations: %w", err)
	}

	drv, err := msqlite.WithInstance(conn, &msqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("creating migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.ErrorErr(log.CatDB, "Migration failed", err)
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	if version, _, err := m.Version(); err == nil {
		log.Info(log.CatDB, "Schema up to date", "version", version)
	}
	return m, nil
}

func backup(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // G304: path from config
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) //nolint:gosec // G304: path from config
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
