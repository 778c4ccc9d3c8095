package sqlite

import (
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func newFileDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reacto.db")
	db, err := NewDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, path
}

// TestNewDB_CreatesDirectory verifies that NewDB creates missing parent
// directories with owner-only permissions.
func TestNewDB_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "reacto", "reacto.db")

	db, err := NewDB(path)
	require.NoError(t, err)
	defer db.Close()

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.True(t, info.IsDir())
	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), info.Mode().Perm())
	}
	require.FileExists(t, path)
}

func TestNewDB_RunsMigrations(t *testing.T) {
	db, _ := newFileDB(t)

	var name string
	err := db.conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='preferences'`).Scan(&name)
	require.NoError(t, err)
	require.Equal(t, "preferences", name)

	version, err := db.SchemaVersion()
	require.NoError(t, err)
	require.Equal(t, uint(2), version)
}

func TestNewDB_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reacto.db")

	db1, err := NewDB(path)
	require.NoError(t, err)
	_, err = db1.conn.Exec(`INSERT INTO preferences (key, value, updated_at) VALUES ('ui.language', 'en', 1)`)
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	db2, err := NewDB(path)
	require.NoError(t, err)
	defer db2.Close()

	version, err := db2.SchemaVersion()
	require.NoError(t, err)
	require.Equal(t, uint(2), version, "migrations are not reapplied")

	var dirty bool
	require.NoError(t, db2.conn.QueryRow(`SELECT dirty FROM schema_migrations`).Scan(&dirty))
	require.False(t, dirty)

	var value string
	require.NoError(t, db2.conn.QueryRow(`SELECT value FROM preferences WHERE key='ui.language'`).Scan(&value))
	require.Equal(t, "en", value)
}

// TestNewDB_PreMigrationBackup verifies that opening an existing database
// leaves a .bak copy next to it.
func TestNewDB_PreMigrationBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reacto.db")

	db1, err := NewDB(path)
	require.NoError(t, err)
	require.NoFileExists(t, path+".bak", "fresh database has nothing to back up")
	require.NoError(t, db1.Close())

	db2, err := NewDB(path)
	require.NoError(t, err)
	defer db2.Close()

	info, err := os.Stat(path + ".bak")
	require.NoError(t, err)
	require.Positive(t, info.Size())
}

func TestNewDB_Pragmas(t *testing.T) {
	db, _ := newFileDB(t)

	var journalMode string
	require.NoError(t, db.conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	require.Equal(t, "wal", journalMode)

	var foreignKeys, busyTimeout int
	require.NoError(t, db.conn.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	require.NoError(t, db.conn.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	require.Equal(t, 1, foreignKeys)
	require.Equal(t, 5000, busyTimeout)
}

func TestNewDB_BlankKeyRejected(t *testing.T) {
	db, _ := newFileDB(t)

	_, err := db.conn.Exec(`INSERT INTO preferences (key, value, updated_at) VALUES ('  ', 'x', 1)`)
	require.ErrorContains(t, err, "preference key must not be blank")
}

func TestDB_CloseAndConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reacto.db")
	db, err := NewDB(path)
	require.NoError(t, err)

	require.IsType(t, (*sql.DB)(nil), db.Connection())
	require.NoError(t, db.Connection().Ping())
	require.Equal(t, path, db.Path())

	require.NoError(t, db.Close())
	require.Error(t, db.conn.Ping())
}

func TestNewMemoryDB(t *testing.T) {
	db, err := NewMemoryDB()
	require.NoError(t, err)
	defer db.Close()

	version, err := db.SchemaVersion()
	require.NoError(t, err)
	require.Equal(t, uint(2), version)
}
