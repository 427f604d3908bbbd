package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triprisk.db")
	db, err := Open(Config{Path: path})
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpen_PragmasOnEveryConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.db")
	db, err := Open(Config{Path: path})
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	conns := make([]*sql.Conn, 3)
	for i := range conns {
		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()
		conns[i] = conn
	}

	for i, conn := range conns {
		var fk, timeout int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout))
		assert.Equal(t, 1, fk, "conn %d", i)
		assert.Equal(t, 5000, timeout, "conn %d", i)
	}
}

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"data.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)",
		DSN("data.db"))
	assert.Equal(t,
		"file:data.db?mode=ro&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)",
		DSN("file:data.db?mode=ro"))
}

func TestRunMigrations_Embedded(t *testing.T) {
	db, err := Open(Config{Path: MemoryPath})
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	m := NewMigrationManager(db)
	require.NoError(t, m.RunMigrations(ctx))
	// Idempotent
	require.NoError(t, m.RunMigrations(ctx))

	applied, err := m.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	assert.True(t, applied[1])

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM assessments").Scan(&n))
	assert.Zero(t, n)
}

func TestLoadMigrations_OrderAndSkip(t *testing.T) {
	files := fstest.MapFS{
		"010_second.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
		"002_first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"README.md":      {Data: []byte("ignored")},
		"bad_name.sql":   {Data: []byte("SELECT 1;")},
	}

	migrations, err := NewMigrationManagerFS(nil, files).LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 2, migrations[0].Version)
	assert.Equal(t, "002_first", migrations[0].Name)
	assert.Equal(t, 10, migrations[1].Version)
}

func TestApplyMigration_RollsBack(t *testing.T) {
	db, err := Open(Config{Path: MemoryPath})
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	files := fstest.MapFS{"001_broken.sql": {Data: []byte("CREATE TABLE broken (;")}}
	m := NewMigrationManagerFS(db, files)

	assert.Error(t, m.RunMigrations(ctx))

	applied, err := m.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
}
