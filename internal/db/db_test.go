package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	require.NoError(t, err)
	defer d.Close()

	var count int
	require.NoError(t, d.QueryRow("SELECT COUNT(*) FROM preferences").Scan(&count))
	assert.Equal(t, 0, count)
	assert.Equal(t, ":memory:", d.Path())
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	require.NoError(t, err)
	defer d.Close()

	// Running migrate again should not fail.
	require.NoError(t, d.migrate())
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state", "notesview.db")

	d, err := Open(path)
	require.NoError(t, err)

	_, err = d.Exec(`INSERT INTO preferences (client_id, key, value) VALUES ('c', 'theme', 'dark')`)
	require.NoError(t, err)
	require.NoError(t, d.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	var value string
	require.NoError(t, reopened.QueryRow(`SELECT value FROM preferences WHERE client_id = 'c'`).Scan(&value))
	assert.Equal(t, "dark", value)
}
