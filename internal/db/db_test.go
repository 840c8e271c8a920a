package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations(t *testing.T) {
	conn, err := OpenPath(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { Close() })

	status, err := GetMigrationStatus()
	require.NoError(t, err)
	assert.Equal(t, uint(0), status.CurrentVersion)
	assert.Equal(t, uint(1), status.LatestVersion)
	assert.True(t, status.Pending)

	require.NoError(t, RunMigrations())
	require.NoError(t, RunMigrations(), "second run is a no-op")

	status, err = GetMigrationStatus()
	require.NoError(t, err)
	assert.Equal(t, uint(1), status.CurrentVersion)
	assert.False(t, status.Pending)
	assert.False(t, status.Dirty)

	var count int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM commits").Scan(&count))
	assert.Zero(t, count)
}

func TestRunMigrations_NotOpen(t *testing.T) {
	require.NoError(t, Close())
	assert.Error(t, RunMigrations())
	_, err := GetMigrationStatus()
	assert.Error(t, err)
}
