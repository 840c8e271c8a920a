package main

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilianohg/workday/internal/cache"
	"github.com/emilianohg/workday/internal/config"
	"github.com/emilianohg/workday/internal/db"
	"github.com/emilianohg/workday/internal/models"
)

func TestParseImportArg(t *testing.T) {
	count, since, err := parseImportArg("25")
	require.NoError(t, err)
	assert.Equal(t, 25, count)
	assert.True(t, since.IsZero())

	count, since, err = parseImportArg("2025-01-15")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), since)

	_, _, err = parseImportArg("0")
	assert.Error(t, err)
	_, _, err = parseImportArg("last week")
	assert.Error(t, err)
}

func TestApplyReportFlags(t *testing.T) {
	cmd := &cobra.Command{}
	addReportFlags(cmd)

	require.NoError(t, cmd.Flags().Set("from", "2024-01-01"))
	require.NoError(t, cmd.Flags().Set("gap", "6"))
	require.NoError(t, cmd.Flags().Set("author", "a@x.com"))

	cfg := config.DefaultConfig()
	cfg.EndDate = "2024-02-01"
	applyReportFlags(cmd, cfg)

	assert.Equal(t, "2024-01-01", cfg.StartDate)
	assert.Equal(t, "2024-02-01", cfg.EndDate, "unset flags keep config values")
	assert.Equal(t, 6.0, cfg.GapThresholdHours)
	assert.Equal(t, []string{"a@x.com"}, cfg.Authors)
	assert.Equal(t, "strict", cfg.GapPolicy)
}

func TestSaveAndCache(t *testing.T) {
	dir := t.TempDir()
	database, err := db.OpenPath(filepath.Join(dir, "test.sqlite"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	commits := []models.Commit{
		{Hash: "b", AuthorEmail: "me@x.com", Timestamp: day.Add(time.Hour), Additions: 2},
		{Hash: "a", AuthorEmail: "me@x.com", Timestamp: day, Deletions: 3},
	}
	cacheFile := filepath.Join(dir, "cache", "commits.json")

	saved, err := saveAndCache(database, "github:acme/app", commits, cacheFile)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Inserted)

	cached, err := cache.Load(cacheFile)
	require.NoError(t, err)
	require.Len(t, cached, 2)
	assert.Equal(t, "a", cached[0].Hash)

	stored, err := storedCommits(database, "github:acme/app")
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	_, err = storedCommits(database, "github:acme/other")
	assert.Error(t, err)
}

func TestReadLine(t *testing.T) {
	token, err := readLine(strings.NewReader("  ghp_abc \nignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "ghp_abc", token)

	token, err = readLine(strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", token)
}
