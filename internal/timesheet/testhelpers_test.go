package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/emilianohg/workday/internal/models"
)

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func commitAt(t *testing.T, hash, email, value string, additions, deletions int) models.Commit {
	t.Helper()
	c, err := NewCommit(hash, "Dev", email, at(t, value), additions, deletions)
	require.NoError(t, err)
	return c
}

func date(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func hashes(commits []models.Commit) []string {
	out := make([]string, len(commits))
	for i, c := range commits {
		out[i] = c.Hash
	}
	return out
}
