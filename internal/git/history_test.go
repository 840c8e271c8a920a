package git

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilianohg/workday/internal/timesheet"
)

func header(hash, name, email, date string) string {
	return strings.Join([]string{"commit", hash, name, email, date}, sep)
}

func TestParseLog(t *testing.T) {
	output := strings.Join([]string{
		header("aaa", "Ann | Dev", "ann@x.com", "2024-01-01T20:30:00+02:00"),
		"",
		"10\t2\tmain.go",
		"3\t0\tREADME.md",
		"-\t-\tlogo.png",
		header("bbb", "Bob", "bob@x.com", "2024-01-01T09:00:00Z"),
		header("ccc", "Cy", "cy@x.com", "2023-12-31T23:00:00-05:00"),
		"1\t1\tgo.mod",
	}, "\n")

	entries, err := parseLog(output)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "aaa", entries[0].Hash)
	assert.Equal(t, "Ann | Dev", entries[0].AuthorName)
	assert.Equal(t, 13, entries[0].Additions)
	assert.Equal(t, 2, entries[0].Deletions)

	assert.Equal(t, 0, entries[1].Additions, "merge or empty commit")

	raw := entries[0].Raw()
	assert.Equal(t, "2024-01-01", raw.Date)
	assert.Equal(t, "18:30:00", raw.Time)
	assert.Equal(t, "+0000", raw.TZ)

	// 23:00 at -05:00 is already the next day in UTC.
	raw = entries[2].Raw()
	assert.Equal(t, "2024-01-01", raw.Date)
	assert.Equal(t, "04:00:00", raw.Time)

	c, err := timesheet.ParseCommit(raw)
	require.NoError(t, err)
	assert.Equal(t, 2, c.TotalChanges())
}

func TestParseLog_Empty(t *testing.T) {
	entries, err := parseLog("")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseLog_BadHeader(t *testing.T) {
	_, err := parseLog("commit" + sep + "aaa" + sep + "Ann")
	assert.Error(t, err)

	_, err = parseLog(header("aaa", "Ann", "ann@x.com", "yesterday"))
	assert.Error(t, err)
}
