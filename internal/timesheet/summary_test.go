package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilianohg/workday/internal/models"
)

func TestDate(t *testing.T) {
	d := date(t, "2024-02-28")
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.True(t, d.Before(date(t, "2024-03-01")))
	assert.True(t, d.Within(d, d))
	assert.True(t, Date{}.Before(d))

	_, err := ParseDate("28/02/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)

	late := time.Date(2024, 1, 1, 23, 30, 0, 0, time.FixedZone("X", -2*3600))
	assert.Equal(t, "2024-01-02", DateOf(late).String())
	assert.Equal(t, "2024-01-01", Today(late).String())
}

func options(t *testing.T, authors ...string) Options {
	return Options{
		GapThresholdHours: 6,
		EndDate:           date(t, "2024-12-31"),
		Authors:           NewAuthorSet(authors...),
	}
}

func TestSummarize_UnsortedInputIsSorted(t *testing.T) {
	commits := []models.Commit{
		commitAt(t, "c", "b@x.com", "2024-01-01T20:00:00Z", 1, 1),
		commitAt(t, "a", "a@x.com", "2024-01-01T09:00:00Z", 2, 0),
		commitAt(t, "b", "a@x.com", "2024-01-01T11:00:00Z", 4, 1),
	}

	s, err := Summarize(commits, options(t, "a@x.com"))
	require.NoError(t, err)

	require.Len(t, s.Sessions, 2)
	assert.InDelta(t, 2.0, s.HoursInRange, 1e-9)
	require.True(t, s.HasLongest)
	assert.InDelta(t, 2.0, s.Longest.DurationHours(), 1e-9)
	assert.Equal(t, 3, s.CommitCount)
	assert.Equal(t, []string{"a", "b"}, hashes(s.AuthorCommits))
	require.True(t, s.SharesDefined)
	assert.InDelta(t, 200.0/3, s.CommitShare, 1e-9)
	assert.True(t, s.LineShareDefined)
	assert.InDelta(t, 7.0/9*100, s.LineShare, 1e-9)
	assert.Equal(t, LineTotals{Additions: 7, Deletions: 2, TotalChanges: 9}, s.Totals)
	assert.Equal(t, LineTotals{Additions: 6, Deletions: 1, TotalChanges: 7}, s.AuthorTotals)
}

func TestSummarize_Empty(t *testing.T) {
	s, err := Summarize(nil, options(t, "a@x.com"))
	require.NoError(t, err)
	assert.Empty(t, s.Sessions)
	assert.Equal(t, 0.0, s.HoursInRange)
	assert.False(t, s.HasLongest)
	assert.False(t, s.SharesDefined)
	assert.False(t, s.LineShareDefined)
}

func TestSummarize_AuthorSessionsOnly(t *testing.T) {
	commits := []models.Commit{
		commitAt(t, "a", "a@x.com", "2024-01-01T09:00:00Z", 0, 0),
		commitAt(t, "b", "b@x.com", "2024-01-01T14:00:00Z", 0, 0),
		commitAt(t, "c", "a@x.com", "2024-01-01T19:00:00Z", 0, 0),
	}

	opts := options(t, "a@x.com")
	s, err := Summarize(commits, opts)
	require.NoError(t, err)
	assert.Len(t, s.Sessions, 1)

	opts.AuthorSessionsOnly = true
	s, err = Summarize(commits, opts)
	require.NoError(t, err)
	assert.Len(t, s.Sessions, 2)
	assert.Equal(t, 0.0, s.HoursInRange)
}

func TestOptions_Validate(t *testing.T) {
	opts := options(t)
	require.NoError(t, opts.Validate())

	bad := opts
	bad.GapThresholdHours = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidThreshold)

	bad = opts
	bad.EndDate = Date{}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidDate)

	bad = opts
	bad.StartDate = date(t, "2025-01-01")
	assert.ErrorIs(t, bad.Validate(), ErrInvalidDate)
}
