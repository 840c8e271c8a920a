package timesheet

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/emilianohg/workday/internal/models"
)

// Offsets seen in the wild: "+0000" from the hosting API and the JSON cache,
// "+00:00" and "Z" from git's ISO output.
var timestampLayouts = []string{
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05Z07:00",
}

// NewCommit validates and builds a Commit. The timestamp is stored in UTC.
func NewCommit(hash, name, email string, ts time.Time, additions, deletions int) (models.Commit, error) {
	if strings.TrimSpace(hash) == "" {
		return models.Commit{}, fmt.Errorf("%w: missing hash", ErrInvalidCommit)
	}
	if ts.IsZero() {
		return models.Commit{}, fmt.Errorf("%w: %s has no timestamp", ErrInvalidCommit, hash)
	}
	if additions < 0 || deletions < 0 {
		return models.Commit{}, fmt.Errorf("%w: %s has negative line counts (+%d -%d)",
			ErrInvalidCommit, hash, additions, deletions)
	}

	return models.Commit{
		Hash:        hash,
		AuthorName:  name,
		AuthorEmail: email,
		Timestamp:   ts.UTC(),
		Additions:   additions,
		Deletions:   deletions,
	}, nil
}

// ParseCommit normalizes a raw record. An empty TZ is read as UTC.
func ParseCommit(raw models.RawCommit) (models.Commit, error) {
	ts, err := parseTimestamp(raw.Date, raw.Time, raw.TZ)
	if err != nil {
		return models.Commit{}, fmt.Errorf("%w: %s: %v", ErrInvalidCommit, raw.Hash, err)
	}
	return NewCommit(raw.Hash, raw.Name, raw.Email, ts, raw.Additions, raw.Deletions)
}

// NormalizeAll parses every record and stops at the first bad one; a single
// corrupt timestamp would make any later segmentation meaningless.
func NormalizeAll(raws []models.RawCommit) ([]models.Commit, error) {
	commits := make([]models.Commit, 0, len(raws))
	for _, raw := range raws {
		c, err := ParseCommit(raw)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}

// ToRaw is the inverse of ParseCommit, always emitting UTC.
func ToRaw(c models.Commit) models.RawCommit {
	ts := c.Timestamp.UTC()
	return models.RawCommit{
		Hash:      c.Hash,
		Name:      c.AuthorName,
		Email:     c.AuthorEmail,
		Date:      ts.Format(dateLayout),
		Time:      ts.Format("15:04:05"),
		TZ:        "+0000",
		Additions: c.Additions,
		Deletions: c.Deletions,
	}
}

func parseTimestamp(date, clock, tz string) (time.Time, error) {
	if tz == "" {
		tz = "Z"
	}
	value := date + "T" + clock + tz
	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// SortCommits returns a copy of commits stably sorted by timestamp.
func SortCommits(commits []models.Commit) []models.Commit {
	sorted := slices.Clone(commits)
	slices.SortStableFunc(sorted, func(a, b models.Commit) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return sorted
}

// CheckOrdered returns ErrUnsorted for the first commit older than its
// predecessor.
func CheckOrdered(commits []models.Commit) error {
	for i := 1; i < len(commits); i++ {
		if commits[i].Timestamp.Before(commits[i-1].Timestamp) {
			return fmt.Errorf("%w: %s at index %d precedes %s", ErrUnsorted,
				commits[i].Hash, i, commits[i-1].Hash)
		}
	}
	return nil
}
