// Package cache reads and writes the commits.json file: the fetched history in
// a flat, tool-agnostic format that can be inspected or shared without the
// SQLite store.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emilianohg/workday/internal/models"
	"github.com/emilianohg/workday/internal/timesheet"
)

// Entry is one commit as stored in commits.json.
type Entry struct {
	Hash                string  `json:"hash"`
	Name                string  `json:"name"`
	Email               string  `json:"email"`
	Date                string  `json:"date"`
	Time                string  `json:"time"`
	TZ                  string  `json:"tz"`
	Additions           int     `json:"additions"`
	Deletions           int     `json:"deletions"`
	TotalChanges        int     `json:"totalChanges"`
	TimeSinceLastCommit float64 `json:"timeSinceLastCommit"`
}

// Entries converts commits to cache entries in chronological order, filling
// in the hours since the previous commit (0 for the first).
func Entries(commits []models.Commit) []Entry {
	sorted := timesheet.SortCommits(commits)
	entries := make([]Entry, 0, len(sorted))
	for i, c := range sorted {
		raw := timesheet.ToRaw(c)
		e := Entry{
			Hash:         raw.Hash,
			Name:         raw.Name,
			Email:        raw.Email,
			Date:         raw.Date,
			Time:         raw.Time,
			TZ:           raw.TZ,
			Additions:    raw.Additions,
			Deletions:    raw.Deletions,
			TotalChanges: c.TotalChanges(),
		}
		if i > 0 {
			e.TimeSinceLastCommit = c.Timestamp.Sub(sorted[i-1].Timestamp).Hours()
		}
		entries = append(entries, e)
	}
	return entries
}

// Save writes commits to path, creating parent directories.
func Save(path string, commits []models.Commit) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(Entries(commits), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal commits: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

// Load reads and validates a commits.json file. A stored totalChanges that
// disagrees with additions+deletions marks the record as corrupt.
func Load(path string) ([]models.Commit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	commits := make([]models.Commit, 0, len(entries))
	for _, e := range entries {
		if e.TotalChanges != e.Additions+e.Deletions {
			return nil, fmt.Errorf("%w: %s totalChanges %d != %d+%d",
				timesheet.ErrInvalidCommit, e.Hash, e.TotalChanges, e.Additions, e.Deletions)
		}
		c, err := timesheet.ParseCommit(models.RawCommit{
			Hash:      e.Hash,
			Name:      e.Name,
			Email:     e.Email,
			Date:      e.Date,
			Time:      e.Time,
			TZ:        e.TZ,
			Additions: e.Additions,
			Deletions: e.Deletions,
		})
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, nil
}
