package models

import (
	"fmt"
	"time"
)

// Repo is a commit source: a GitHub repository or a local clone.
type Repo struct {
	ID        int64
	Source    string // "github:owner/name" or an absolute path
	CreatedAt time.Time
}

// GitHubSource builds the Source key for a GitHub repository.
func GitHubSource(owner, name string) string {
	return fmt.Sprintf("github:%s/%s", owner, name)
}

// Commit is a normalized commit record. Build it with timesheet.NewCommit so
// the invariants hold; values are never mutated after construction.
type Commit struct {
	Hash        string
	AuthorName  string
	AuthorEmail string
	Timestamp   time.Time // always UTC
	Additions   int
	Deletions   int
}

func (c Commit) TotalChanges() int {
	return c.Additions + c.Deletions
}

// RawCommit is the shape retrieval and the JSON cache hand over before
// normalization. Date, Time and TZ are kept as the text the source produced.
type RawCommit struct {
	Hash      string
	Name      string
	Email     string
	Date      string // 2006-01-02
	Time      string // 15:04:05
	TZ        string // +0000
	Additions int
	Deletions int
}
