package git

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/emilianohg/workday/internal/models"
)

const logFormat = "commit" + sep + "%H" + sep + "%an" + sep + "%ae" + sep + "%aI"

type HistoryOptions struct {
	Count  int       // 0 means all
	Since  time.Time // zero = no filter
	Branch string    // empty = all branches
}

// LogEntry is one commit read from git log.
type LogEntry struct {
	Hash        string
	AuthorName  string
	AuthorEmail string
	AuthoredAt  time.Time
	Additions   int
	Deletions   int
}

// Raw converts the entry to the shared raw record, in UTC.
func (e LogEntry) Raw() models.RawCommit {
	ts := e.AuthoredAt.UTC()
	return models.RawCommit{
		Hash:      e.Hash,
		Name:      e.AuthorName,
		Email:     e.AuthorEmail,
		Date:      ts.Format("2006-01-02"),
		Time:      ts.Format("15:04:05"),
		TZ:        "+0000",
		Additions: e.Additions,
		Deletions: e.Deletions,
	}
}

// GetCommitHistory retrieves commit history with per-commit line stats
func GetCommitHistory(opts HistoryOptions) ([]LogEntry, error) {
	args := []string{"log", "--format=" + logFormat, "--numstat", "--no-renames"}

	if opts.Count > 0 {
		args = append(args, fmt.Sprintf("-n%d", opts.Count))
	}
	if !opts.Since.IsZero() {
		args = append(args, fmt.Sprintf("--since=%s", opts.Since.Format("2006-01-02")))
	}
	if opts.Branch != "" {
		args = append(args, opts.Branch)
	} else {
		args = append(args, "--all")
	}

	output, err := runGitCommand(args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get git log: %w", err)
	}

	return parseLog(output)
}

// parseLog reads the header-plus-numstat output of git log. Binary files
// report "-" for both counts and contribute nothing.
func parseLog(output string) ([]LogEntry, error) {
	var entries []LogEntry
	var current *LogEntry

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "commit"+sep) {
			parts := strings.Split(line, sep)
			if len(parts) != 5 {
				return nil, fmt.Errorf("unexpected git log header: %q", line)
			}
			authoredAt, err := time.Parse(time.RFC3339, parts[4])
			if err != nil {
				return nil, fmt.Errorf("bad author date for %s: %w", parts[1], err)
			}
			entries = append(entries, LogEntry{
				Hash:        parts[1],
				AuthorName:  parts[2],
				AuthorEmail: parts[3],
				AuthoredAt:  authoredAt,
			})
			current = &entries[len(entries)-1]
			continue
		}

		if current == nil {
			continue
		}
		fields := strings.SplitN(line, "\t", 3)
		if len(fields) != 3 {
			continue
		}
		current.Additions += parseCount(fields[0])
		current.Deletions += parseCount(fields[1])
	}

	return entries, nil
}

func parseCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
