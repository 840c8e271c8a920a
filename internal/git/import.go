package git

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/emilianohg/workday/internal/models"
	"github.com/emilianohg/workday/internal/repository"
	"github.com/emilianohg/workday/internal/timesheet"
)

type ImportOptions struct {
	Count  int
	Since  time.Time
	Branch string
}

type ImportResult struct {
	RepoPath   string
	TotalFound int
	Inserted   int
	Updated    int
	Unchanged  int
}

// Import reads the current repository's history and stores it under the
// repository root path.
func Import(database *sql.DB, opts ImportOptions) (*ImportResult, error) {
	if !IsGitRepo() {
		return nil, fmt.Errorf("not a git repository")
	}

	repoPath, err := GetRepoRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to get repo root: %w", err)
	}
	result := &ImportResult{RepoPath: repoPath}

	entries, err := GetCommitHistory(HistoryOptions{
		Count:  opts.Count,
		Since:  opts.Since,
		Branch: opts.Branch,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get commit history: %w", err)
	}
	result.TotalFound = len(entries)
	if len(entries) == 0 {
		return result, nil
	}

	saved, err := storeEntries(database, repoPath, entries)
	if err != nil {
		return nil, err
	}
	result.Inserted = saved.Inserted
	result.Updated = saved.Updated
	result.Unchanged = saved.Unchanged

	return result, nil
}

func storeEntries(database *sql.DB, source string, entries []LogEntry) (*repository.SaveResult, error) {
	commits := make([]models.Commit, 0, len(entries))
	for _, e := range entries {
		c, err := timesheet.ParseCommit(e.Raw())
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}

	repo, err := repository.NewRepoRepo(database).GetOrCreate(source)
	if err != nil {
		return nil, fmt.Errorf("failed to get/create repo: %w", err)
	}

	saved, err := repository.NewCommitRepo(database).SaveAll(repo.ID, commits)
	if err != nil {
		return nil, fmt.Errorf("failed to store commits: %w", err)
	}
	return saved, nil
}
