package git

import (
	"database/sql"
	"fmt"

	"github.com/emilianohg/workday/internal/config"
)

type IngestResult struct {
	RepoPath   string
	CommitHash string
	Skipped    bool
	SkipReason string
}

// Ingest records HEAD of the current repository. It is run by the
// post-commit hook, so anything outside the scan paths is skipped quietly.
func Ingest(database *sql.DB, cfg *config.Config) (*IngestResult, error) {
	result := &IngestResult{}

	if !IsGitRepo() {
		result.Skipped = true
		result.SkipReason = "not a git repository"
		return result, nil
	}

	repoPath, err := GetRepoRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to get repo root: %w", err)
	}
	result.RepoPath = repoPath

	if !cfg.IsPathTracked(repoPath) {
		result.Skipped = true
		result.SkipReason = "repo path not in configured scan_paths"
		return result, nil
	}

	head, err := GetCurrentCommit()
	if err != nil {
		return nil, fmt.Errorf("failed to get commit info: %w", err)
	}
	result.CommitHash = head.Hash

	saved, err := storeEntries(database, repoPath, []LogEntry{*head})
	if err != nil {
		return nil, err
	}
	if saved.Inserted == 0 {
		result.Skipped = true
		result.SkipReason = "commit already recorded"
	}

	return result, nil
}
