package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/emilianohg/workday/internal/models"
)

type CommitRepo struct {
	db *sql.DB
}

func NewCommitRepo(db *sql.DB) *CommitRepo {
	return &CommitRepo{db: db}
}

// SaveResult counts what SaveAll did.
type SaveResult struct {
	Inserted  int
	Updated   int
	Unchanged int
}

// SaveAll stores commits for a repo in one transaction. Existing hashes are
// refreshed in place, so re-fetching a repository is idempotent.
func (r *CommitRepo) SaveAll(repoID int64, commits []models.Commit) (*SaveResult, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result := &SaveResult{}
	for _, c := range commits {
		existing, err := getByRepoAndHash(tx, repoID, c.Hash)
		if err != nil {
			return nil, fmt.Errorf("failed to check commit %s: %w", c.Hash, err)
		}

		switch {
		case existing == nil:
			_, err = tx.Exec(`
				INSERT INTO commits (repo_id, hash, author_name, author_email, committed_at, additions, deletions)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, repoID, c.Hash, c.AuthorName, c.AuthorEmail, c.Timestamp.UTC(), c.Additions, c.Deletions)
			result.Inserted++
		case sameCommit(*existing, c):
			result.Unchanged++
		default:
			_, err = tx.Exec(`
				UPDATE commits
				SET author_name = ?, author_email = ?, committed_at = ?, additions = ?, deletions = ?
				WHERE repo_id = ? AND hash = ?
			`, c.AuthorName, c.AuthorEmail, c.Timestamp.UTC(), c.Additions, c.Deletions, repoID, c.Hash)
			result.Updated++
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save commit %s: %w", c.Hash, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *CommitRepo) GetByRepoAndHash(repoID int64, hash string) (*models.Commit, error) {
	return getByRepoAndHash(r.db, repoID, hash)
}

// GetByRepo returns every commit of a repo, oldest first.
func (r *CommitRepo) GetByRepo(repoID int64) ([]models.Commit, error) {
	return r.query("WHERE repo_id = ?", repoID)
}

// GetByRepoInRange returns commits with from <= committed_at <= to.
func (r *CommitRepo) GetByRepoInRange(repoID int64, from, to time.Time) ([]models.Commit, error) {
	return r.query("WHERE repo_id = ? AND committed_at >= ? AND committed_at <= ?",
		repoID, from.UTC(), to.UTC())
}

func (r *CommitRepo) CountByRepo(repoID int64) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM commits WHERE repo_id = ?", repoID).Scan(&count)
	return count, err
}

func (r *CommitRepo) DeleteByRepo(repoID int64) (int, error) {
	result, err := r.db.Exec("DELETE FROM commits WHERE repo_id = ?", repoID)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

func (r *CommitRepo) query(filter string, args ...any) ([]models.Commit, error) {
	rows, err := r.db.Query(`
		SELECT hash, author_name, author_email, committed_at, additions, deletions
		FROM commits
		`+filter+`
		ORDER BY committed_at ASC, id ASC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commits []models.Commit
	for rows.Next() {
		c, err := scanCommit(rows)
		if err != nil {
			return nil, err
		}
		commits = append(commits, c)
	}
	return commits, rows.Err()
}

type queryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

func getByRepoAndHash(q queryRower, repoID int64, hash string) (*models.Commit, error) {
	row := q.QueryRow(`
		SELECT hash, author_name, author_email, committed_at, additions, deletions
		FROM commits
		WHERE repo_id = ? AND hash = ?
	`, repoID, hash)

	c, err := scanCommit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCommit(s scanner) (models.Commit, error) {
	var c models.Commit
	if err := s.Scan(&c.Hash, &c.AuthorName, &c.AuthorEmail, &c.Timestamp, &c.Additions, &c.Deletions); err != nil {
		return models.Commit{}, err
	}
	c.Timestamp = c.Timestamp.UTC()
	return c, nil
}

func sameCommit(a, b models.Commit) bool {
	return a.AuthorName == b.AuthorName &&
		a.AuthorEmail == b.AuthorEmail &&
		a.Timestamp.Equal(b.Timestamp) &&
		a.Additions == b.Additions &&
		a.Deletions == b.Deletions
}
