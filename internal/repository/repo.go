package repository

import (
	"database/sql"
	"time"

	"github.com/emilianohg/workday/internal/models"
)

type RepoRepo struct {
	db *sql.DB
}

func NewRepoRepo(db *sql.DB) *RepoRepo {
	return &RepoRepo{db: db}
}

func (r *RepoRepo) Create(source string) (*models.Repo, error) {
	result, err := r.db.Exec("INSERT INTO repos (source) VALUES (?)", source)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *RepoRepo) GetOrCreate(source string) (*models.Repo, error) {
	repo, err := r.GetBySource(source)
	if err != nil {
		return nil, err
	}
	if repo != nil {
		return repo, nil
	}
	return r.Create(source)
}

func (r *RepoRepo) GetByID(id int64) (*models.Repo, error) {
	return r.getOne("SELECT id, source, created_at FROM repos WHERE id = ?", id)
}

func (r *RepoRepo) GetBySource(source string) (*models.Repo, error) {
	return r.getOne("SELECT id, source, created_at FROM repos WHERE source = ?", source)
}

func (r *RepoRepo) getOne(query string, arg any) (*models.Repo, error) {
	var repo models.Repo
	err := r.db.QueryRow(query, arg).Scan(&repo.ID, &repo.Source, &repo.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &repo, nil
}

func (r *RepoRepo) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM repos WHERE id = ?", id)
	return err
}

type RepoWithStats struct {
	models.Repo
	CommitCount int
	FirstCommit *time.Time
	LastCommit  *time.Time
}

func (r *RepoRepo) GetAllWithStats() ([]RepoWithStats, error) {
	rows, err := r.db.Query(`
		SELECT
			r.id, r.source, r.created_at,
			COUNT(c.id) AS commit_count,
			MIN(c.committed_at), MAX(c.committed_at)
		FROM repos r
		LEFT JOIN commits c ON c.repo_id = r.id
		GROUP BY r.id
		ORDER BY r.source
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repos []RepoWithStats
	for rows.Next() {
		var repo RepoWithStats
		var first, last sql.NullString

		if err := rows.Scan(&repo.ID, &repo.Source, &repo.CreatedAt, &repo.CommitCount, &first, &last); err != nil {
			return nil, err
		}
		// MIN/MAX lose the column type, so SQLite hands back the stored text.
		if repo.FirstCommit, err = parseStoredTime(first); err != nil {
			return nil, err
		}
		if repo.LastCommit, err = parseStoredTime(last); err != nil {
			return nil, err
		}

		repos = append(repos, repo)
	}
	return repos, rows.Err()
}

// sqlite3 writes time.Time values with this layout.
const storedTimeLayout = "2006-01-02 15:04:05.999999999-07:00"

func parseStoredTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := time.Parse(storedTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}
