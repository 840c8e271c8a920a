package repository

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilianohg/workday/internal/db"
	"github.com/emilianohg/workday/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenPath(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })
	return database
}

func commit(hash, email string, ts time.Time, additions, deletions int) models.Commit {
	return models.Commit{
		Hash:        hash,
		AuthorName:  "Dev",
		AuthorEmail: email,
		Timestamp:   ts,
		Additions:   additions,
		Deletions:   deletions,
	}
}

func TestRepoRepo_GetOrCreate(t *testing.T) {
	repos := NewRepoRepo(newTestDB(t))

	created, err := repos.GetOrCreate(models.GitHubSource("acme", "api"))
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "github:acme/api", created.Source)

	again, err := repos.GetOrCreate("github:acme/api")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	missing, err := repos.GetBySource("github:acme/web")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCommitRepo_SaveAllIsIdempotent(t *testing.T) {
	database := newTestDB(t)
	repo, err := NewRepoRepo(database).GetOrCreate("/src/api")
	require.NoError(t, err)

	commits := NewCommitRepo(database)
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	batch := []models.Commit{
		commit("b", "b@x.com", day.Add(2*time.Hour), 3, 1),
		commit("a", "a@x.com", day, 10, 0),
	}

	result, err := commits.SaveAll(repo.ID, batch)
	require.NoError(t, err)
	assert.Equal(t, SaveResult{Inserted: 2}, *result)

	batch[0].Additions = 4
	result, err = commits.SaveAll(repo.ID, batch)
	require.NoError(t, err)
	assert.Equal(t, SaveResult{Updated: 1, Unchanged: 1}, *result)

	stored, err := commits.GetByRepo(repo.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "a", stored[0].Hash, "oldest first")
	assert.Equal(t, 4, stored[1].Additions)
	assert.True(t, stored[0].Timestamp.Equal(day))
	assert.Equal(t, time.UTC, stored[0].Timestamp.Location())

	count, err := commits.CountByRepo(repo.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCommitRepo_StoresUTCFromOtherZones(t *testing.T) {
	database := newTestDB(t)
	repo, err := NewRepoRepo(database).GetOrCreate("/src/api")
	require.NoError(t, err)

	zone := time.FixedZone("CET", 3600)
	commits := NewCommitRepo(database)
	_, err = commits.SaveAll(repo.ID, []models.Commit{
		commit("a", "a@x.com", time.Date(2024, 1, 1, 10, 0, 0, 0, zone), 0, 0),
	})
	require.NoError(t, err)

	got, err := commits.GetByRepoAndHash(repo.ID, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 9, got.Timestamp.Hour())

	none, err := commits.GetByRepoAndHash(repo.ID, "zzz")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestCommitRepo_GetByRepoInRange(t *testing.T) {
	database := newTestDB(t)
	repo, err := NewRepoRepo(database).GetOrCreate("/src/api")
	require.NoError(t, err)

	commits := NewCommitRepo(database)
	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	_, err = commits.SaveAll(repo.ID, []models.Commit{
		commit("a", "a@x.com", day, 0, 0),
		commit("b", "a@x.com", day.AddDate(0, 0, 1), 0, 0),
		commit("c", "a@x.com", day.AddDate(0, 0, 2), 0, 0),
	})
	require.NoError(t, err)

	got, err := commits.GetByRepoInRange(repo.ID, day.AddDate(0, 0, 1), day.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Hash)
	assert.Equal(t, "c", got[1].Hash)
}

func TestRepoRepo_GetAllWithStats(t *testing.T) {
	database := newTestDB(t)
	repos := NewRepoRepo(database)

	api, err := repos.GetOrCreate("github:acme/api")
	require.NoError(t, err)
	_, err = repos.GetOrCreate("github:acme/empty")
	require.NoError(t, err)

	day := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	_, err = NewCommitRepo(database).SaveAll(api.ID, []models.Commit{
		commit("a", "a@x.com", day, 0, 0),
		commit("b", "a@x.com", day.Add(30*time.Hour), 0, 0),
	})
	require.NoError(t, err)

	stats, err := repos.GetAllWithStats()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "github:acme/api", stats[0].Source)
	assert.Equal(t, 2, stats[0].CommitCount)
	require.NotNil(t, stats[0].FirstCommit)
	assert.True(t, stats[0].FirstCommit.Equal(day))
	assert.True(t, stats[0].LastCommit.Equal(day.Add(30*time.Hour)))

	assert.Equal(t, 0, stats[1].CommitCount)
	assert.Nil(t, stats[1].FirstCommit)
}

func TestRepoRepo_DeleteCascades(t *testing.T) {
	database := newTestDB(t)
	repos := NewRepoRepo(database)
	commits := NewCommitRepo(database)

	repo, err := repos.GetOrCreate("/src/api")
	require.NoError(t, err)
	_, err = commits.SaveAll(repo.ID, []models.Commit{commit("a", "a@x.com", time.Now().UTC(), 0, 0)})
	require.NoError(t, err)

	require.NoError(t, repos.Delete(repo.ID))

	count, err := commits.CountByRepo(repo.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
