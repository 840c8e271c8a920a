package screens

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilianohg/workday/internal/config"
	"github.com/emilianohg/workday/internal/db"
	"github.com/emilianohg/workday/internal/models"
	"github.com/emilianohg/workday/internal/repository"
)

var fixedNow = time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

func newWorkspace(t *testing.T) *Workspace {
	t.Helper()
	database, err := db.OpenPath(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	cfg := config.DefaultConfig()
	cfg.Authors = []string{"me@x.com"}
	return &Workspace{
		DB:         database,
		Config:     cfg,
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
		Now:        func() time.Time { return fixedNow },
	}
}

func seed(t *testing.T, ws *Workspace, source string, start time.Time, n int) int64 {
	t.Helper()
	repo, err := repository.NewRepoRepo(ws.DB).GetOrCreate(source)
	require.NoError(t, err)

	var commits []models.Commit
	for i := 0; i < n; i++ {
		commits = append(commits, models.Commit{
			Hash:        source + string(rune('a'+i)),
			AuthorName:  "Me",
			AuthorEmail: "me@x.com",
			Timestamp:   start.Add(time.Duration(i) * time.Hour),
			Additions:   1,
		})
	}
	_, err = repository.NewCommitRepo(ws.DB).SaveAll(repo.ID, commits)
	require.NoError(t, err)
	return repo.ID
}

func TestLoadSummary_EmptyStore(t *testing.T) {
	ws := newWorkspace(t)

	data, err := LoadSummary(ws)
	require.NoError(t, err)
	assert.Nil(t, data.Repo)
	assert.Empty(t, data.Summary.Sessions)
	assert.False(t, data.Summary.SharesDefined)
}

func TestLoadSummary_PicksMostRecentRepo(t *testing.T) {
	ws := newWorkspace(t)
	seed(t, ws, "/src/old", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), 2)
	recent := seed(t, ws, "/src/new", time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC), 4)

	data, err := LoadSummary(ws)
	require.NoError(t, err)
	require.NotNil(t, data.Repo)
	assert.Equal(t, recent, data.Repo.ID)
	assert.InDelta(t, 3.0, data.Summary.HoursInRange, 1e-9)
	assert.InDelta(t, 100.0, data.Summary.CommitShare, 1e-9)
}

func TestLoadSummary_SelectedRepo(t *testing.T) {
	ws := newWorkspace(t)
	old := seed(t, ws, "/src/old", time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), 2)
	seed(t, ws, "/src/new", time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC), 4)
	ws.RepoID = &old

	data, err := LoadSummary(ws)
	require.NoError(t, err)
	assert.Equal(t, "/src/old", data.Repo.Source)
	assert.Len(t, data.Summary.Sessions, 1)
}

func TestDashboard_View(t *testing.T) {
	ws := newWorkspace(t)
	seed(t, ws, "github:acme/app", time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC), 3)

	d := NewDashboard(ws)
	msg := d.Init()()
	d.Update(msg)

	view := d.View()
	assert.Contains(t, view, "github:acme/app")
	assert.Contains(t, view, "Work sessions:  1")
}

func TestSettings_RejectsInvalidInput(t *testing.T) {
	ws := newWorkspace(t)
	s := NewSettings(ws)
	s.Init()

	s.inputs[fieldGap].SetValue("0")
	assert.False(t, s.apply())
	assert.Error(t, s.err)
	assert.Equal(t, float64(config.DefaultGapThresholdHours), ws.Config.GapThresholdHours, "config untouched")

	s.inputs[fieldGap].SetValue("6")
	s.inputs[fieldStart].SetValue("2024-02-01")
	assert.False(t, s.apply(), "start after end")
}

func TestSettings_ApplyAndSave(t *testing.T) {
	ws := newWorkspace(t)
	s := NewSettings(ws)
	s.Init()

	s.inputs[fieldGap].SetValue("6.5")
	s.inputs[fieldPolicy].SetValue("inclusive")
	s.inputs[fieldStart].SetValue("2024-01-01")
	s.inputs[fieldAuthors].SetValue("a@x.com, b@x.com,")

	cmd := s.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	require.NoError(t, s.err)
	assert.Equal(t, 6.5, ws.Config.GapThresholdHours)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, ws.Config.Authors)

	saved, err := config.LoadFile(ws.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, "inclusive", saved.GapPolicy)
	assert.Equal(t, "2024-01-01", saved.StartDate)
}

func TestSessions_ExpandShowsCommits(t *testing.T) {
	ws := newWorkspace(t)
	seed(t, ws, "/src/app", time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC), 2)

	s := NewSessions(ws)
	s.Update(s.Init()())
	s.Update(tea.KeyMsg{Type: tea.KeyEnter})

	view := s.View()
	assert.Contains(t, view, "2024-01-20")
	assert.True(t, strings.Contains(view, "me@x.com"), "expanded session lists commit authors")
}
