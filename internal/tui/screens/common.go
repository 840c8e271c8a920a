package screens

import (
	"database/sql"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emilianohg/workday/internal/config"
	"github.com/emilianohg/workday/internal/models"
	"github.com/emilianohg/workday/internal/repository"
	"github.com/emilianohg/workday/internal/timesheet"
)

// NavigateMsg is sent when navigation to another screen is requested
type NavigateMsg struct {
	Screen string
	RepoID *int64
}

func Navigate(screen string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Screen: screen}
	}
}

func NavigateWithRepo(screen string, repoID int64) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Screen: screen, RepoID: &repoID}
	}
}

// RefreshMsg is sent when data should be refreshed
type RefreshMsg struct{}

func Refresh() tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{}
	}
}

// Workspace is the state shared by all screens. Settings edits Config in
// place; the other screens recompute from it on refresh.
type Workspace struct {
	DB         *sql.DB
	Config     *config.Config
	ConfigPath string
	RepoID     *int64
	Now        func() time.Time
}

// SummaryData is a computed summary for one repository.
type SummaryData struct {
	Repo    *models.Repo
	Options timesheet.Options
	Summary timesheet.Summary
}

// LoadSummary computes the summary for the selected repository, or for the
// repository with the most recent commit when none is selected. Repo is nil
// when nothing is stored yet.
func LoadSummary(ws *Workspace) (*SummaryData, error) {
	opts, err := ws.Config.Options(ws.Now())
	if err != nil {
		return nil, err
	}

	repoRepo := repository.NewRepoRepo(ws.DB)
	var repo *models.Repo
	if ws.RepoID != nil {
		if repo, err = repoRepo.GetByID(*ws.RepoID); err != nil {
			return nil, fmt.Errorf("failed to load repo: %w", err)
		}
	} else {
		if repo, err = latestRepo(repoRepo); err != nil {
			return nil, err
		}
	}

	data := &SummaryData{Repo: repo, Options: opts}
	var commits []models.Commit
	if repo != nil {
		if commits, err = repository.NewCommitRepo(ws.DB).GetByRepo(repo.ID); err != nil {
			return nil, fmt.Errorf("failed to load commits: %w", err)
		}
	}

	if data.Summary, err = timesheet.Summarize(commits, opts); err != nil {
		return nil, err
	}
	return data, nil
}

func latestRepo(r *repository.RepoRepo) (*models.Repo, error) {
	repos, err := r.GetAllWithStats()
	if err != nil {
		return nil, fmt.Errorf("failed to list repos: %w", err)
	}

	var best *repository.RepoWithStats
	for i := range repos {
		if repos[i].LastCommit == nil {
			continue
		}
		if best == nil || repos[i].LastCommit.After(*best.LastCommit) {
			best = &repos[i]
		}
	}
	if best == nil {
		return nil, nil
	}
	repo := best.Repo
	return &repo, nil
}

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginBottom(1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	NormalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)
