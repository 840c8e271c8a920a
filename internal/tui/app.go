package tui

import (
	"database/sql"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emilianohg/workday/internal/config"
	"github.com/emilianohg/workday/internal/tui/screens"
)

type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenSessions
	ScreenRepos
	ScreenSettings
)

type App struct {
	ws            *screens.Workspace
	currentScreen Screen
	width         int
	height        int

	// Screen models
	dashboard *screens.Dashboard
	sessions  *screens.Sessions
	repos     *screens.Repos
	settings  *screens.Settings
}

func NewApp(db *sql.DB, cfg *config.Config, configPath string) *App {
	return &App{
		ws: &screens.Workspace{
			DB:         db,
			Config:     cfg,
			ConfigPath: configPath,
			Now:        time.Now,
		},
		currentScreen: ScreenDashboard,
	}
}

func (a *App) Init() tea.Cmd {
	a.dashboard = screens.NewDashboard(a.ws)
	a.sessions = screens.NewSessions(a.ws)
	a.repos = screens.NewRepos(a.ws)
	a.settings = screens.NewSettings(a.ws)

	return a.dashboard.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.currentScreen == ScreenDashboard {
				return a, tea.Quit
			}
			// Let individual screens handle 'q' for going back
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.dashboard.SetSize(msg.Width, msg.Height)
		a.sessions.SetSize(msg.Width, msg.Height)
		a.repos.SetSize(msg.Width, msg.Height)
		a.settings.SetSize(msg.Width, msg.Height)

	case screens.NavigateMsg:
		return a.handleNavigation(msg)
	}

	// Update current screen
	var cmd tea.Cmd
	switch a.currentScreen {
	case ScreenDashboard:
		cmd = a.dashboard.Update(msg)
	case ScreenSessions:
		cmd = a.sessions.Update(msg)
	case ScreenRepos:
		cmd = a.repos.Update(msg)
	case ScreenSettings:
		cmd = a.settings.Update(msg)
	}

	return a, cmd
}

func (a *App) handleNavigation(msg screens.NavigateMsg) (tea.Model, tea.Cmd) {
	if msg.RepoID != nil {
		a.ws.RepoID = msg.RepoID
	}

	switch msg.Screen {
	case "dashboard":
		a.currentScreen = ScreenDashboard
		return a, a.dashboard.Init()
	case "sessions":
		a.currentScreen = ScreenSessions
		return a, a.sessions.Init()
	case "repos":
		a.currentScreen = ScreenRepos
		return a, a.repos.Init()
	case "settings":
		a.currentScreen = ScreenSettings
		return a, a.settings.Init()
	}
	return a, nil
}

func (a *App) View() string {
	var content string

	switch a.currentScreen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenSessions:
		content = a.sessions.View()
	case ScreenRepos:
		content = a.repos.View()
	case ScreenSettings:
		content = a.settings.View()
	}

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height).
		Render(content)
}

func Run(db *sql.DB, cfg *config.Config, configPath string) error {
	app := NewApp(db, cfg, configPath)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
