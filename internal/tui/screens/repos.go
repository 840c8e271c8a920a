package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/workday/internal/repository"
)

type reposMode int

const (
	reposModeList reposMode = iota
	reposModeDelete
)

type Repos struct {
	ws     *Workspace
	width  int
	height int

	repos   []repository.RepoWithStats
	cursor  int
	mode    reposMode
	loading bool
	err     error
	message string
}

func NewRepos(ws *Workspace) *Repos {
	return &Repos{ws: ws}
}

func (r *Repos) SetSize(width, height int) {
	r.width = width
	r.height = height
}

type reposDataMsg struct {
	repos []repository.RepoWithStats
	err   error
}

func (r *Repos) Init() tea.Cmd {
	r.loading = true
	r.mode = reposModeList
	r.message = ""
	return r.loadData
}

func (r *Repos) loadData() tea.Msg {
	repos, err := repository.NewRepoRepo(r.ws.DB).GetAllWithStats()
	return reposDataMsg{repos: repos, err: err}
}

func (r *Repos) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case reposDataMsg:
		r.loading = false
		r.err = msg.err
		r.repos = msg.repos
		if r.cursor >= len(r.repos) {
			r.cursor = max(0, len(r.repos)-1)
		}
		return nil

	case RefreshMsg:
		return r.Init()

	case tea.KeyMsg:
		if r.mode == reposModeDelete {
			return r.handleDeleteKey(msg)
		}
		return r.handleListKey(msg)
	}

	return nil
}

func (r *Repos) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if r.cursor > 0 {
			r.cursor--
		}
	case "down", "j":
		if r.cursor < len(r.repos)-1 {
			r.cursor++
		}
	case "enter":
		if len(r.repos) > 0 {
			return NavigateWithRepo("dashboard", r.repos[r.cursor].ID)
		}
	case "d":
		if len(r.repos) > 0 {
			r.mode = reposModeDelete
		}
	case "q", "esc":
		return Navigate("dashboard")
	}
	return nil
}

func (r *Repos) handleDeleteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		target := r.repos[r.cursor]
		if err := repository.NewRepoRepo(r.ws.DB).Delete(target.ID); err != nil {
			r.err = err
		} else {
			r.message = fmt.Sprintf("Removed: %s", target.Source)
			if r.ws.RepoID != nil && *r.ws.RepoID == target.ID {
				r.ws.RepoID = nil
			}
		}
		r.mode = reposModeList
		return r.loadData

	case "n", "N", "esc":
		r.mode = reposModeList
	}
	return nil
}

func (r *Repos) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("REPOSITORIES"))
	b.WriteString("\n\n")

	if r.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if r.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", r.err)))
		b.WriteString("\n\n")
		r.err = nil
	}

	if r.message != "" {
		b.WriteString(SuccessStyle.Render(r.message))
		b.WriteString("\n\n")
	}

	if r.mode == reposModeDelete && len(r.repos) > 0 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf(
			"Remove '%s' and its stored commits? (y/n)\nNote: This only removes them from workday, not the actual repo.",
			r.repos[r.cursor].Source,
		)))
		b.WriteString("\n")
		return b.String()
	}

	if len(r.repos) == 0 {
		b.WriteString(DimStyle.Render("No repos stored yet. Run 'workday fetch', 'workday import' or install hooks."))
		b.WriteString("\n\n")
	} else {
		for i, repo := range r.repos {
			cursor := "  "
			style := NormalStyle
			if i == r.cursor {
				cursor = "> "
				style = SelectedStyle
			}

			active := ""
			if r.ws.RepoID != nil && *r.ws.RepoID == repo.ID {
				active = SuccessStyle.Render(" *")
			}

			b.WriteString(style.Render(fmt.Sprintf("%s%s", cursor, repo.Source)))
			b.WriteString(active)
			b.WriteString(DimStyle.Render(fmt.Sprintf(" (%d commits)", repo.CommitCount)))
			b.WriteString("\n")

			if i == r.cursor && repo.FirstCommit != nil && repo.LastCommit != nil {
				b.WriteString(DimStyle.Render(fmt.Sprintf("     %s to %s",
					repo.FirstCommit.Format("Jan 02, 2006"), repo.LastCommit.Format("Jan 02, 2006"))))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString(HelpStyle.Render("[↑/↓] Navigate  [enter] Select  [d] Remove  [esc] Back"))

	return b.String()
}
