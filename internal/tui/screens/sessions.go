package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type Sessions struct {
	ws     *Workspace
	width  int
	height int

	data     *SummaryData
	cursor   int
	expanded bool
	loading  bool
	err      error
}

func NewSessions(ws *Workspace) *Sessions {
	return &Sessions{ws: ws}
}

func (s *Sessions) SetSize(width, height int) {
	s.width = width
	s.height = height
}

type sessionsDataMsg struct {
	data *SummaryData
	err  error
}

func (s *Sessions) Init() tea.Cmd {
	s.loading = true
	s.expanded = false
	return s.loadData
}

func (s *Sessions) loadData() tea.Msg {
	data, err := LoadSummary(s.ws)
	return sessionsDataMsg{data: data, err: err}
}

func (s *Sessions) count() int {
	if s.data == nil {
		return 0
	}
	return len(s.data.Summary.Sessions)
}

func (s *Sessions) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case sessionsDataMsg:
		s.loading = false
		s.err = msg.err
		s.data = msg.data
		// Newest session first is the most useful starting point.
		s.cursor = max(0, s.count()-1)
		return nil

	case RefreshMsg:
		return s.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < s.count()-1 {
				s.cursor++
			}
		case "enter", " ":
			s.expanded = !s.expanded
		case "q", "esc":
			return Navigate("dashboard")
		}
	}

	return nil
}

// visibleRange returns the window of rows that fits the terminal height.
func (s *Sessions) visibleRange() (int, int) {
	n := s.count()
	rows := s.height - 10
	if rows < 5 || s.height == 0 {
		rows = 15
	}
	if n <= rows {
		return 0, n
	}
	start := s.cursor - rows/2
	start = max(0, min(start, n-rows))
	return start, start + rows
}

func (s *Sessions) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("WORK SESSIONS"))
	b.WriteString("\n\n")

	if s.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if s.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", s.err)))
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("[esc] Back"))
		return b.String()
	}

	if s.count() == 0 {
		b.WriteString(DimStyle.Render("No work sessions."))
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("[esc] Back"))
		return b.String()
	}

	sessions := s.data.Summary.Sessions
	opts := s.data.Options
	b.WriteString(DimStyle.Render(fmt.Sprintf("  %-10s  %-5s  %-5s  %7s  %7s", "DATE", "START", "END", "HOURS", "COMMITS")))
	b.WriteString("\n")

	from, to := s.visibleRange()
	for i := from; i < to; i++ {
		ws := sessions[i]
		cursor := "  "
		style := NormalStyle
		if i == s.cursor {
			cursor = "> "
			style = SelectedStyle
		} else if !ws.Date.Within(opts.StartDate, opts.EndDate) {
			style = DimStyle
		}

		line := fmt.Sprintf("%s%-10s  %-5s  %-5s  %7.2f  %7d",
			cursor,
			ws.Date,
			ws.First().Timestamp.Format("15:04"),
			ws.Last().Timestamp.Format("15:04"),
			ws.DurationHours(),
			len(ws.Commits),
		)
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		if i == s.cursor && s.expanded {
			for _, c := range ws.Commits {
				short := c.Hash
				if len(short) > 7 {
					short = short[:7]
				}
				b.WriteString(DimStyle.Render(fmt.Sprintf("     %s %s %s +%d -%d",
					c.Timestamp.Format("15:04"), short, c.AuthorEmail, c.Additions, c.Deletions)))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(DimStyle.Render("Times are UTC. Sessions outside the date range are dimmed."))
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("[↑/↓] Navigate  [enter] Commits  [esc] Back"))

	return b.String()
}
