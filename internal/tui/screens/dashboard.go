package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/workday/internal/report"
)

type Dashboard struct {
	ws     *Workspace
	width  int
	height int

	data    *SummaryData
	loading bool
	err     error
}

func NewDashboard(ws *Workspace) *Dashboard {
	return &Dashboard{
		ws:      ws,
		loading: true,
	}
}

func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

type dashboardDataMsg struct {
	data *SummaryData
	err  error
}

func (d *Dashboard) Init() tea.Cmd {
	d.loading = true
	return d.loadData
}

func (d *Dashboard) loadData() tea.Msg {
	data, err := LoadSummary(d.ws)
	return dashboardDataMsg{data: data, err: err}
}

func (d *Dashboard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.loading = false
		d.err = msg.err
		d.data = msg.data
		return nil

	case RefreshMsg:
		return d.Init()

	case tea.KeyMsg:
		switch msg.String() {
		case "s":
			return Navigate("sessions")
		case "o":
			return Navigate("repos")
		case "e":
			return Navigate("settings")
		case "r":
			return d.Init()
		}
	}

	return nil
}

func (d *Dashboard) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("WORKDAY"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Hours inferred from commit history"))
	b.WriteString("\n\n")

	if d.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if d.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", d.err)))
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("[e] Settings  [q] Quit"))
		return b.String()
	}

	if d.data.Repo == nil {
		b.WriteString(DimStyle.Render("No commits stored yet. Run 'workday fetch' or 'workday import'."))
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("[o] Repos  [e] Settings  [q] Quit"))
		return b.String()
	}

	s := d.data.Summary
	opts := d.data.Options
	who := report.AuthorLabel(d.ws.Config.Authors)

	b.WriteString(NormalStyle.Render(d.data.Repo.Source))
	b.WriteString("\n\n")

	stats := []string{
		fmt.Sprintf("Hours worked:   %s  %s", SuccessStyle.Render(fmt.Sprintf("~%d", report.WholeHours(s.HoursInRange))),
			DimStyle.Render(report.RangeLabel(opts.StartDate, opts.EndDate))),
		fmt.Sprintf("Work sessions:  %d", len(s.Sessions)),
		fmt.Sprintf("Commit share:   %s", shareText(s.CommitShare, s.SharesDefined)),
		fmt.Sprintf("Line share:     %s", shareText(s.LineShare, s.LineShareDefined)),
		fmt.Sprintf("Commits:        %d total, %d by %s", s.CommitCount, len(s.AuthorCommits), who),
		fmt.Sprintf("Lines:          +%d -%d", s.Totals.Additions, s.Totals.Deletions),
	}
	if s.HasLongest {
		stats = append(stats, fmt.Sprintf("Longest day:    %s (%.2fh)", s.Longest.Date, s.Longest.DurationHours()))
	}
	b.WriteString(BoxStyle.Render(strings.Join(stats, "\n")))
	b.WriteString("\n\n")

	b.WriteString(DimStyle.Render(fmt.Sprintf("Gap threshold: %gh (%s)", opts.GapThresholdHours, opts.GapPolicy)))
	b.WriteString("\n")

	help := "[s] Sessions  [o] Repos  [e] Settings  [r] Reload  [q] Quit"
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}

func shareText(share float64, defined bool) string {
	if !defined {
		return DimStyle.Render("n/a")
	}
	return fmt.Sprintf("%.2f%%", share)
}
