package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/emilianohg/workday/internal/timesheet"
)

type Options struct {
	Source       string
	Authors      []string
	Start        timesheet.Date
	End          timesheet.Date
	ShowSessions bool
}

type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	dim   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		label: r.NewStyle().Foreground(lipgloss.Color("252")),
		value: r.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		dim:   r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Render writes the summary as plain lines. Colors are only emitted when w
// is a terminal.
func Render(w io.Writer, s timesheet.Summary, opts Options) error {
	st := newStyles(lipgloss.NewRenderer(w))
	var b strings.Builder

	if opts.Source != "" {
		b.WriteString(st.title.Render(opts.Source))
		b.WriteString("\n")
	}

	who := AuthorLabel(opts.Authors)
	fmt.Fprintf(&b, "~%s hours worked by %s %s\n",
		st.value.Render(fmt.Sprintf("%d", WholeHours(s.HoursInRange))), who, RangeLabel(opts.Start, opts.End))

	fmt.Fprintf(&b, "Percentage of total commits by %s: %s\n", who, percent(st, s.CommitShare, s.SharesDefined))
	fmt.Fprintf(&b, "Percentage of lines changed by %s: %s\n", who, percent(st, s.LineShare, s.LineShareDefined))

	if s.HasLongest {
		fmt.Fprintf(&b, "Longest workday: %s, %s hours (%d commits)\n",
			s.Longest.Date, st.value.Render(fmt.Sprintf("%.2f", s.Longest.DurationHours())), len(s.Longest.Commits))
	} else {
		b.WriteString("Longest workday: " + st.dim.Render("none") + "\n")
	}

	fmt.Fprintf(&b, "Total lines of code added: %d\n", s.Totals.Additions)
	fmt.Fprintf(&b, "Total lines of code deleted: %d\n", s.Totals.Deletions)
	fmt.Fprintf(&b, "Total lines of code changed: %d\n", s.Totals.TotalChanges)

	if opts.ShowSessions {
		b.WriteString("\n")
		writeSessions(&b, st, s.Sessions)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSessions(b *strings.Builder, st styles, sessions []timesheet.WorkSession) {
	if len(sessions) == 0 {
		b.WriteString(st.dim.Render("No work sessions.") + "\n")
		return
	}

	b.WriteString(st.label.Render(fmt.Sprintf("%-10s  %-5s  %-5s  %7s  %7s", "DATE", "START", "END", "HOURS", "COMMITS")))
	b.WriteString("\n")
	for _, ws := range sessions {
		fmt.Fprintf(b, "%-10s  %-5s  %-5s  %7.2f  %7d\n",
			ws.Date,
			ws.First().Timestamp.Format("15:04"),
			ws.Last().Timestamp.Format("15:04"),
			ws.DurationHours(),
			len(ws.Commits),
		)
	}
}

// WholeHours truncates hours the way the summary line shows them.
func WholeHours(hours float64) int {
	return int(math.Floor(math.Abs(hours)))
}

func AuthorLabel(authors []string) string {
	if len(authors) == 0 {
		return "(no author set)"
	}
	return strings.Join(authors, ", ")
}

func RangeLabel(start, end timesheet.Date) string {
	if start.IsZero() {
		return "through " + end.String()
	}
	return fmt.Sprintf("between %s and %s", start, end)
}

func percent(st styles, share float64, defined bool) string {
	if !defined {
		return st.dim.Render("n/a")
	}
	return st.value.Render(fmt.Sprintf("%.2f%%", share))
}
