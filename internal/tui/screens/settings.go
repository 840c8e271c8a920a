package screens

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/emilianohg/workday/internal/config"
)

const (
	fieldGap = iota
	fieldPolicy
	fieldStart
	fieldEnd
	fieldAuthors
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Gap threshold (hours)",
	"Gap policy (strict|inclusive)",
	"Start date (YYYY-MM-DD, empty = all)",
	"End date (YYYY-MM-DD, empty = today)",
	"Author emails (comma separated)",
}

type Settings struct {
	ws     *Workspace
	width  int
	height int

	inputs  [fieldCount]textinput.Model
	focus   int
	err     error
	message string
}

func NewSettings(ws *Workspace) *Settings {
	s := &Settings{ws: ws}
	for i := range s.inputs {
		ti := textinput.New()
		ti.CharLimit = 200
		ti.Width = 40
		s.inputs[i] = ti
	}
	s.inputs[fieldStart].Placeholder = "2024-01-01"
	s.inputs[fieldEnd].Placeholder = "today"
	s.inputs[fieldAuthors].Placeholder = "me@example.com"
	return s
}

func (s *Settings) SetSize(width, height int) {
	s.width = width
	s.height = height
}

func (s *Settings) Init() tea.Cmd {
	cfg := s.ws.Config
	s.inputs[fieldGap].SetValue(strconv.FormatFloat(cfg.GapThresholdHours, 'g', -1, 64))
	s.inputs[fieldPolicy].SetValue(cfg.GapPolicy)
	s.inputs[fieldStart].SetValue(cfg.StartDate)
	s.inputs[fieldEnd].SetValue(cfg.EndDate)
	s.inputs[fieldAuthors].SetValue(strings.Join(cfg.Authors, ", "))
	s.err = nil
	s.message = ""
	return s.setFocus(0)
}

func (s *Settings) setFocus(i int) tea.Cmd {
	s.focus = (i + fieldCount) % fieldCount
	for j := range s.inputs {
		s.inputs[j].Blur()
	}
	return s.inputs[s.focus].Focus()
}

func (s *Settings) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return Navigate("dashboard")
		case "tab", "down":
			return s.setFocus(s.focus + 1)
		case "shift+tab", "up":
			return s.setFocus(s.focus - 1)
		case "enter":
			if s.apply() {
				return Navigate("dashboard")
			}
			return nil
		case "ctrl+s":
			if s.apply() {
				s.save()
			}
			return nil
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return cmd
}

// apply validates the inputs and copies them into the shared config. The
// config is left untouched when any field is invalid.
func (s *Settings) apply() bool {
	next, err := s.candidate()
	if err != nil {
		s.err = err
		return false
	}
	if _, err := next.Options(s.ws.Now()); err != nil {
		s.err = err
		return false
	}
	*s.ws.Config = *next
	s.err = nil
	s.message = "Applied"
	return true
}

func (s *Settings) candidate() (*config.Config, error) {
	next := *s.ws.Config

	gap, err := strconv.ParseFloat(strings.TrimSpace(s.inputs[fieldGap].Value()), 64)
	if err != nil {
		return nil, fmt.Errorf("gap threshold must be a number")
	}
	next.GapThresholdHours = gap
	next.GapPolicy = strings.TrimSpace(s.inputs[fieldPolicy].Value())
	next.StartDate = strings.TrimSpace(s.inputs[fieldStart].Value())
	next.EndDate = strings.TrimSpace(s.inputs[fieldEnd].Value())

	next.Authors = nil
	for _, a := range strings.Split(s.inputs[fieldAuthors].Value(), ",") {
		if a = strings.TrimSpace(a); a != "" {
			next.Authors = append(next.Authors, a)
		}
	}
	return &next, nil
}

func (s *Settings) save() {
	if s.ws.ConfigPath == "" {
		s.message = "Applied (no config file to save to)"
		return
	}
	if err := config.Save(s.ws.ConfigPath, s.ws.Config); err != nil {
		s.err = fmt.Errorf("failed to save config: %w", err)
		return
	}
	s.message = fmt.Sprintf("Saved to %s", s.ws.ConfigPath)
}

func (s *Settings) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("SETTINGS"))
	b.WriteString("\n\n")

	for i := range s.inputs {
		label := NormalStyle
		if i == s.focus {
			label = SelectedStyle
		}
		b.WriteString(label.Render(fieldLabels[i]))
		b.WriteString("\n")
		b.WriteString(s.inputs[i].View())
		b.WriteString("\n\n")
	}

	if s.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", s.err)))
		b.WriteString("\n")
	} else if s.message != "" {
		b.WriteString(SuccessStyle.Render(s.message))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render("[tab] Next  [enter] Apply  [ctrl+s] Apply and save  [esc] Back"))

	return b.String()
}
