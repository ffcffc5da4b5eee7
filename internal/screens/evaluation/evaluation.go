// Package evaluation scores the transcript and shows the result with a
// menu to open the follow-up chat.
package evaluation

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/arya/internal/interview"
	"github.com/abhisek/arya/internal/router"
	"github.com/abhisek/arya/internal/screen"
	"github.com/abhisek/arya/internal/screens/chat"
	"github.com/abhisek/arya/internal/ui/components"
	"github.com/abhisek/arya/internal/ui/layout"
	"github.com/abhisek/arya/internal/ui/theme"
)

// evaluatedMsg carries the oracle's verdict back to Update.
type evaluatedMsg struct {
	Result interview.Evaluation
}

// openChatMsg is sent by the menu's chat item.
type openChatMsg struct{}

// EvaluationScreen scores the session, then shows the outcome.
type EvaluationScreen struct {
	sess    screen.Session
	spinner spinner.Model
	menu    components.Menu
	result  *interview.Evaluation
	errMsg  string
}

var _ screen.Screen = (*EvaluationScreen)(nil)
var _ screen.KeyHintProvider = (*EvaluationScreen)(nil)

// New creates the screen. The controller must be in the evaluating phase.
func New(sess screen.Session) *EvaluationScreen {
	return &EvaluationScreen{
		sess: sess,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
		menu: components.NewMenu([]components.MenuItem{
			{Label: "Discuss my results", Action: func() tea.Cmd {
				return func() tea.Msg { return openChatMsg{} }
			}},
			{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
		}),
	}
}

func (s *EvaluationScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.score())
}

func (s *EvaluationScreen) Title() string {
	return "Results"
}

func (s *EvaluationScreen) KeyHints() []layout.KeyHint {
	if s.result == nil {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *EvaluationScreen) score() tea.Cmd {
	ctl := s.sess.Controller
	ctx := s.sess.Context()
	return func() tea.Msg {
		return evaluatedMsg{Result: ctl.Score(ctx)}
	}
}

func (s *EvaluationScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case evaluatedMsg:
		if err := s.sess.Controller.Evaluated(msg.Result); err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		result := msg.Result
		s.result = &result
		return s, nil

	case openChatMsg:
		if err := s.sess.Controller.OpenChat(); err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		next := chat.New(s.sess)
		return s, func() tea.Msg {
			return router.ReplaceScreenMsg{Screen: next}
		}

	case spinner.TickMsg:
		if s.result != nil {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		if s.result == nil {
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *EvaluationScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Error).Render("Error: "+s.errMsg))
	}
	if s.result == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			s.spinner.View()+" "+theme.Body.Render("Evaluating your answers..."))
	}

	cw := components.ContentWidth(width)
	r := s.result

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render(fmt.Sprintf("Score: %d / 100", r.Score)))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar("", float64(r.Score)/100, cw).View())
	b.WriteString("\n\n")

	if r.Passed() {
		b.WriteString(theme.Passed.Width(cw).Align(lipgloss.Center).Render("Congratulations, you passed!"))
	} else {
		b.WriteString(theme.Failed.Width(cw).Align(lipgloss.Center).Render(
			fmt.Sprintf("Not quite. You need %d to pass.", interview.PassThreshold)))
	}
	b.WriteString("\n\n")

	counts := r.Paper.CountByLevel()
	var parts []string
	for _, l := range interview.Levels {
		parts = append(parts, fmt.Sprintf("%s %d", l.Label(), counts[l]))
	}
	b.WriteString(theme.Subtitle.Width(cw).Render("Answered: " + strings.Join(parts, " · ")))
	b.WriteString("\n\n")

	b.WriteString(theme.Label.Render("Suggestion"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Render(r.Suggestion))
	b.WriteString("\n\n")

	b.WriteString(s.menu.View())

	return components.Centered(components.Card(b.String(), cw), width, height)
}
