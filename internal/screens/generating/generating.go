// Package generating shows a spinner while the oracle writes the questions
// for every level.
package generating

import (
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/arya/internal/interview"
	"github.com/abhisek/arya/internal/router"
	"github.com/abhisek/arya/internal/screen"
	"github.com/abhisek/arya/internal/screens/evaluation"
	"github.com/abhisek/arya/internal/screens/quiz"
	"github.com/abhisek/arya/internal/ui/theme"
)

// questionsMsg carries the fetched questions back to Update.
type questionsMsg struct {
	Questions map[interview.Level][]string
}

// GeneratingScreen waits for question generation.
type GeneratingScreen struct {
	sess    screen.Session
	spinner spinner.Model
	errMsg  string
}

var _ screen.Screen = (*GeneratingScreen)(nil)

// New creates the screen. The controller must be in the generating phase.
func New(sess screen.Session) *GeneratingScreen {
	return &GeneratingScreen{
		sess: sess,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
	}
}

func (s *GeneratingScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.fetch())
}

func (s *GeneratingScreen) Title() string {
	return "Preparing"
}

func (s *GeneratingScreen) fetch() tea.Cmd {
	ctl := s.sess.Controller
	ctx := s.sess.Context()
	return func() tea.Msg {
		return questionsMsg{Questions: ctl.FetchQuestions(ctx)}
	}
}

func (s *GeneratingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsMsg:
		return s.handleQuestions(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *GeneratingScreen) handleQuestions(msg questionsMsg) (screen.Screen, tea.Cmd) {
	ctl := s.sess.Controller
	if err := ctl.QuestionsReady(msg.Questions); err != nil {
		s.errMsg = err.Error()
		return s, nil
	}

	var next screen.Screen
	switch ctl.State().Phase {
	case interview.PhaseQuizzing:
		next = quiz.New(s.sess)
	default:
		// Nothing usable came back for any level.
		next = evaluation.New(s.sess)
	}
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *GeneratingScreen) View(width, height int) string {
	var content string
	if s.errMsg != "" {
		content = lipgloss.NewStyle().Foreground(theme.Error).Render("Error: " + s.errMsg)
	} else {
		topic := s.sess.Controller.State().Topic
		content = s.spinner.View() + " " + theme.Body.Render(
			fmt.Sprintf("Generating %s questions...", topic))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
