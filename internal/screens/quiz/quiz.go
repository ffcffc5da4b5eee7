// Package quiz presents the timed questions one at a time.
package quiz

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/arya/internal/interview"
	"github.com/abhisek/arya/internal/router"
	"github.com/abhisek/arya/internal/screen"
	"github.com/abhisek/arya/internal/screens/evaluation"
	"github.com/abhisek/arya/internal/ui/components"
	"github.com/abhisek/arya/internal/ui/layout"
	"github.com/abhisek/arya/internal/ui/theme"
)

// timeUpTicks is how many ticks the "Time's up!" notice stays visible.
const timeUpTicks = 2

// tickMsg polls the question deadline once a second.
type tickMsg time.Time

// QuizScreen shows the current question, its countdown and the answer box.
type QuizScreen struct {
	sess     screen.Session
	answer   textarea.Model
	timeUp   int
	finished bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates the screen. The controller must be in the quizzing phase.
func New(sess screen.Session) *QuizScreen {
	ta := textarea.New()
	ta.Placeholder = "Type your answer..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 500
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	return &QuizScreen{sess: sess, answer: ta}
}

func (s *QuizScreen) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, tickCmd())
}

func (s *QuizScreen) Title() string {
	return s.sess.Controller.State().Level.Label() + " round"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.finished {
		return s, nil
	}

	switch msg := msg.(type) {
	case tickMsg:
		return s.handleTick()

	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			return s.submit()
		}
	}

	var cmd tea.Cmd
	s.answer, cmd = s.answer.Update(msg)
	return s, cmd
}

func (s *QuizScreen) handleTick() (screen.Screen, tea.Cmd) {
	if s.timeUp > 0 {
		s.timeUp--
	}

	timedOut, err := s.sess.Controller.Tick(s.answer.Value())
	if err != nil {
		s.sess.Log().WithError(err).Error("quiz tick")
		return s, nil
	}
	if timedOut {
		s.answer.Reset()
		s.timeUp = timeUpTicks
	}

	if next := s.advance(); next != nil {
		return s, next
	}
	return s, tickCmd()
}

func (s *QuizScreen) submit() (screen.Screen, tea.Cmd) {
	if err := s.sess.Controller.Submit(s.answer.Value()); err != nil {
		s.sess.Log().WithError(err).Error("submit answer")
		return s, nil
	}
	s.answer.Reset()
	s.timeUp = 0
	return s, s.advance()
}

// advance leaves the quiz once every question has been recorded.
func (s *QuizScreen) advance() tea.Cmd {
	if s.sess.Controller.State().Phase != interview.PhaseEvaluating {
		return nil
	}
	s.finished = true
	next := evaluation.New(s.sess)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *QuizScreen) View(width, height int) string {
	st := s.sess.Controller.State()
	question, ok := st.CurrentQuestion()
	if !ok {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Wrapping up..."))
	}

	cw := components.ContentWidth(width)
	s.answer.SetWidth(cw - 4)

	var b strings.Builder

	info := theme.Label.Render(fmt.Sprintf("%s  %d/%d", st.Level.Label(), st.Index+1, st.LevelTotal()))
	overall := theme.Hint.Render(fmt.Sprintf("question %d of %d", len(st.Paper.QA)+1, st.TotalQuestions()))
	gap := cw - lipgloss.Width(info) - lipgloss.Width(overall)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(info + strings.Repeat(" ", gap) + overall)
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Bold(true).Render(question))
	b.WriteString("\n\n")

	b.WriteString(components.NewCountdown(s.sess.Controller.Remaining(), st.Level.TimeLimit(), cw).View())
	b.WriteString("\n\n")

	b.WriteString(s.answer.View())
	b.WriteString("\n")

	if s.timeUp > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Warning.Render("Time's up!"))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
