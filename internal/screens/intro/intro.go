// Package intro is the opening form: candidate name, topic and how many
// questions to ask per level.
package intro

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/arya/internal/interview"
	"github.com/abhisek/arya/internal/router"
	"github.com/abhisek/arya/internal/screen"
	"github.com/abhisek/arya/internal/screens/generating"
	"github.com/abhisek/arya/internal/ui/components"
	"github.com/abhisek/arya/internal/ui/layout"
	"github.com/abhisek/arya/internal/ui/theme"
)

const (
	fieldName = iota
	fieldTopic
	fieldCount
	numFields
)

var labels = [numFields]string{"Your name", "Interview topic", "Questions per level"}

// IntroScreen collects the session settings.
type IntroScreen struct {
	sess   screen.Session
	inputs [numFields]components.TextInput
	focus  int
	errMsg string
	done   bool
}

var _ screen.Screen = (*IntroScreen)(nil)
var _ screen.KeyHintProvider = (*IntroScreen)(nil)

// New creates the form with perLevel pre-filled.
func New(sess screen.Session, perLevel int) *IntroScreen {
	s := &IntroScreen{sess: sess}
	s.inputs[fieldName] = components.NewTextInput("e.g. Dana", false, 60)
	s.inputs[fieldTopic] = components.NewTextInput("e.g. Graph Theory", false, 80)
	s.inputs[fieldCount] = components.NewTextInput(
		fmt.Sprintf("%d-%d", interview.MinQuestionsPerLevel, interview.MaxQuestionsPerLevel), true, 1)
	s.inputs[fieldCount].SetValue(strconv.Itoa(perLevel))

	for i := range s.inputs {
		if i != fieldName {
			s.inputs[i].Blur()
		}
	}
	return s
}

func (s *IntroScreen) Init() tea.Cmd {
	return s.inputs[fieldName].Init()
}

func (s *IntroScreen) Title() string {
	return "Welcome"
}

func (s *IntroScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *IntroScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return s, s.moveFocus(1)
		case "shift+tab", "up":
			return s, s.moveFocus(-1)
		case "enter":
			if s.focus < numFields-1 {
				return s, s.moveFocus(1)
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *IntroScreen) moveFocus(delta int) tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = (s.focus + delta + numFields) % numFields
	return s.inputs[s.focus].Focus()
}

func (s *IntroScreen) submit() tea.Cmd {
	if s.done {
		return nil
	}

	perLevel, err := s.inputs[fieldCount].NumericValue()
	if err != nil {
		s.errMsg = capitalize(interview.ErrQuestionCount.Error())
		return nil
	}

	err = s.sess.Controller.Start(s.inputs[fieldName].Value(), s.inputs[fieldTopic].Value(), perLevel)
	if err != nil {
		s.errMsg = capitalize(err.Error())
		switch {
		case errors.Is(err, interview.ErrEmptyName):
			return s.focusOn(fieldName)
		case errors.Is(err, interview.ErrEmptyTopic):
			return s.focusOn(fieldTopic)
		case errors.Is(err, interview.ErrQuestionCount):
			return s.focusOn(fieldCount)
		}
		return nil
	}

	s.done = true
	s.errMsg = ""
	next := generating.New(s.sess)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (s *IntroScreen) focusOn(f int) tea.Cmd {
	return s.moveFocus(f - s.focus)
}

func (s *IntroScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Interview practice"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(cw).Render(fmt.Sprintf(
		"Easy, medium and hard rounds. %s/%s/%s per question.",
		interview.Easy.TimeLimit(), interview.Medium.TimeLimit(), interview.Hard.TimeLimit())))
	b.WriteString("\n\n")

	for i, in := range s.inputs {
		style := theme.Unselected
		if i == s.focus {
			style = theme.Selected
		}
		b.WriteString(style.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	if s.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg))
	}

	return components.Centered(components.Card(b.String(), cw), width, height)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:] + "."
}
