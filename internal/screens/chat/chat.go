// Package chat is the follow-up conversation about the finished quiz.
package chat

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/arya/internal/interview"
	"github.com/abhisek/arya/internal/screen"
	"github.com/abhisek/arya/internal/ui/components"
	"github.com/abhisek/arya/internal/ui/layout"
	"github.com/abhisek/arya/internal/ui/theme"
)

// replyMsg carries an oracle reply back to Update.
type replyMsg struct {
	Message string
	Reply   string
}

// ChatScreen shows the chat log and an input line.
type ChatScreen struct {
	sess    screen.Session
	input   components.TextInput
	spinner spinner.Model
	pending string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates the screen. The controller must be in the chatting phase.
func New(sess screen.Session) *ChatScreen {
	return &ChatScreen{
		sess:  sess,
		input: components.NewTextInput("Ask about your answers...", false, 500),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ChatScreen) Title() string {
	return "Chat"
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		s.pending = ""
		if err := s.sess.Controller.ChatTurn(msg.Message, msg.Reply); err != nil {
			s.sess.Log().WithError(err).Error("append chat turn")
		}
		return s, nil

	case spinner.TickMsg:
		if s.pending == "" {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, tea.Quit
		case "enter":
			return s.send()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) send() (screen.Screen, tea.Cmd) {
	message := strings.TrimSpace(s.input.Value())
	if message == "" || s.pending != "" {
		return s, nil
	}
	s.pending = message
	s.input.Reset()

	ctl := s.sess.Controller
	ctx := s.sess.Context()
	ask := func() tea.Msg {
		return replyMsg{Message: message, Reply: ctl.Reply(ctx, message)}
	}
	return s, tea.Batch(ask, s.spinner.Tick)
}

func (s *ChatScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var lines []string
	for _, m := range s.sess.Controller.State().Chat {
		lines = append(lines, renderMessage(m, cw), "")
	}
	if s.pending != "" {
		lines = append(lines,
			renderMessage(interview.ChatMessage{Role: interview.RoleUser, Content: s.pending}, cw), "",
			s.spinner.View()+" "+theme.Hint.Render("thinking..."), "")
	}

	inputView := s.input.View()
	logHeight := height - lipgloss.Height(inputView) - 2
	if layout.IsCompactHeight(height) {
		logHeight = height - lipgloss.Height(inputView) - 1
	}

	log := strings.Join(lines, "\n")
	if logHeight > 0 {
		// Keep the most recent lines in view.
		all := strings.Split(log, "\n")
		if len(all) > logHeight {
			all = all[len(all)-logHeight:]
		}
		log = strings.Join(all, "\n")
	}

	body := lipgloss.NewStyle().Width(cw).Height(max(logHeight, 0)).Render(log) + "\n\n" + inputView
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func renderMessage(m interview.ChatMessage, width int) string {
	speaker := theme.AssistantSpeaker.Render("Arya")
	if m.Role == interview.RoleUser {
		speaker = theme.UserSpeaker.Render("You")
	}
	text := lipgloss.NewStyle().Width(width).Foreground(theme.Text).Render(m.Content)
	return speaker + "\n" + text
}
