package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/arya/internal/interview"
	"github.com/abhisek/arya/internal/router"
	"github.com/abhisek/arya/internal/screen"
	"github.com/abhisek/arya/internal/screens/intro"
	"github.com/abhisek/arya/internal/ui/layout"
)

// Options configures the app.
type Options struct {
	Session screen.Session

	// QuestionsPerLevel pre-fills the intro form.
	QuestionsPerLevel int
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	sess   screen.Session
	width  int
	height int
}

// newAppModel creates a new AppModel starting at the intro form.
func newAppModel(opts Options) AppModel {
	perLevel := opts.QuestionsPerLevel
	if perLevel == 0 {
		perLevel = interview.DefaultQuestionsPerLevel
	}
	return AppModel{
		router: router.New(intro.New(opts.Session, perLevel)),
		sess:   opts.Session,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	st := m.sess.Controller.State()
	header := layout.RenderHeader(title, layout.SessionInfo(st.Name, st.Topic), m.width)

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
