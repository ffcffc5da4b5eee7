package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/arya/internal/interview"
	"github.com/abhisek/arya/internal/logging"
	"github.com/abhisek/arya/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Session is what every interview screen shares: the controller that owns
// the session state and the logger oracle calls report to.
type Session struct {
	Controller *interview.Controller
	Logger     logrus.FieldLogger
}

// Log returns the session logger, or a discarding one.
func (s Session) Log() logrus.FieldLogger {
	if s.Logger == nil {
		return logging.Discard()
	}
	return s.Logger
}

// Context returns a context carrying the session logger, for commands
// that call the oracle.
func (s Session) Context() context.Context {
	return logging.NewContext(context.Background(), s.Log())
}
