package interview

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/arya/internal/logging"
	"github.com/abhisek/arya/internal/store"
)

// Oracle is the generative-model boundary the controller depends on.
// Implementations never fail: degraded results stand in for errors.
type Oracle interface {
	// Generate returns up to n questions on topic for level.
	Generate(ctx context.Context, topic string, level Level, n int) []string

	// Aggregate scores the paper and produces a suggestion.
	Aggregate(ctx context.Context, paper Paper) Evaluation

	// Chat answers a question about the paper.
	Chat(ctx context.Context, topic string, paper Paper, message string) string
}

// Controller owns one session's State and connects it to the oracle,
// the clock and the event store. It is not safe for concurrent use; the
// TUI only touches it from Update.
type Controller struct {
	state  State
	oracle Oracle
	clock  Clock
	events store.EventRepo
	log    logrus.FieldLogger

	sessionID string
	startedAt time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

// WithEventRepo records session and answer events to repo.
func WithEventRepo(repo store.EventRepo) Option {
	return func(ctl *Controller) { ctl.events = repo }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(ctl *Controller) { ctl.log = l }
}

// NewController returns a controller at the intro phase.
func NewController(oracle Oracle, opts ...Option) *Controller {
	c := &Controller{
		state:  NewState(),
		oracle: oracle,
		clock:  SystemClock,
		log:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the session state.
func (c *Controller) State() State { return c.state }

// SessionID is assigned by Start.
func (c *Controller) SessionID() string { return c.sessionID }

// Clock returns the controller's clock.
func (c *Controller) Clock() Clock { return c.clock }

func (c *Controller) apply(e Event) error {
	next, err := Transition(c.state, e)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// Start validates the intro form and moves to Generating.
func (c *Controller) Start(name, topic string, perLevel int) error {
	if err := c.apply(StartEvent{Name: name, Topic: topic, PerLevel: perLevel}); err != nil {
		return err
	}
	c.sessionID = uuid.NewString()
	c.startedAt = c.clock.Now()
	c.log = c.log.WithField("session_id", c.sessionID)
	c.log.WithFields(logrus.Fields{"topic": c.state.Topic, "per_level": perLevel}).Info("session started")

	c.persist(func(ctx context.Context) error {
		return c.events.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID: c.sessionID,
			Action:    store.SessionStart,
			Name:      c.state.Name,
			Topic:     c.state.Topic,
			PerLevel:  perLevel,
		})
	})
	return nil
}

// FetchQuestions asks the oracle for every level's questions without
// touching the state, so it can run off the UI goroutine.
func (c *Controller) FetchQuestions(ctx context.Context) map[Level][]string {
	out := make(map[Level][]string, len(Levels))
	for _, l := range Levels {
		out[l] = c.oracle.Generate(ctx, c.state.Topic, l, c.state.PerLevel)
		c.log.WithFields(logrus.Fields{"level": l.String(), "count": len(out[l])}).Debug("questions generated")
	}
	return out
}

// QuestionsReady stores fetched questions and starts the first timer.
func (c *Controller) QuestionsReady(qs map[Level][]string) error {
	return c.apply(QuestionsReadyEvent{Questions: qs, At: c.clock.Now()})
}

// Generate fetches and stores questions in one step.
func (c *Controller) Generate(ctx context.Context) error {
	if c.state.Phase != PhaseGenerating {
		return invalid(c.state, QuestionsReadyEvent{})
	}
	return c.QuestionsReady(c.FetchQuestions(ctx))
}

// Submit records answer for the current question.
func (c *Controller) Submit(answer string) error {
	shownAt := c.state.QuestionShownAt
	if err := c.apply(SubmitEvent{Answer: answer, At: c.clock.Now()}); err != nil {
		return err
	}
	c.recordAnswer(shownAt, false)
	return nil
}

// Tick polls the deadline. It reports whether the current question timed
// out and was recorded with draft (or the placeholder).
func (c *Controller) Tick(draft string) (bool, error) {
	before := len(c.state.Paper.QA)
	shownAt := c.state.QuestionShownAt
	if err := c.apply(TickEvent{Now: c.clock.Now(), Draft: draft}); err != nil {
		return false, err
	}
	if len(c.state.Paper.QA) == before {
		return false, nil
	}
	c.recordAnswer(shownAt, true)
	return true, nil
}

// Remaining is the time left on the current question.
func (c *Controller) Remaining() time.Duration {
	return c.state.Remaining(c.clock.Now())
}

// Score runs the oracle over the transcript without touching the state.
func (c *Controller) Score(ctx context.Context) Evaluation {
	return c.oracle.Aggregate(ctx, c.state.Paper)
}

// Evaluated stores the result and closes the session record.
func (c *Controller) Evaluated(result Evaluation) error {
	if err := c.apply(EvaluatedEvent{Result: result}); err != nil {
		return err
	}
	c.log.WithFields(logrus.Fields{"score": result.Score, "passed": result.Passed()}).Info("session evaluated")

	c.persist(func(ctx context.Context) error {
		return c.events.AppendSessionEvent(ctx, store.SessionEventData{
			SessionID:    c.sessionID,
			Action:       store.SessionEnd,
			Name:         c.state.Name,
			Topic:        c.state.Topic,
			PerLevel:     c.state.PerLevel,
			Score:        result.Score,
			Passed:       result.Passed(),
			Suggestion:   result.Suggestion,
			Answered:     len(c.state.Paper.QA),
			DurationSecs: int(c.clock.Now().Sub(c.startedAt).Seconds()),
		})
	})
	return nil
}

// Evaluate scores and stores the result in one step.
func (c *Controller) Evaluate(ctx context.Context) (Evaluation, error) {
	if c.state.Phase != PhaseEvaluating || c.state.Result != nil {
		return Evaluation{}, invalid(c.state, EvaluatedEvent{})
	}
	result := c.Score(ctx)
	if err := c.Evaluated(result); err != nil {
		return Evaluation{}, err
	}
	return result, nil
}

// OpenChat moves to the chat and seeds the greeting.
func (c *Controller) OpenChat() error {
	return c.apply(OpenChatEvent{})
}

// Reply asks the oracle about the paper without touching the state.
// Earlier chat turns are not sent.
func (c *Controller) Reply(ctx context.Context, message string) string {
	return c.oracle.Chat(ctx, c.state.Topic, c.state.Paper, message)
}

// ChatTurn appends an exchange to the chat log.
func (c *Controller) ChatTurn(message, reply string) error {
	return c.apply(ChatTurnEvent{Message: message, Reply: reply})
}

// Chat sends message and appends the exchange in one step.
func (c *Controller) Chat(ctx context.Context, message string) (string, error) {
	if c.state.Phase != PhaseChatting {
		return "", invalid(c.state, ChatTurnEvent{})
	}
	reply := c.Reply(ctx, message)
	if err := c.ChatTurn(message, reply); err != nil {
		return "", err
	}
	return reply, nil
}

func (c *Controller) recordAnswer(shownAt time.Time, timedOut bool) {
	qa := c.state.Paper.QA[len(c.state.Paper.QA)-1]
	elapsed := c.clock.Now().Sub(shownAt)

	c.persist(func(ctx context.Context) error {
		return c.events.AppendAnswerEvent(ctx, store.AnswerEventData{
			SessionID: c.sessionID,
			Level:     qa.Level.String(),
			Question:  qa.Question,
			Answer:    qa.Answer,
			TimedOut:  timedOut,
			ElapsedMs: elapsed.Milliseconds(),
		})
	})
}

// persist runs fn against the event store, if any. Failures are logged
// and never reach the session.
func (c *Controller) persist(fn func(context.Context) error) {
	if c.events == nil {
		return
	}
	if err := fn(context.Background()); err != nil {
		c.log.WithError(err).Warn("failed to record session event")
	}
}
