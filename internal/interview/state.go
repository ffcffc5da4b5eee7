package interview

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Phase is the session's position in the linear workflow.
type Phase int

const (
	PhaseIntro Phase = iota
	PhaseGenerating
	PhaseQuizzing
	PhaseEvaluating
	PhaseChatting
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhaseGenerating:
		return "generating"
	case PhaseQuizzing:
		return "quizzing"
	case PhaseEvaluating:
		return "evaluating"
	case PhaseChatting:
		return "chatting"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Validation and transition errors returned by Transition.
var (
	ErrEmptyName         = errors.New("please enter your name")
	ErrEmptyTopic        = errors.New("please enter a topic")
	ErrQuestionCount     = fmt.Errorf("questions per level must be between %d and %d", MinQuestionsPerLevel, MaxQuestionsPerLevel)
	ErrInvalidTransition = errors.New("invalid transition")
)

// State is the complete session state. Transition never mutates its input;
// slices are copied before they grow.
type State struct {
	Phase    Phase
	Name     string
	Topic    string
	PerLevel int

	// Questions holds the questions kept for each level.
	Questions map[Level][]string

	// Level and Index point at the question on screen while quizzing.
	Level Level
	Index int

	// QuestionShownAt is when the current question appeared.
	QuestionShownAt time.Time

	Paper  Paper
	Result *Evaluation
	Chat   []ChatMessage
}

// NewState returns a fresh session waiting at the intro form.
func NewState() State {
	return State{Phase: PhaseIntro, PerLevel: DefaultQuestionsPerLevel}
}

// CurrentQuestion returns the question on screen, if any.
func (s State) CurrentQuestion() (string, bool) {
	if s.Phase != PhaseQuizzing {
		return "", false
	}
	qs := s.Questions[s.Level]
	if s.Index < 0 || s.Index >= len(qs) {
		return "", false
	}
	return qs[s.Index], true
}

// LevelTotal is the number of questions kept for the current level.
func (s State) LevelTotal() int {
	return len(s.Questions[s.Level])
}

// TotalQuestions is the number of questions that will be presented.
func (s State) TotalQuestions() int {
	n := 0
	for _, l := range Levels {
		n += len(s.Questions[l])
	}
	return n
}

// Deadline is when the current question times out.
func (s State) Deadline() time.Time {
	return s.QuestionShownAt.Add(s.Level.TimeLimit())
}

// Remaining is the time left on the current question at now, never negative.
func (s State) Remaining(now time.Time) time.Duration {
	if s.Phase != PhaseQuizzing {
		return 0
	}
	d := s.Deadline().Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Event is an input to Transition. The set is closed to this package.
type Event interface {
	isEvent()
}

// StartEvent submits the intro form.
type StartEvent struct {
	Name     string
	Topic    string
	PerLevel int
}

// QuestionsReadyEvent delivers the generated questions.
type QuestionsReadyEvent struct {
	Questions map[Level][]string
	At        time.Time
}

// SubmitEvent records an explicit answer.
type SubmitEvent struct {
	Answer string
	At     time.Time
}

// TickEvent is the once-per-second timer poll carrying the unsubmitted draft.
type TickEvent struct {
	Now   time.Time
	Draft string
}

// EvaluatedEvent stores the scored result.
type EvaluatedEvent struct {
	Result Evaluation
}

// OpenChatEvent moves from the results to the chat.
type OpenChatEvent struct{}

// ChatTurnEvent appends one exchange to the chat log.
type ChatTurnEvent struct {
	Message string
	Reply   string
}

func (StartEvent) isEvent()          {}
func (QuestionsReadyEvent) isEvent() {}
func (SubmitEvent) isEvent()         {}
func (TickEvent) isEvent()           {}
func (EvaluatedEvent) isEvent()      {}
func (OpenChatEvent) isEvent()       {}
func (ChatTurnEvent) isEvent()       {}

// Transition applies e to s and returns the next state. On error the
// returned state equals s.
func Transition(s State, e Event) (State, error) {
	switch ev := e.(type) {
	case StartEvent:
		if s.Phase != PhaseIntro {
			return s, invalid(s, e)
		}
		return start(s, ev)

	case QuestionsReadyEvent:
		if s.Phase != PhaseGenerating {
			return s, invalid(s, e)
		}
		return questionsReady(s, ev), nil

	case SubmitEvent:
		if _, ok := s.CurrentQuestion(); !ok {
			return s, invalid(s, e)
		}
		return record(s, ev.Answer, ev.At), nil

	case TickEvent:
		if _, ok := s.CurrentQuestion(); !ok {
			return s, invalid(s, e)
		}
		if ev.Now.Before(s.Deadline()) {
			return s, nil
		}
		answer := ev.Draft
		if answer == "" {
			answer = TimeoutAnswer
		}
		return record(s, answer, ev.Now), nil

	case EvaluatedEvent:
		if s.Phase != PhaseEvaluating || s.Result != nil {
			return s, invalid(s, e)
		}
		r := ev.Result
		s.Result = &r
		return s, nil

	case OpenChatEvent:
		if s.Phase != PhaseEvaluating || s.Result == nil {
			return s, invalid(s, e)
		}
		s.Phase = PhaseChatting
		s.Chat = []ChatMessage{{Role: RoleAssistant, Content: Greeting(s.Name)}}
		return s, nil

	case ChatTurnEvent:
		if s.Phase != PhaseChatting {
			return s, invalid(s, e)
		}
		s.Chat = append(slices.Clone(s.Chat),
			ChatMessage{Role: RoleUser, Content: ev.Message},
			ChatMessage{Role: RoleAssistant, Content: ev.Reply},
		)
		return s, nil
	}
	return s, invalid(s, e)
}

func invalid(s State, e Event) error {
	return fmt.Errorf("%w: %T in phase %s", ErrInvalidTransition, e, s.Phase)
}

func start(s State, ev StartEvent) (State, error) {
	name := strings.TrimSpace(ev.Name)
	topic := strings.TrimSpace(ev.Topic)
	switch {
	case name == "":
		return s, ErrEmptyName
	case topic == "":
		return s, ErrEmptyTopic
	case ev.PerLevel < MinQuestionsPerLevel || ev.PerLevel > MaxQuestionsPerLevel:
		return s, ErrQuestionCount
	}

	next := NewState()
	next.Phase = PhaseGenerating
	next.Name = name
	next.Topic = topic
	next.PerLevel = ev.PerLevel
	next.Paper = Paper{Name: name, Topic: topic}
	return next, nil
}

func questionsReady(s State, ev QuestionsReadyEvent) State {
	kept := make(map[Level][]string, len(Levels))
	for _, l := range Levels {
		qs := ev.Questions[l]
		if len(qs) > s.PerLevel {
			qs = qs[:s.PerLevel]
		}
		kept[l] = slices.Clone(qs)
	}

	s.Questions = kept
	s.Phase = PhaseQuizzing
	s.Level = Easy
	s.Index = 0
	s.QuestionShownAt = ev.At
	return settle(s)
}

// record appends an answer for the current question and advances.
func record(s State, answer string, at time.Time) State {
	q, _ := s.CurrentQuestion()
	s.Paper.QA = append(slices.Clone(s.Paper.QA), AnswerRecord{
		Level:    s.Level,
		Question: q,
		Answer:   answer,
	})
	s.Index++
	s.QuestionShownAt = at
	return settle(s)
}

// settle moves past exhausted or empty levels, ending in Evaluating once
// Hard is done.
func settle(s State) State {
	for s.Index >= len(s.Questions[s.Level]) {
		if s.Level == Hard {
			s.Phase = PhaseEvaluating
			s.Index = 0
			return s
		}
		s.Level++
		s.Index = 0
	}
	return s
}
