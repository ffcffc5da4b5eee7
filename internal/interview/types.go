// Package interview holds the interview session state machine: the levels,
// the transcript it builds and the pure transition function that drives a
// session from the intro form to the follow-up chat.
package interview

import (
	"fmt"
	"strings"
	"time"
)

// Level is a question difficulty tier. Levels are always presented in
// Easy, Medium, Hard order.
type Level int

const (
	Easy Level = iota
	Medium
	Hard
)

// Levels lists every level in presentation order.
var Levels = []Level{Easy, Medium, Hard}

// String returns the lowercase level name. It doubles as the user message
// sent when asking the oracle for questions.
func (l Level) String() string {
	switch l {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Label returns the capitalized name for display.
func (l Level) Label() string {
	s := l.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// TimeLimit is the answer budget for one question of this level.
func (l Level) TimeLimit() time.Duration {
	switch l {
	case Easy:
		return 30 * time.Second
	case Medium:
		return 45 * time.Second
	case Hard:
		return 60 * time.Second
	}
	return 0
}

// Weight is the level's share of the aggregate score.
func (l Level) Weight() float64 {
	switch l {
	case Easy:
		return 0.3
	case Medium:
		return 0.4
	case Hard:
		return 0.3
	}
	return 0
}

// MarshalText encodes the level by its lowercase name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts any casing of a level name.
func (l *Level) UnmarshalText(b []byte) error {
	lv, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = lv
	return nil
}

// ParseLevel maps a level name to its Level.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if strings.EqualFold(s, l.String()) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown level %q", s)
}

// Session constants.
const (
	MinQuestionsPerLevel     = 1
	MaxQuestionsPerLevel     = 5
	DefaultQuestionsPerLevel = 2

	// PassThreshold is the lowest aggregate score that passes.
	PassThreshold = 70

	// TimeoutAnswer is recorded when a question times out with no draft.
	TimeoutAnswer = "No answer (Time's up!)"
)

// AnswerRecord is one presented question and the answer recorded for it.
type AnswerRecord struct {
	Level    Level  `json:"level" yaml:"level"`
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Paper is the session transcript handed to the oracle for scoring and chat.
type Paper struct {
	Name  string         `json:"name" yaml:"name"`
	Topic string         `json:"topic" yaml:"topic"`
	QA    []AnswerRecord `json:"qa" yaml:"qa"`
}

// CountByLevel returns how many records each level holds.
func (p Paper) CountByLevel() map[Level]int {
	out := make(map[Level]int, len(Levels))
	for _, qa := range p.QA {
		out[qa.Level]++
	}
	return out
}

// Evaluation is the scored outcome of a session.
type Evaluation struct {
	Score      int
	Suggestion string
	Paper      Paper
}

// Passed reports whether the score meets PassThreshold.
func (e Evaluation) Passed() bool {
	return e.Score >= PassThreshold
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of the follow-up chat log.
type ChatMessage struct {
	Role    Role
	Content string
}

// Greeting is the assistant message that opens the chat.
func Greeting(name string) string {
	return fmt.Sprintf("Hi %s! What would you like to discuss about your quiz?", name)
}
