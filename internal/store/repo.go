package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match ("" = any)
	From    time.Time // timestamp >= From
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM calls grouped by purpose or model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// Session lifecycle actions.
const (
	SessionStart = "start"
	SessionEnd   = "end"
)

// SessionEventData records the start or end of an interview session.
// Score fields are only meaningful on SessionEnd.
type SessionEventData struct {
	SessionID    string
	Action       string
	Name         string
	Topic        string
	PerLevel     int
	Score        int
	Passed       bool
	Suggestion   string
	Answered     int
	DurationSecs int
}

// AnswerEventData records one answered (or timed-out) question.
type AnswerEventData struct {
	SessionID string
	Level     string
	Question  string
	Answer    string
	TimedOut  bool
	ElapsedMs int64
}

// SessionSummary joins a session's start and end events.
type SessionSummary struct {
	SessionID  string
	StartedAt  time.Time
	Name       string
	Topic      string
	PerLevel   int
	Finished   bool
	Score      int
	Passed     bool
	Suggestion string
	Answered   int
	Duration   time.Duration
}

// AnswerRecord is a stored answer event.
type AnswerRecord struct {
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAnswerEvent records an answer in presentation order.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)

	// ListSessions returns session summaries, newest first.
	ListSessions(ctx context.Context, limit int) ([]SessionSummary, error)

	// GetSession returns one session summary, or nil if unknown.
	GetSession(ctx context.Context, sessionID string) (*SessionSummary, error)

	// SessionAnswers returns a session's answers in presentation order.
	SessionAnswers(ctx context.Context, sessionID string) ([]AnswerRecord, error)
}
