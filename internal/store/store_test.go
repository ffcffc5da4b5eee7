package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		// In-memory databases report journal_mode "memory", so WAL is
		// checked against a file DB below.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		require.NoError(t, s.DB().QueryRow("PRAGMA "+tt.pragma).Scan(&got))
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestOpen_FileDBUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arya.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arya.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "score", Success: true}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err, "migration must be idempotent")
	defer s.Close()

	events, err := s.EventRepo().QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestSequenceCounter_Monotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		n, err := s.seq.Next(ctx)
		require.NoError(t, err)
		assert.Greater(t, n, last)
		last = n
	}
}

func TestLLMEvents_AppendQueryGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "question-gen",
		InputTokens: 100, OutputTokens: 40, LatencyMs: 900, Success: true,
		RequestBody: "[user]\neasy", ResponseBody: `["q1"]`,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "score",
		InputTokens: 30, OutputTokens: 1, LatencyMs: 300, Success: false,
		ErrorMessage: "rate limited",
	}))

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "score", events[0].Purpose, "newest first")
	assert.False(t, events[0].Success)
	assert.Equal(t, "rate limited", events[0].ErrorMessage)
	assert.Less(t, events[1].Sequence, events[0].Sequence)
	assert.False(t, events[0].Timestamp.IsZero())

	filtered, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "question-gen", Limit: 10})
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	got, err := repo.GetLLMEvent(ctx, filtered[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `["q1"]`, got.ResponseBody)
	assert.Equal(t, "[user]\neasy", got.RequestBody)
	assert.Equal(t, 100, got.InputTokens)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestLLMUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, d := range []LLMRequestEventData{
		{Model: "gpt-4o-mini", Purpose: "score", InputTokens: 10, OutputTokens: 1, LatencyMs: 100},
		{Model: "gpt-4o-mini", Purpose: "score", InputTokens: 20, OutputTokens: 1, LatencyMs: 300},
		{Model: "gpt-4o", Purpose: "chat", InputTokens: 50, OutputTokens: 25, LatencyMs: 1000},
	} {
		require.NoError(t, repo.AppendLLMRequest(ctx, d))
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, LLMUsage{Purpose: "score", Calls: 2, InputTokens: 30, OutputTokens: 2, AvgLatencyMs: 200}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, "gpt-4o-mini", byModel[0].Model)
	assert.Equal(t, "gpt-4o", byModel[1].Model)
	assert.Equal(t, 75, byModel[1].InputTokens+byModel[1].OutputTokens)
}

func TestSessions_ListAndAnswers(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", Action: SessionStart, Name: "Dana", Topic: "Graph Theory", PerLevel: 1,
	}))
	for _, a := range []AnswerEventData{
		{SessionID: "s1", Level: "Easy", Question: "q1", Answer: "a1", ElapsedMs: 1200},
		{SessionID: "s1", Level: "Medium", Question: "q2", Answer: "No answer (Time's up!)", TimedOut: true, ElapsedMs: 45000},
		{SessionID: "s1", Level: "Hard", Question: "q3", Answer: "a3", ElapsedMs: 9000},
	} {
		require.NoError(t, repo.AppendAnswerEvent(ctx, a))
	}
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s1", Action: SessionEnd, Score: 80, Passed: true,
		Suggestion: "Review shortest paths.", Answered: 3, DurationSecs: 95,
	}))
	require.NoError(t, repo.AppendSessionEvent(ctx, SessionEventData{
		SessionID: "s2", Action: SessionStart, Name: "Lee", Topic: "Go", PerLevel: 2,
	}))

	sessions, err := repo.ListSessions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, "s2", sessions[0].SessionID)
	assert.False(t, sessions[0].Finished)

	done := sessions[1]
	assert.Equal(t, "Dana", done.Name)
	assert.Equal(t, "Graph Theory", done.Topic)
	assert.True(t, done.Finished)
	assert.Equal(t, 80, done.Score)
	assert.True(t, done.Passed)
	assert.Equal(t, 3, done.Answered)
	assert.Equal(t, "1m35s", done.Duration.String())

	one, err := repo.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, "Review shortest paths.", one.Suggestion)

	unknown, err := repo.GetSession(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, unknown)

	answers, err := repo.SessionAnswers(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, answers, 3)
	assert.Equal(t, "q1", answers[0].Question)
	assert.True(t, answers[1].TimedOut)
	assert.Equal(t, "Hard", answers[2].Level)

	limited, err := repo.ListSessions(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestAppendSessionEvent_RejectsUnknownAction(t *testing.T) {
	s := openTestStore(t)
	err := s.EventRepo().AppendSessionEvent(context.Background(), SessionEventData{SessionID: "x", Action: "pause"})
	assert.Error(t, err)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("ARYA_DB", filepath.Join(dir, "custom", "x.db"))
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "custom", "x.db"), p)
	assert.DirExists(t, filepath.Join(dir, "custom"))

	t.Setenv("ARYA_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "arya", "arya.db"), p)
}
