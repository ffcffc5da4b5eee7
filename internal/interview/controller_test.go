package interview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/arya/internal/store"
)

type stubOracle struct {
	questions map[Level][]string
	result    Evaluation
	reply     string

	generated []Level
	chats     []string
}

func (o *stubOracle) Generate(_ context.Context, _ string, level Level, n int) []string {
	o.generated = append(o.generated, level)
	qs := o.questions[level]
	if len(qs) > n {
		qs = qs[:n]
	}
	return qs
}

func (o *stubOracle) Aggregate(_ context.Context, paper Paper) Evaluation {
	r := o.result
	r.Paper = paper
	return r
}

func (o *stubOracle) Chat(_ context.Context, _ string, _ Paper, message string) string {
	o.chats = append(o.chats, message)
	return o.reply
}

// recordingRepo captures session and answer events; other methods are
// unused by the controller.
type recordingRepo struct {
	store.EventRepo
	sessions []store.SessionEventData
	answers  []store.AnswerEventData
	fail     bool
}

func (r *recordingRepo) AppendSessionEvent(_ context.Context, d store.SessionEventData) error {
	if r.fail {
		return errors.New("disk full")
	}
	r.sessions = append(r.sessions, d)
	return nil
}

func (r *recordingRepo) AppendAnswerEvent(_ context.Context, d store.AnswerEventData) error {
	if r.fail {
		return errors.New("disk full")
	}
	r.answers = append(r.answers, d)
	return nil
}

func TestController_FullSession(t *testing.T) {
	clock := NewFakeClock(t0)
	repo := &recordingRepo{}
	oracle := &stubOracle{
		questions: map[Level][]string{
			Easy:   {"What is a vertex?"},
			Medium: {"What is a spanning tree?"},
			Hard:   {"Write Dijkstra in one line"},
		},
		result: Evaluation{Score: 80, Suggestion: "Practice proofs."},
		reply:  "You did well.",
	}
	c := NewController(oracle, WithClock(clock), WithEventRepo(repo))

	require.NoError(t, c.Start("Dana", "Graph Theory", 1))
	assert.NotEmpty(t, c.SessionID())
	require.NoError(t, c.Generate(context.Background()))
	assert.Equal(t, Levels, oracle.generated)
	assert.Equal(t, PhaseQuizzing, c.State().Phase)
	assert.Equal(t, 30*time.Second, c.Remaining())

	clock.Advance(10 * time.Second)
	require.NoError(t, c.Submit("a node"))

	clock.Advance(45 * time.Second)
	advanced, err := c.Tick("")
	require.NoError(t, err)
	assert.True(t, advanced)

	clock.Advance(5 * time.Second)
	advanced, err = c.Tick("dijkstra(...)")
	require.NoError(t, err)
	assert.False(t, advanced, "hard question still has time")
	require.NoError(t, c.Submit("heapq..."))

	st := c.State()
	assert.Equal(t, PhaseEvaluating, st.Phase)
	require.Len(t, st.Paper.QA, 3)
	assert.Equal(t, TimeoutAnswer, st.Paper.QA[1].Answer)

	res, err := c.Evaluate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 80, res.Score)
	assert.Len(t, res.Paper.QA, 3)

	require.NoError(t, c.OpenChat())
	reply, err := c.Chat(context.Background(), "what did I miss?")
	require.NoError(t, err)
	assert.Equal(t, "You did well.", reply)
	assert.Len(t, c.State().Chat, 3)

	require.Len(t, repo.sessions, 2)
	assert.Equal(t, store.SessionStart, repo.sessions[0].Action)
	assert.Equal(t, "Graph Theory", repo.sessions[0].Topic)
	end := repo.sessions[1]
	assert.Equal(t, store.SessionEnd, end.Action)
	assert.Equal(t, 80, end.Score)
	assert.True(t, end.Passed)
	assert.Equal(t, 3, end.Answered)
	assert.Equal(t, 60, end.DurationSecs)

	require.Len(t, repo.answers, 3)
	assert.Equal(t, "easy", repo.answers[0].Level)
	assert.Equal(t, int64(10000), repo.answers[0].ElapsedMs)
	assert.False(t, repo.answers[0].TimedOut)
	assert.True(t, repo.answers[1].TimedOut)
	assert.Equal(t, c.SessionID(), repo.answers[2].SessionID)
}

func TestController_StoreFailuresDoNotInterrupt(t *testing.T) {
	repo := &recordingRepo{fail: true}
	oracle := &stubOracle{questions: map[Level][]string{Easy: {"q"}}}
	c := NewController(oracle, WithClock(NewFakeClock(t0)), WithEventRepo(repo))

	require.NoError(t, c.Start("Dana", "Go", 1))
	require.NoError(t, c.Generate(context.Background()))
	require.NoError(t, c.Submit("a"))
	_, err := c.Evaluate(context.Background())
	require.NoError(t, err)
}

func TestController_RejectsOutOfOrderCalls(t *testing.T) {
	c := NewController(&stubOracle{}, WithClock(NewFakeClock(t0)))

	assert.ErrorIs(t, c.Generate(context.Background()), ErrInvalidTransition)
	assert.ErrorIs(t, c.Submit("x"), ErrInvalidTransition)
	_, err := c.Evaluate(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = c.Chat(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.ErrorIs(t, c.Start("", "Go", 1), ErrEmptyName)
	assert.Empty(t, c.SessionID())
}

func TestController_EmptyGenerationSkipsToEvaluating(t *testing.T) {
	c := NewController(&stubOracle{}, WithClock(NewFakeClock(t0)))
	require.NoError(t, c.Start("Dana", "Go", 3))
	require.NoError(t, c.Generate(context.Background()))
	assert.Equal(t, PhaseEvaluating, c.State().Phase)
	assert.Zero(t, c.Remaining())
}
