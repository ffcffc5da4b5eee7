package quiz

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/arya/internal/interview"
	"github.com/abhisek/arya/internal/interview/interviewtest"
	"github.com/abhisek/arya/internal/router"
	"github.com/abhisek/arya/internal/screen"
	"github.com/abhisek/arya/internal/screens/evaluation"
)

func newQuiz(t *testing.T) (*QuizScreen, *interview.Controller, *interview.FakeClock) {
	t.Helper()
	ctl, clock, err := interviewtest.Quizzing(&interviewtest.Oracle{})
	require.NoError(t, err)
	return New(screen.Session{Controller: ctl}), ctl, clock
}

func typeText(s *QuizScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func enter(s *QuizScreen) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func TestSubmitRecordsAnswer(t *testing.T) {
	s, ctl, _ := newQuiz(t)

	typeText(s, "a point")
	assert.Nil(t, enter(s))

	paper := ctl.State().Paper
	require.Len(t, paper.QA, 1)
	assert.Equal(t, "What is a vertex?", paper.QA[0].Question)
	assert.Equal(t, "a point", paper.QA[0].Answer)
	assert.Equal(t, interview.Medium, ctl.State().Level)
	assert.Empty(t, s.answer.Value())
}

func TestEmptySubmitSkipsQuestion(t *testing.T) {
	s, ctl, clock := newQuiz(t)

	clock.Advance(3 * time.Second)
	assert.Nil(t, enter(s))

	paper := ctl.State().Paper
	require.Len(t, paper.QA, 1)
	assert.Equal(t, "", paper.QA[0].Answer)
	assert.Equal(t, interview.Medium, ctl.State().Level)
	assert.Equal(t, clock.Now(), ctl.State().QuestionShownAt)
}

func TestTimeoutKeepsDraft(t *testing.T) {
	s, ctl, clock := newQuiz(t)

	typeText(s, "half an answer")
	clock.Advance(31 * time.Second)
	_, cmd := s.Update(tickMsg(clock.Now()))
	require.NotNil(t, cmd)

	paper := ctl.State().Paper
	require.Len(t, paper.QA, 1)
	assert.Equal(t, "half an answer", paper.QA[0].Answer)
	assert.Contains(t, s.View(80, 24), "Time's up!")
	assert.Empty(t, s.answer.Value())
}

func TestTimeoutWithoutDraft(t *testing.T) {
	s, ctl, clock := newQuiz(t)

	clock.Advance(30 * time.Second)
	s.Update(tickMsg(clock.Now()))

	paper := ctl.State().Paper
	require.Len(t, paper.QA, 1)
	assert.Equal(t, interview.TimeoutAnswer, paper.QA[0].Answer)
}

func TestTickBeforeDeadline(t *testing.T) {
	s, ctl, clock := newQuiz(t)

	clock.Advance(10 * time.Second)
	_, cmd := s.Update(tickMsg(clock.Now()))
	assert.NotNil(t, cmd)
	assert.Empty(t, ctl.State().Paper.QA)
	assert.Contains(t, s.View(80, 24), "20s")
}

func TestNoticeFades(t *testing.T) {
	s, _, clock := newQuiz(t)

	clock.Advance(30 * time.Second)
	s.Update(tickMsg(clock.Now()))
	require.Contains(t, s.View(80, 24), "Time's up!")

	clock.Advance(time.Second)
	s.Update(tickMsg(clock.Now()))
	clock.Advance(time.Second)
	s.Update(tickMsg(clock.Now()))
	assert.NotContains(t, s.View(80, 24), "Time's up!")
}

func TestLastAnswerMovesToEvaluation(t *testing.T) {
	s, ctl, _ := newQuiz(t)

	typeText(s, "a")
	enter(s)
	typeText(s, "b")
	enter(s)
	typeText(s, "c")
	cmd := enter(s)
	require.NotNil(t, cmd)

	msg := cmd()
	replace, ok := msg.(router.ReplaceScreenMsg)
	require.True(t, ok, "expected ReplaceScreenMsg, got %T", msg)
	assert.IsType(t, &evaluation.EvaluationScreen{}, replace.Screen)
	assert.Equal(t, interview.PhaseEvaluating, ctl.State().Phase)
	assert.Len(t, ctl.State().Paper.QA, 3)

	// Late ticks after the quiz ended are ignored.
	_, cmd = s.Update(tickMsg(time.Now()))
	assert.Nil(t, cmd)
}

func TestViewShowsQuestion(t *testing.T) {
	s, _, _ := newQuiz(t)

	view := s.View(80, 24)
	assert.Contains(t, view, "What is a vertex?")
	assert.Contains(t, view, "Easy")
	assert.Contains(t, view, "question 1 of 3")
}
