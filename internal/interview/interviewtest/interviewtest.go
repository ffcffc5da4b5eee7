// Package interviewtest provides a scripted oracle and controller setup
// for screen tests.
package interviewtest

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/arya/internal/interview"
)

// Epoch is the fake clock's starting time.
var Epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// Oracle is a scripted interview.Oracle.
type Oracle struct {
	mu sync.Mutex

	Questions map[interview.Level][]string
	Result    interview.Evaluation
	Reply     string

	Messages []string
}

// Generate returns up to n scripted questions for level.
func (o *Oracle) Generate(_ context.Context, _ string, level interview.Level, n int) []string {
	qs := o.Questions[level]
	if len(qs) > n {
		qs = qs[:n]
	}
	return qs
}

// Aggregate returns Result with the given paper attached.
func (o *Oracle) Aggregate(_ context.Context, paper interview.Paper) interview.Evaluation {
	r := o.Result
	r.Paper = paper
	return r
}

// Chat records message and returns Reply.
func (o *Oracle) Chat(_ context.Context, _ string, _ interview.Paper, message string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Messages = append(o.Messages, message)
	return o.Reply
}

// OneEach scripts one question per level.
func OneEach() map[interview.Level][]string {
	return map[interview.Level][]string{
		interview.Easy:   {"What is a vertex?"},
		interview.Medium: {"What is a spanning tree?"},
		interview.Hard:   {"Write BFS in one line"},
	}
}

// NewController returns a controller driven by o and a fake clock.
func NewController(o *Oracle) (*interview.Controller, *interview.FakeClock) {
	clock := interview.NewFakeClock(Epoch)
	return interview.NewController(o, interview.WithClock(clock)), clock
}

// Quizzing returns a controller already past generation, with one question
// per level on screen.
func Quizzing(o *Oracle) (*interview.Controller, *interview.FakeClock, error) {
	if o.Questions == nil {
		o.Questions = OneEach()
	}
	ctl, clock := NewController(o)
	if err := ctl.Start("Dana", "Graph Theory", 1); err != nil {
		return nil, nil, err
	}
	if err := ctl.Generate(context.Background()); err != nil {
		return nil, nil, err
	}
	return ctl, clock, nil
}

// Evaluating returns a controller with every question answered.
func Evaluating(o *Oracle) (*interview.Controller, error) {
	ctl, clock, err := Quizzing(o)
	if err != nil {
		return nil, err
	}
	for ctl.State().Phase == interview.PhaseQuizzing {
		clock.Advance(time.Second)
		if err := ctl.Submit("answer"); err != nil {
			return nil, err
		}
	}
	return ctl, nil
}
