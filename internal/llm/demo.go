package llm

import (
	"context"
	"encoding/json"
	"strings"
)

var demoQuestions = map[string][]string{
	"easy": {
		"What problem does this topic solve?",
		"Name one term every beginner should know.",
		"Give a one-line example of the basic idea.",
		"What is a common beginner mistake?",
		"Which tool would you reach for first?",
	},
	"medium": {
		"Compare two common approaches and when to use each.",
		"Write a one-line snippet that shows a typical use.",
		"What trade-off matters most in practice?",
		"How would you debug a failure here?",
		"Which metric tells you it works?",
	},
	"hard": {
		"How does this behave at scale?",
		"Write a one-line expression for the worst-case cost.",
		"Which edge case breaks naive solutions?",
		"How would you test this under concurrency?",
		"What would you change in a production design?",
	},
}

// NewDemoProvider returns a MockProvider that answers every purpose with
// fixed offline replies, so the app runs without an API key.
func NewDemoProvider() *MockProvider {
	m := NewMockProvider()
	m.Responder = demoReply
	return m
}

func demoReply(ctx context.Context, req Request) string {
	switch PurposeFrom(ctx) {
	case PurposeQuestionGen:
		level := ""
		if len(req.Messages) > 0 {
			level = strings.ToLower(strings.TrimSpace(req.Messages[len(req.Messages)-1].Content))
		}
		qs, ok := demoQuestions[level]
		if !ok {
			qs = demoQuestions["easy"]
		}
		b, _ := json.Marshal(qs)
		return string(b)
	case PurposeScore:
		return "7"
	case PurposeSuggestion:
		return "Demo mode: answers are not really graded. Configure a provider API key for real feedback."
	default:
		return "Demo mode: I can't discuss your answers offline. Configure a provider API key and ask again."
	}
}
