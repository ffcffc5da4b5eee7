package oracle

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/abhisek/arya/internal/llm"
)

// questionListSchema accepts a JSON array of strings.
var questionListSchema = &llm.Schema{
	Name: "question-list",
	Definition: map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	},
}

// StripFences removes a leading ``` or ```json fence and a trailing ```
// fence, trimming whitespace around each.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(text, "```json"):
		text = strings.TrimSpace(strings.TrimPrefix(text, "```json"))
	case strings.HasPrefix(text, "```"):
		text = strings.TrimSpace(strings.TrimPrefix(text, "```"))
	}
	if strings.HasSuffix(text, "```") {
		text = strings.TrimSpace(strings.TrimSuffix(text, "```"))
	}
	return text
}

// DecodeQuestions extracts the question list from a raw model reply.
// It never panics; any shape other than a JSON array of strings is an error.
func DecodeQuestions(raw string) ([]string, error) {
	text := StripFences(raw)
	if err := llm.ValidateJSON(questionListSchema, []byte(text)); err != nil {
		return nil, err
	}

	var questions []string
	if err := json.Unmarshal([]byte(text), &questions); err != nil {
		return nil, fmt.Errorf("decode question list: %w", err)
	}
	return questions, nil
}

var digitsRE = regexp.MustCompile(`\d+`)

// ExtractScore returns the first run of digits in text clamped to 0..10,
// and false when text holds no digits.
func ExtractScore(text string) (int, bool) {
	m := digitsRE.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		// Too many digits for an int; far above the scale.
		return MaxScore, true
	}
	return clampScore(n), true
}

func clampScore(n int) int {
	switch {
	case n < 0:
		return 0
	case n > MaxScore:
		return MaxScore
	}
	return n
}
