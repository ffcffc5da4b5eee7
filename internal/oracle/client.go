// Package oracle turns the generative model into the interview oracle:
// question generation, answer scoring, the improvement suggestion and the
// follow-up chat. Every operation degrades to a fixed fallback instead of
// failing.
package oracle

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/arya/internal/interview"
	"github.com/abhisek/arya/internal/llm"
	"github.com/abhisek/arya/internal/logging"
)

// MaxScore is the top of the per-answer scale.
const MaxScore = 10

// Fallback texts used when the model cannot be reached.
const (
	FallbackSuggestion = "Could not generate a suggestion."
	FallbackChatReply  = "Sorry, I couldn't reach the interviewer right now. Please try asking again."
)

// Config holds generation settings for each call kind.
type Config struct {
	QuestionMaxTokens   int
	ScoreMaxTokens      int
	SuggestionMaxTokens int
	ChatMaxTokens       int
	Temperature         float64
}

// DefaultConfig returns the settings used by the app.
func DefaultConfig() Config {
	return Config{
		QuestionMaxTokens:   1024,
		ScoreMaxTokens:      16,
		SuggestionMaxTokens: 512,
		ChatMaxTokens:       1024,
	}
}

// Client implements interview.Oracle on top of an llm.Provider.
type Client struct {
	provider llm.Provider
	cfg      Config
	log      logrus.FieldLogger
}

// New creates a Client. A nil logger discards diagnostics.
func New(provider llm.Provider, cfg Config, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logging.Discard()
	}
	return &Client{provider: provider, cfg: cfg, log: log}
}

var _ interview.Oracle = (*Client)(nil)

func (c *Client) generate(ctx context.Context, purpose string, req llm.Request) (string, error) {
	if req.Temperature == 0 {
		req.Temperature = c.cfg.Temperature
	}
	resp, err := c.provider.Generate(llm.WithPurpose(ctx, purpose), req)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Generate asks for n questions on topic at level. Unusable replies yield
// an empty list; at most n questions are returned.
func (c *Client) Generate(ctx context.Context, topic string, level interview.Level, n int) []string {
	req := llm.UserPrompt(questionSystemPrompt(topic, n), level.String())
	req.MaxTokens = c.cfg.QuestionMaxTokens

	log := c.log.WithFields(logrus.Fields{"level": level.String(), "n": n})

	text, err := c.generate(ctx, llm.PurposeQuestionGen, req)
	if err != nil {
		log.WithError(err).Warn("question generation failed")
		return nil
	}

	questions, err := DecodeQuestions(text)
	if err != nil {
		log.WithError(err).Warn("question list unparsable")
		return nil
	}
	if len(questions) > n {
		questions = questions[:n]
	}
	return questions
}

// Score rates one answer from 0 to 10. Failures score 0.
func (c *Client) Score(ctx context.Context, question, answer string) int {
	req := llm.UserPrompt("", scorePrompt(question, answer))
	req.MaxTokens = c.cfg.ScoreMaxTokens

	text, err := c.generate(ctx, llm.PurposeScore, req)
	if err != nil {
		c.log.WithError(err).Warn("scoring failed")
		return 0
	}
	score, ok := ExtractScore(text)
	if !ok {
		c.log.WithField("reply", text).Warn("score reply has no digits")
	}
	return score
}

// Suggest returns one improvement tip for the paper, or
// FallbackSuggestion.
func (c *Client) Suggest(ctx context.Context, paper interview.Paper) string {
	req := llm.UserPrompt("", suggestionPrompt(paper))
	req.MaxTokens = c.cfg.SuggestionMaxTokens

	text, err := c.generate(ctx, llm.PurposeSuggestion, req)
	if err != nil {
		c.log.WithError(err).Warn("suggestion failed")
		return FallbackSuggestion
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackSuggestion
	}
	return text
}

// Aggregate scores every answer in order, combines the level averages
// and asks for a suggestion.
func (c *Client) Aggregate(ctx context.Context, paper interview.Paper) interview.Evaluation {
	scores := make(map[interview.Level][]int, len(interview.Levels))
	for _, qa := range paper.QA {
		scores[qa.Level] = append(scores[qa.Level], c.Score(ctx, qa.Question, qa.Answer))
	}

	return interview.Evaluation{
		Score:      WeightedScore(scores),
		Suggestion: c.Suggest(ctx, paper),
		Paper:      paper,
	}
}

// WeightedScore averages each level's scores, weights the averages and
// scales to 0..100. A level without scores averages 0 and keeps its weight.
func WeightedScore(scores map[interview.Level][]int) int {
	var total float64
	for _, l := range interview.Levels {
		s := scores[l]
		if len(s) == 0 {
			continue
		}
		sum := 0
		for _, v := range s {
			sum += v
		}
		total += float64(sum) / float64(len(s)) * l.Weight()
	}
	return int(math.Round(total * 10))
}

// Chat answers message using the paper as context. Earlier turns are not
// included. Failures yield FallbackChatReply.
func (c *Client) Chat(ctx context.Context, topic string, paper interview.Paper, message string) string {
	transcript, err := json.MarshalIndent(paper, "", "  ")
	if err != nil {
		c.log.WithError(err).Error("encode transcript")
		return FallbackChatReply
	}

	req := llm.UserPrompt("", chatPrompt(topic, string(transcript), message))
	req.MaxTokens = c.cfg.ChatMaxTokens

	text, err := c.generate(ctx, llm.PurposeChat, req)
	if err != nil {
		c.log.WithError(err).Warn("chat failed")
		return FallbackChatReply
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackChatReply
	}
	return text
}
