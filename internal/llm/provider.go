package llm

import (
	"context"
)

// Provider is the core abstraction for talking to a generative model.
// Arya treats the model as a text-in/text-out oracle: prompts go in as
// plain text and the reply comes back as plain text, which callers
// post-process themselves (fence stripping, digit extraction, ...).
type Provider interface {
	// Generate sends a prompt to the model and returns its text reply.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system instruction. Sets the interviewer persona and
	// output constraints.
	System string

	// Messages is the conversation. Every oracle call in Arya is a single
	// user turn, so this normally holds one message.
	Messages []Message

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Zero leaves the provider default in place.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt is shorthand for a single-turn request.
func UserPrompt(system, content string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: content}},
	}
}

// Response holds the model's output.
type Response struct {
	// Text is the raw text reply, untrimmed.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
