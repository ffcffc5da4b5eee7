package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// stubServer answers every request with status and body and records the
// last request body.
func stubServer(t *testing.T, status int, body string) (*httptest.Server, *[]byte) {
	t.Helper()
	var got []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestOpenAIProvider_Generate(t *testing.T) {
	srv, reqBody := stubServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "gpt-4o-mini-2024-07-18",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "8"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 12, "completion_tokens": 1, "total_tokens": 13}
	}`)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := p.Generate(context.Background(), UserPrompt("be terse", "rate this"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "8" {
		t.Errorf("text = %q, want 8", resp.Text)
	}
	if resp.Usage.TotalTokens != 13 {
		t.Errorf("total tokens = %d, want 13", resp.Usage.TotalTokens)
	}
	if resp.Model != "gpt-4o-mini-2024-07-18" {
		t.Errorf("model = %q", resp.Model)
	}

	var sent struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(*reqBody, &sent); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if sent.Model != "gpt-4o-mini" {
		t.Errorf("sent model = %q", sent.Model)
	}
	if len(sent.Messages) != 2 || sent.Messages[0].Role != "system" || sent.Messages[1].Content != "rate this" {
		t.Errorf("unexpected messages: %+v", sent.Messages)
	}
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	srv, _ := stubServer(t, http.StatusTooManyRequests, `{"error": {"message": "slow down", "type": "rate_limit"}}`)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = p.Generate(context.Background(), UserPrompt("", "hi"))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T: %v", err, err)
	}
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	srv, _ := stubServer(t, http.StatusOK, `{"id": "x", "model": "m", "choices": []}`)

	p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})
	_, err := p.Generate(context.Background(), UserPrompt("", "hi"))
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T: %v", err, err)
	}
}

func TestAnthropicProvider_Generate(t *testing.T) {
	srv, reqBody := stubServer(t, http.StatusOK, `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-haiku-4-5-20251001",
		"content": [{"type": "text", "text": "[\"What is a graph?\"]"}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 20, "output_tokens": 8}
	}`)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "sk-ant", Model: "claude-haiku", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := p.Generate(context.Background(), UserPrompt("interviewer", "generate"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != `["What is a graph?"]` {
		t.Errorf("text = %q", resp.Text)
	}
	if resp.Usage.TotalTokens != 28 {
		t.Errorf("total tokens = %d, want 28", resp.Usage.TotalTokens)
	}
	if resp.StopReason != "end" {
		t.Errorf("stop reason = %q", resp.StopReason)
	}
	if !strings.Contains(string(*reqBody), `"max_tokens":1024`) {
		t.Errorf("expected default max_tokens in request, got %s", *reqBody)
	}
}

func TestAnthropicProvider_ServerError(t *testing.T) {
	srv, _ := stubServer(t, http.StatusInternalServerError, `{"type": "error", "error": {"type": "api_error", "message": "boom"}}`)

	p, _ := NewAnthropicProvider(AnthropicConfig{APIKey: "sk-ant", BaseURL: srv.URL})
	_, err := p.Generate(context.Background(), UserPrompt("", "hi"))
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T: %v", err, err)
	}
}

func TestGeminiProvider_Generate(t *testing.T) {
	srv, reqBody := stubServer(t, http.StatusOK, `{
		"candidates": [{"content": {"role": "model", "parts": [{"text": "Great question."}]}, "finishReason": "STOP"}],
		"usageMetadata": {"promptTokenCount": 30, "candidatesTokenCount": 4, "totalTokenCount": 34},
		"modelVersion": "gemini-2.5-flash"
	}`)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "g-key", Model: "gemini-flash", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gemini-2.5-flash" {
		t.Errorf("model id = %q", p.ModelID())
	}

	resp, err := p.Generate(context.Background(), UserPrompt("system text", "question"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "Great question." {
		t.Errorf("text = %q", resp.Text)
	}
	if resp.Usage.InputTokens != 30 || resp.Usage.TotalTokens != 34 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if !strings.Contains(string(*reqBody), "system text") {
		t.Errorf("system instruction missing from request: %s", *reqBody)
	}
}

func TestGeminiProvider_RateLimit(t *testing.T) {
	srv, _ := stubServer(t, http.StatusTooManyRequests, `{"error": {"code": 429, "message": "quota", "status": "RESOURCE_EXHAUSTED"}}`)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "g-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = p.Generate(context.Background(), UserPrompt("", "hi"))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T: %v", err, err)
	}
}

func TestGeminiProvider_EmptyReply(t *testing.T) {
	srv, _ := stubServer(t, http.StatusOK, `{"candidates": [{"content": {"role": "model", "parts": []}, "finishReason": "MAX_TOKENS"}]}`)

	p, _ := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "g-key", BaseURL: srv.URL})
	_, err := p.Generate(context.Background(), UserPrompt("", "hi"))
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T: %v", err, err)
	}
}
