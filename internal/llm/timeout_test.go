package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

// blockingProvider waits for its context to end.
type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestTimeout_ZeroIsPassthrough(t *testing.T) {
	mock := NewMockProvider()
	if p := WithTimeout(mock, 0); p != Provider(mock) {
		t.Fatalf("expected unwrapped provider, got %T", p)
	}
}

func TestTimeout_BoundsStalledCall(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 10*time.Millisecond)

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("call took %s", elapsed)
	}
	if p.ModelID() != "blocking" {
		t.Fatalf("unexpected model id %q", p.ModelID())
	}
}

func TestTimeout_PassesResponse(t *testing.T) {
	p := WithTimeout(NewMockProvider(MockText("hello")), time.Second)
	resp, err := p.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "hello" {
		t.Fatalf("expected hello, got %q", resp.Text)
	}
}
