package ai

import (
	"context"
	"errors"
	"testing"

	"gift-advisor/internal/domain/ports/adapter"
)

type scriptedAdapter struct {
	name  string
	reply string
	err   error
	calls int
}

var _ adapter.CompletionAdapter = (*scriptedAdapter)(nil)

func (s *scriptedAdapter) Name() string { return s.name }

func (s *scriptedAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	return 0, nil
}

func (s *scriptedAdapter) Complete(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	reply, _, err := s.CompleteWithUsage(ctx, model, messages)
	return reply, err
}

func (s *scriptedAdapter) CompleteWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	s.calls++
	if s.err != nil {
		return "", adapter.Usage{}, s.err
	}
	return s.reply, adapter.Usage{Provider: s.name}, nil
}

func TestFailoverAdapter_FirstProviderWins(t *testing.T) {
	first := &scriptedAdapter{name: "a", reply: "from a"}
	second := &scriptedAdapter{name: "b", reply: "from b"}
	f, err := NewFailoverAdapter(nil, first, second)
	if err != nil {
		t.Fatal(err)
	}

	reply, err := f.Complete(context.Background(), "m", []adapter.Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "from a" {
		t.Errorf("reply: got %q", reply)
	}
	if second.calls != 0 {
		t.Errorf("second provider should not be tried, got %d calls", second.calls)
	}
}

func TestFailoverAdapter_FallsThrough(t *testing.T) {
	first := &scriptedAdapter{name: "a", err: errors.New("boom")}
	second := &scriptedAdapter{name: "b", reply: "from b"}
	f, _ := NewFailoverAdapter(nil, first, second)

	reply, err := f.Complete(context.Background(), "m", []adapter.Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "from b" {
		t.Errorf("reply: got %q", reply)
	}
	if first.calls != 1 {
		t.Errorf("first provider calls: got %d", first.calls)
	}
}

func TestFailoverAdapter_UsageNamesAnsweringProvider(t *testing.T) {
	first := &scriptedAdapter{name: "a", err: errors.New("boom")}
	second := &scriptedAdapter{name: "b", reply: "from b"}
	f, _ := NewFailoverAdapter(nil, first, second)

	_, usage, err := f.CompleteWithUsage(context.Background(), "m", []adapter.Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("CompleteWithUsage: %v", err)
	}
	if usage.Provider != "b" {
		t.Errorf("usage.Provider: got %q, want the provider that answered", usage.Provider)
	}
}

func TestFailoverAdapter_AllFail(t *testing.T) {
	first := &scriptedAdapter{name: "a", err: errors.New("down")}
	second := &scriptedAdapter{name: "b", err: errors.New("also down")}
	f, _ := NewFailoverAdapter(nil, first, second)

	if _, err := f.Complete(context.Background(), "m", []adapter.Message{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatal("expected error when all providers fail")
	}
}

func TestFailoverAdapter_NoProviders(t *testing.T) {
	if _, err := NewFailoverAdapter(nil); err == nil {
		t.Fatal("expected constructor error with no providers")
	}
}

func TestFailoverAdapter_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	first := &scriptedAdapter{name: "a", err: errors.New("down")}
	second := &scriptedAdapter{name: "b", reply: "never"}
	f, _ := NewFailoverAdapter(nil, first, second)

	cancel()
	if _, err := f.Complete(ctx, "m", []adapter.Message{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatal("expected error after cancellation")
	}
	if second.calls != 0 {
		t.Errorf("second provider should not be tried after cancellation, got %d calls", second.calls)
	}
}
