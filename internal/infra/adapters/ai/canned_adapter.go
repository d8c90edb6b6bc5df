package ai

import (
	"context"
	"strings"
	"time"

	"gift-advisor/internal/domain/ports/adapter"
)

var _ adapter.CompletionAdapter = (*CannedAdapter)(nil)

// CannedAdapter implements adapter.CompletionAdapter for local/dev runs.
// It returns fixed output instead of calling a real provider, so the whole
// request path can be exercised without credentials.
type CannedAdapter struct{}

func NewCannedAdapter() *CannedAdapter {
	return &CannedAdapter{}
}

func (a *CannedAdapter) Name() string { return "canned" }

func (a *CannedAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	total := 0
	for _, m := range messages {
		total += len(strings.Fields(m.Content))
	}
	return total, nil
}

func (a *CannedAdapter) Complete(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	reply, _, err := a.CompleteWithUsage(ctx, model, messages)
	return reply, err
}

func (a *CannedAdapter) CompleteWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	// Simulate slight processing time and respect ctx.
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		return "", adapter.Usage{}, ctx.Err()
	}

	// The chips persona asks for pipe-separated quick replies; everything
	// else gets a canned recommendation.
	if len(messages) > 0 && messages[0].Role == "system" &&
		strings.Contains(messages[0].Content, "quick reply") {
		return `My budget is around $50 | It's for a birthday | They love the outdoors`, adapter.Usage{Provider: a.Name(), TotalTokens: 18}, nil
	}

	return "Here are a few ideas:\n1. *Insulated Hiking Bottle* - keeps drinks cold on the trail.\n2. *Trail Snack Sampler* - a box of energy bars and dried fruit.\n3. *Compact First-Aid Kit* - practical for any day hike.",
		adapter.Usage{Provider: a.Name(), TotalTokens: 48}, nil
}
