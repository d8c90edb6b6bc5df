package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"gift-advisor/internal/domain/ports/adapter"
)

var _ adapter.CompletionAdapter = (*FailoverAdapter)(nil)

// FailoverAdapter tries each configured provider in order and returns the
// first success. Provider order is fixed at construction; there is no
// health tracking, a failed provider is retried on the next call.
type FailoverAdapter struct {
	providers []adapter.CompletionAdapter
	log       *zerolog.Logger
}

func NewFailoverAdapter(log *zerolog.Logger, providers ...adapter.CompletionAdapter) (*FailoverAdapter, error) {
	if len(providers) == 0 {
		return nil, errors.New("failover: no providers configured")
	}
	return &FailoverAdapter{providers: providers, log: log}, nil
}

func (f *FailoverAdapter) Name() string {
	return f.providers[0].Name()
}

func (f *FailoverAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	return f.providers[0].CountTokens(ctx, model, messages)
}

func (f *FailoverAdapter) Complete(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	reply, _, err := f.CompleteWithUsage(ctx, model, messages)
	return reply, err
}

func (f *FailoverAdapter) CompleteWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	var lastErr error
	for _, p := range f.providers {
		reply, usage, err := p.CompleteWithUsage(ctx, model, messages)
		if err == nil {
			return reply, usage, nil
		}
		lastErr = err
		if f.log != nil {
			f.log.Warn().Str("provider", p.Name()).Err(err).Msg("completion failed, trying next provider")
		}
		if ctx.Err() != nil {
			// The caller's deadline expired; further attempts are pointless.
			return "", adapter.Usage{}, ctx.Err()
		}
	}
	return "", adapter.Usage{}, fmt.Errorf("all providers failed: %w", lastErr)
}
