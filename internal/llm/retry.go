package llm

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
)

// RetryingChatService wraps a ChatService with exponential backoff
// retry on transient error classes, surfacing the error unchanged (no
// silent fallback) once the retry budget is exhausted — §4.7's
// "Retry each reviewer call up to max_retries (default 3) with
// exponential backoff; after exhaustion, surface the error."
type RetryingChatService struct {
	inner      ChatService
	maxRetries uint64
}

func WithRetry(inner ChatService, maxRetries uint64) *RetryingChatService {
	return &RetryingChatService{inner: inner, maxRetries: maxRetries}
}

func (r *RetryingChatService) Provider() string { return r.inner.Provider() }

func (r *RetryingChatService) Chat(ctx context.Context, systemPrompt, userPrompt string, opts ChatOptions) (ChatResult, error) {
	var result ChatResult
	op := func() error {
		res, err := r.inner.Chat(ctx, systemPrompt, userPrompt, opts)
		if err != nil {
			if xerrors.ClassOf(err).IsTransient() {
				return err
			}
			return backoff.Permanent(err)
		}
		result = res
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.Multiplier = 2
	policy := backoff.WithMaxRetries(b, r.maxRetries)

	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return ChatResult{}, err
	}
	return result, nil
}
