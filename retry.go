package main

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retryBuild runs op up to attempts times with a fixed delay in between.
// Upstream CDNs fail intermittently, so the whole build is retried rather than
// single downloads. notify is called before every wait.
func retryBuild(ctx context.Context, attempts int, delay time.Duration, op func(attempt int) error, notify func(error, time.Duration)) error {
	if attempts < 1 {
		attempts = 1
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(delay), uint64(attempts-1)),
		ctx,
	)

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		return op(attempt)
	}, policy, notify)
}
