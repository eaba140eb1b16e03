// Package retryx runs remote calls under the client's retry policy:
// network-class failures are retried once after a short constant delay, and
// everything classified as permanent is returned as is.
package retryx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/snapgram/internal/common"
	"github.com/sethvargo/go-retry"
)

// Policy describes how many times and how often to retry.
type Policy struct {
	MaxRetries uint64
	Delay      time.Duration
	// OnRetry, if set, is called with the failure that triggered each new attempt.
	OnRetry func(err error)
}

// Once is the default policy: one retry after delay.
func Once(delay time.Duration) Policy {
	return Policy{MaxRetries: 1, Delay: delay}
}

// Retryable reports whether err should be attempted again.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !common.IsPermanent(err)
}

// Do runs fn under p. If every attempt fails with a retryable error the last
// one is returned wrapped in common.ErrorTransientGateway.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(p.MaxRetries, retry.NewConstant(max(p.Delay, time.Nanosecond)))

	var last error
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if last != nil && p.OnRetry != nil {
			p.OnRetry(last)
		}

		last = fn(ctx)
		if last == nil {
			return nil
		}
		if Retryable(last) {
			return retry.RetryableError(last)
		}
		return last
	})

	if err != nil && Retryable(err) {
		return fmt.Errorf("%w: %w", common.ErrorTransientGateway, err)
	}
	return err
}

// Value is Do for calls that produce a result.
func Value[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := Do(ctx, p, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}
