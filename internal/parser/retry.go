package parser

import (
	"context"
	"errors"
	"log"
	"time"
)

// SleepFunc pauses for d or returns early with ctx's error. Injected so tests
// can run the retry loop against a fake clock.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryPolicy bounds the retry-on-malformed-output loop: a fixed number of
// total attempts with a fixed delay between them. No exponential backoff.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	Sleep       SleepFunc
}

// DefaultRetryPolicy mirrors the production defaults: 3 attempts, 5s apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: 5 * time.Second, Sleep: sleepContext}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ParseWithRetry obtains a model response from produce and decodes it into
// station records, retrying on malformed output only.
//
// Each retry re-invokes produce fresh rather than re-parsing the previous
// response. Producer errors (network, quota, auth) abort immediately without
// consuming remaining attempts or delays. When every attempt yields malformed
// output, the last attempt's MalformedOutputError is returned with the raw
// response attached; earlier failures are only logged.
func ParseWithRetry(ctx context.Context, produce func(context.Context) (string, error), policy RetryPolicy) (*Result, error) {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 3
	}
	if policy.Sleep == nil {
		policy.Sleep = sleepContext
	}

	var lastMalformed *MalformedOutputError
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := policy.Sleep(ctx, policy.Delay); err != nil {
				return nil, err
			}
		}

		raw, err := produce(ctx)
		if err != nil {
			return nil, err
		}

		result, err := Decode(raw)
		if err == nil {
			return result, nil
		}

		var malformed *MalformedOutputError
		if !errors.As(err, &malformed) {
			return nil, err
		}
		lastMalformed = malformed
		if attempt < policy.MaxAttempts {
			log.Printf("parser.ParseWithRetry: attempt %d/%d malformed, retrying in %s: %v",
				attempt, policy.MaxAttempts, policy.Delay, malformed.Err)
		}
	}

	return nil, lastMalformed
}
