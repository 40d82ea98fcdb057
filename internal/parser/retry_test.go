package parser_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oscehub/internal/parser"
)

// fakeSleeper records requested delays without actually waiting.
type fakeSleeper struct {
	delays []time.Duration
	err    error
}

func (f *fakeSleeper) sleep(_ context.Context, d time.Duration) error {
	f.delays = append(f.delays, d)
	return f.err
}

func testPolicy(sleeper *fakeSleeper) parser.RetryPolicy {
	return parser.RetryPolicy{MaxAttempts: 3, Delay: 5 * time.Second, Sleep: sleeper.sleep}
}

func TestParseWithRetry_FirstAttemptSucceeds(t *testing.T) {
	sleeper := &fakeSleeper{}
	calls := 0
	produce := func(context.Context) (string, error) {
		calls++
		return singleStationJSON, nil
	}

	result, err := parser.ParseWithRetry(context.Background(), produce, testPolicy(sleeper))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeper.delays)
}

func TestParseWithRetry_SucceedsOnThirdAttempt(t *testing.T) {
	sleeper := &fakeSleeper{}
	responses := []string{"not json", "{still broken", singleStationJSON}
	calls := 0
	produce := func(context.Context) (string, error) {
		raw := responses[calls]
		calls++
		return raw, nil
	}

	result, err := parser.ParseWithRetry(context.Background(), produce, testPolicy(sleeper))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Acute Respiratory Distress", result.Records[0].StationName)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, sleeper.delays)
}

func TestParseWithRetry_ExhaustionReturnsLastMalformed(t *testing.T) {
	sleeper := &fakeSleeper{}
	calls := 0
	produce := func(context.Context) (string, error) {
		calls++
		if calls == 3 {
			return "final broken response {", nil
		}
		return "earlier broken response", nil
	}

	_, err := parser.ParseWithRetry(context.Background(), produce, testPolicy(sleeper))
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, sleeper.delays, 2)

	var malformed *parser.MalformedOutputError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "final broken response {", malformed.RawText)
}

func TestParseWithRetry_ProducerErrorAbortsImmediately(t *testing.T) {
	sleeper := &fakeSleeper{}
	transient := errors.New("connection reset")
	calls := 0
	produce := func(context.Context) (string, error) {
		calls++
		return "", transient
	}

	_, err := parser.ParseWithRetry(context.Background(), produce, testPolicy(sleeper))
	require.ErrorIs(t, err, transient)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeper.delays)
}

func TestParseWithRetry_CanceledDuringDelay(t *testing.T) {
	sleeper := &fakeSleeper{err: context.Canceled}
	calls := 0
	produce := func(context.Context) (string, error) {
		calls++
		return "not json", nil
	}

	_, err := parser.ParseWithRetry(context.Background(), produce, testPolicy(sleeper))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDefaultRetryPolicy(t *testing.T) {
	policy := parser.DefaultRetryPolicy()
	assert.Equal(t, 3, policy.MaxAttempts)
	assert.Equal(t, 5*time.Second, policy.Delay)
	assert.NotNil(t, policy.Sleep)
}
