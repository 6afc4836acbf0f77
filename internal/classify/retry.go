package classify

import "time"

// retryPolicy is a bounded retry schedule. Backoff is a pure function of the
// zero-based attempt index; sleep is injectable so tests run without real
// delays.
type retryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
	sleep       func(time.Duration)
}

func newRetryPolicy(maxAttempts int, backoff func(int) time.Duration) retryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return retryPolicy{
		MaxAttempts: maxAttempts,
		Backoff:     backoff,
		sleep:       time.Sleep,
	}
}

// Wait sleeps for the backoff of the given attempt. It is a no-op after the
// final attempt.
func (p retryPolicy) Wait(attempt int) {
	if attempt >= p.MaxAttempts-1 {
		return
	}
	p.sleep(p.Backoff(attempt))
}

// exponentialBackoff doubles per attempt: 1s, 2s, 4s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// fixedDelay returns a constant backoff regardless of attempt index.
func fixedDelay(d time.Duration) func(int) time.Duration {
	return func(int) time.Duration { return d }
}
