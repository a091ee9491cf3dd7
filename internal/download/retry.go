package download

import (
	"errors"
	"time"

	"github.com/ralt/wpm/internal/job"
	"github.com/ralt/wpm/internal/models"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Network failures and 5xx responses are retryable.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times with exponential backoff. Only
// errors wrapped with RetryableError are retried. Waiting stops early when
// the job is cancelled, with an error of type models.ErrCancelled.
func Retry(j *job.Job, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			if !wait(j, delay) {
				return models.Errorf(models.ErrCancelled, "", "cancelled while waiting to retry: %v", lastErr)
			}
			delay *= 2
		}
	}
	return lastErr
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// wait sleeps for d and reports false if the job got cancelled meanwhile
func wait(j *job.Job, d time.Duration) bool {
	const tick = 50 * time.Millisecond
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if j.IsCancelled() {
			return false
		}
		time.Sleep(min(tick, time.Until(deadline)))
	}
	return !j.IsCancelled()
}
