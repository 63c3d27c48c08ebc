// Package wait provides the bounded poll-until primitive shared by DOM
// readiness checks and traffic accumulation waits.
package wait

import (
	"context"
	"errors"
	"time"
)

// ErrDeadline is returned when the condition did not hold before the timeout.
var ErrDeadline = errors.New("wait: deadline exceeded")

// Until polls cond every interval until it reports done, cond returns an
// error, ctx is canceled, or timeout elapses. The condition is evaluated
// once immediately, so a wait never costs a full interval when the condition
// already holds.
func Until(ctx context.Context, interval, timeout time.Duration, cond func() (bool, error)) error {
	deadline := time.Now().Add(timeout)

	done, err := cond()
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			done, err := cond()
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			if time.Now().After(deadline) {
				return ErrDeadline
			}
		}
	}
}
