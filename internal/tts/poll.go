package tts

import (
	"context"
	"fmt"
	"time"

	"reeltime/internal/services"
)

const (
	// DefaultPollInterval is the fixed delay between status checks.
	DefaultPollInterval = 5 * time.Second
	// DefaultPollTimeout is the hard ceiling on how long a single job may
	// stay non-terminal.
	DefaultPollTimeout = 10 * time.Minute
)

// Poller drives an asynchronous synthesis job to a terminal state with a
// fixed-interval loop and a hard deadline. The loop is iterative; there is
// no recursion to blow the stack on a job that never settles.
type Poller struct {
	Interval time.Duration
	Timeout  time.Duration
}

// PollJob checks the job until it is terminal, the deadline passes, or ctx
// is cancelled. A deadline hit returns a timeout error carrying the elapsed
// time.
func (p Poller) PollJob(ctx context.Context, provider Provider, jobID string) (*Job, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}

	start := time.Now()
	deadline := start.Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job, err := provider.JobStatus(ctx, jobID)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, "tts", "poll",
				fmt.Sprintf("checking job %s", jobID), err)
		}
		if job.Terminal() {
			return job, nil
		}
		if time.Now().After(deadline) {
			return nil, services.Wrap(services.ErrTimeout, "tts", "poll",
				fmt.Sprintf("job %s still %s after %s", jobID, job.Status, time.Since(start).Round(time.Second)), nil)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
