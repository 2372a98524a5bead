// Package poller follows a publish job until it reaches a terminal state.
package poller

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/waabox/nowpublish/internal/domain"
)

// DefaultInterval is the pause before each status request.
const DefaultInterval = 3 * time.Second

const cancelledMessage = "The operation was cancelled."

// Poller fetches job snapshots one at a time from the continuation URL of
// the previous snapshot. Interval 0 disables the pause (used in tests).
// MaxPolls 0 means no limit: the loop ends only on a terminal state.
type Poller struct {
	transport domain.Transport
	sink      domain.Sink
	logger    *log.Logger
	Interval  time.Duration
	MaxPolls  int
}

// New creates a Poller with DefaultInterval and no poll limit.
func New(transport domain.Transport, sink domain.Sink, logger *log.Logger) *Poller {
	if logger == nil {
		logger = log.Default()
	}
	return &Poller{
		transport: transport,
		sink:      sink,
		logger:    logger,
		Interval:  DefaultInterval,
	}
}

// Run reports s and every following snapshot until the job is terminal.
// It returns the outcome of a successful job, and a RemoteJob error for a
// failed or cancelled one.
func (p *Poller) Run(ctx context.Context, s domain.Snapshot) (domain.Outcome, error) {
	polls := 0
	for {
		p.report(s)
		if !s.State.InProgress() {
			return p.finish(s)
		}
		if p.MaxPolls > 0 && polls >= p.MaxPolls {
			return domain.Outcome{}, domain.JobError(fmt.Sprintf("publish job still %s after %d status checks", s.State, polls))
		}
		if s.ProgressURL() == "" {
			return domain.Outcome{}, domain.JobError("publish job status has no progress link")
		}

		if err := p.wait(ctx); err != nil {
			return domain.Outcome{}, err
		}
		var resp struct {
			Result domain.Snapshot `json:"result"`
		}
		if err := p.transport.Get(ctx, s.ProgressURL(), &resp); err != nil {
			return domain.Outcome{}, fmt.Errorf("polling job status: %w", err)
		}
		polls++
		p.logger.Debug("job status", "poll", polls, "state", resp.Result.State, "percent", int(resp.Result.PercentDone))
		s = resp.Result
	}
}

func (p *Poller) wait(ctx context.Context) error {
	if p.Interval <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}
	t := time.NewTimer(p.Interval)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) report(s domain.Snapshot) {
	if o, ok := p.sink.(domain.SnapshotObserver); ok {
		o.Snapshot(s)
	}
	switch s.State {
	case domain.StatePending:
		p.sink.Info(s.Label)
	case domain.StateRunning:
		p.sink.Info(fmt.Sprintf("%s: %d%%", s.Label, s.PercentDone))
	}
}

func (p *Poller) finish(s domain.Snapshot) (domain.Outcome, error) {
	switch s.State {
	case domain.StateSuccessful:
		p.sink.Info(s.Message)
		p.sink.Info(s.Detail)
		return domain.Outcome{Message: s.Message, Detail: s.Detail}, nil
	case domain.StateFailed:
		if s.Error != "" {
			return domain.Outcome{}, domain.JobError(s.Error)
		}
		return domain.Outcome{}, domain.JobError(s.Message)
	case domain.StateCanceled:
		return domain.Outcome{}, domain.JobError(cancelledMessage)
	default:
		return domain.Outcome{}, domain.JobError(fmt.Sprintf("publish job reported unknown status %d", int(s.State)))
	}
}
