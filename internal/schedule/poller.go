package schedule

import (
	"context"
	"sync"
	"time"

	"sattva/internal/logging"
)

// DefaultPollInterval is how often due schedules are checked.
const DefaultPollInterval = 5 * time.Second

// Poller periodically invokes a tick callback that fires due schedules. It
// is the only background operation in the core and must be stopped when the
// application shuts down.
type Poller struct {
	interval time.Duration
	tick     func(now time.Time)
	logger   logging.Logger
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewPoller constructs a poller. tick runs on the poller goroutine.
func NewPoller(interval time.Duration, tick func(now time.Time), logger logging.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		interval: interval,
		tick:     tick,
		logger:   logging.OrNop(logger),
		stopped:  make(chan struct{}),
	}
}

// Start runs the polling loop until ctx is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	p.logger.Debug("schedule poller started (interval=%s)", p.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				p.Stop()
				return
			case <-p.stopped:
				return
			case now := <-ticker.C:
				p.tick(now)
			}
		}
	}()
}

// Stop halts the poller. Safe to call multiple times.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopped)
		p.logger.Debug("schedule poller stopped")
	})
}

// Done returns a channel closed once the poller has been stopped.
func (p *Poller) Done() <-chan struct{} {
	return p.stopped
}
