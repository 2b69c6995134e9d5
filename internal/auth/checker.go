package auth

import (
	"sync"
	"time"

	"github.com/existflow/inkwell/internal/apperr"
	"github.com/existflow/inkwell/internal/logger"
)

// DefaultCheckInterval is how often the checker re-validates the
// session. Expiry granularity is hours, so once a minute is plenty.
const DefaultCheckInterval = time.Minute

// Checker re-validates the session on a fixed interval while the user
// is authenticated. Start it on entering authenticated, stop it on
// leaving; it stops itself after detecting expiry.
type Checker struct {
	machine   *Machine
	interval  time.Duration
	onExpired func()

	mu      sync.Mutex
	stopCh  chan struct{}
	running bool
}

// NewChecker creates a checker. onExpired runs once when a check
// detects an expired session (the machine has already logged out by
// then); it may be nil.
func NewChecker(machine *Machine, interval time.Duration, onExpired func()) *Checker {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &Checker{
		machine:   machine,
		interval:  interval,
		onExpired: onExpired,
	}
}

// Start begins periodic checking. Calling Start on a running checker
// is a no-op.
func (c *Checker) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.stopCh = make(chan struct{})
	go c.loop(c.stopCh)
}

// Stop halts periodic checking. Idempotent.
func (c *Checker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	close(c.stopCh)
}

func (c *Checker) loop(stopCh chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.machine.CheckSession(); err != nil {
				if apperr.IsKind(err, apperr.KindSessionExpired) {
					logger.Info("Session expired during periodic check")
					if c.onExpired != nil {
						c.onExpired()
					}
				}
				c.Stop()
				return
			}
		case <-stopCh:
			return
		}
	}
}
