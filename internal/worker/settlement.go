// internal/worker/settlement.go
package worker

import (
	"sync"
	"time"

	"wallet-ledger/internal/domain"

	"go.uber.org/zap"
)

// Scheduler defers a settlement callback by the simulated latency of a
// transfer rail. Production uses timers; tests substitute an implementation
// that fires callbacks on demand.
type Scheduler interface {
	Schedule(rail domain.TransferRail, fn func())
}

// SettlementTimer schedules callbacks on real timers. WIRE settles faster
// than ACH. Once scheduled, a callback always fires; Stop only exists to
// drop pending timers at process shutdown.
type SettlementTimer struct {
	achDelay  time.Duration
	wireDelay time.Duration
	log       *zap.Logger

	mu      sync.Mutex
	stopped bool
	timers  map[*time.Timer]struct{}
}

func NewSettlementTimer(achDelay, wireDelay time.Duration, log *zap.Logger) *SettlementTimer {
	return &SettlementTimer{
		achDelay:  achDelay,
		wireDelay: wireDelay,
		log:       log,
		timers:    make(map[*time.Timer]struct{}),
	}
}

func (t *SettlementTimer) Schedule(rail domain.TransferRail, fn func()) {
	delay := t.achDelay
	if rail == domain.RailWire {
		delay = t.wireDelay
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}

	var tm *time.Timer
	tm = time.AfterFunc(delay, func() {
		t.mu.Lock()
		delete(t.timers, tm)
		t.mu.Unlock()
		fn()
	})
	t.timers[tm] = struct{}{}

	t.log.Debug("settlement scheduled",
		zap.String("rail", string(rail)),
		zap.Duration("delay", delay))
}

// Stop drops every pending timer. Callbacks already running are not
// interrupted.
func (t *SettlementTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	for tm := range t.timers {
		tm.Stop()
		delete(t.timers, tm)
	}
	t.log.Info("settlement timer stopped")
}
