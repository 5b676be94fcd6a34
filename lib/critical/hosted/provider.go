//go:build !critsec_restore_none && !critsec_restore_u8 && !critsec_restore_u16 && !critsec_restore_u32 && !critsec_restore_u64

package hosted

import (
	"sync"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"
	"github.com/ValentinKolb/critsec/lib/critical/hosted/internal/goid"
	"github.com/ValentinKolb/critsec/lib/critical/provider"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var plog = logger.GetLogger("critical")

// --------------------------------------------------------------------------
// Restore states
// --------------------------------------------------------------------------

// The hosted provider needs exactly one bit of restore state: whether the
// acquire that produced it was nested inside an earlier acquisition on the
// same goroutine. This requires the default (bool) restore-state encoding,
// which is why every file of this implementation carries the corresponding
// build constraint.
const (
	stateOuter  provider.RawRestoreState = false
	stateNested provider.RawRestoreState = true
)

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

var (
	outerAcquiresMetric  = metrics.GetOrCreateCounter(`critsec_acquires_total{kind="outer"}`)
	nestedAcquiresMetric = metrics.GetOrCreateCounter(`critsec_acquires_total{kind="nested"}`)
	contendedMetric      = metrics.GetOrCreateCounter(`critsec_contended_acquires_total`)
	abnormalExitsMetric  = metrics.GetOrCreateCounter(`critsec_abnormal_exits_total`)
)

// --------------------------------------------------------------------------
// Provider
// --------------------------------------------------------------------------

// Provider is the hosted critical-section implementation. The process-wide
// instance used by the core protocol is obtained with Get; New exists so
// tests can run against isolated instances.
type Provider struct {
	mu        sync.Mutex                    // the global lock guarding the critical region
	holder    atomic.Int64                  // goroutine ID of the outer holder, 0 while unheld
	reentrant *xsync.MapOf[int64, struct{}] // per-goroutine reentrancy flags

	outerAcquires  atomic.Uint64
	nestedAcquires atomic.Uint64
	contended      atomic.Uint64
	abnormalExits  atomic.Uint64
}

// Stats is a snapshot of a provider's counters.
type Stats struct {
	OuterAcquires     uint64 // acquisitions that took the global lock
	NestedAcquires    uint64 // acquisitions satisfied by reentrancy, no locking
	ContendedAcquires uint64 // outer acquisitions that had to wait for another holder
	AbnormalExits     uint64 // regions left by panic unwinding
}

// New creates an independent provider instance. The critical region it guards
// is its own; it shares nothing with the process-wide instance.
func New() *Provider {
	return &Provider{
		reentrant: xsync.NewMapOf[int64, struct{}](),
	}
}

var (
	initOnce sync.Once
	global   *Provider
)

// Get returns the process-wide provider instance, creating it on first use.
// The instance lives for the remainder of the process; there is no teardown.
func Get() *Provider {
	initOnce.Do(func() {
		global = New()
	})
	return global
}

// --------------------------------------------------------------------------
// Acquire / Release
// --------------------------------------------------------------------------

// Acquire enters the critical region. If the calling goroutine is already
// inside it, the call is satisfied from the reentrancy flag alone and never
// blocks; otherwise it blocks until the current outer holder (if any) leaves.
func (p *Provider) Acquire() provider.RawRestoreState {
	gid := goid.Current()

	// Nested acquisition: this goroutine is already the outer holder.
	if _, nested := p.reentrant.Load(gid); nested {
		p.nestedAcquires.Add(1)
		nestedAcquiresMetric.Inc()
		return stateNested
	}

	// Set the flag before taking the lock. The entry belongs to this
	// goroutine alone, no other goroutine ever reads it, and doing the
	// bookkeeping outside the lock keeps the hold time down.
	p.reentrant.Store(gid, struct{}{})

	if !p.mu.TryLock() {
		p.contended.Add(1)
		contendedMetric.Inc()
		p.mu.Lock()
	}
	p.holder.Store(gid)

	p.outerAcquires.Add(1)
	outerAcquiresMetric.Inc()
	return stateOuter
}

// Release leaves the critical region. It must be passed the restore state of
// the most recent unmatched Acquire on the same goroutine; anything else is a
// contract violation the provider does not detect. Release never blocks.
func (p *Provider) Release(state provider.RawRestoreState) {
	if state == stateNested {
		// The outer acquisition on this goroutine still owns the real lock.
		return
	}

	// Clear the holder slot, drop the lock, then clear the flag. The flag is
	// private to the calling goroutine, so clearing it after the unlock is
	// safe and keeps the lock hold time down.
	gid := p.holder.Swap(0)
	p.mu.Unlock()
	p.reentrant.Delete(gid)
}

// NoteAbnormalExit records that the code inside the critical region is
// unwinding from a panic. The core protocol calls this before its deferred
// release runs. The lock needs no repair - the release still happens on the
// unwind path - so this only keeps the event observable.
func (p *Provider) NoteAbnormalExit() {
	p.abnormalExits.Add(1)
	abnormalExitsMetric.Inc()
	plog.Warningf("panic inside the critical region, lock released during unwinding")
}

// Stats returns a snapshot of the provider's counters.
func (p *Provider) Stats() Stats {
	return Stats{
		OuterAcquires:     p.outerAcquires.Load(),
		NestedAcquires:    p.nestedAcquires.Load(),
		ContendedAcquires: p.contended.Load(),
		AbnormalExits:     p.abnormalExits.Load(),
	}
}
