// Package hosted implements the critical-section provider for hosted,
// preemptively multi-threaded environments. It is the default provider: a
// plain build of this module binds it to the core protocol in the critical
// package.
//
// A hosted process has no interrupt-masking instruction to lean on, so the
// provider simulates one with a process-wide mutex plus per-goroutine
// reentrancy tracking:
//
//   - One global sync.Mutex guards the critical region for the lifetime of
//     the process.
//   - A per-goroutine reentrancy flag records whether the calling goroutine
//     is already inside the region. Each flag is written only by its own
//     goroutine, so flag bookkeeping needs no cross-goroutine ordering; the
//     flags live in a concurrent map purely so that distinct goroutines can
//     touch their own entries at the same time.
//   - A holder slot records the goroutine ID of the current outer holder
//     while the lock is held. It is the moral equivalent of storing the lock
//     guard: written right after the lock is taken, cleared right before it
//     is released.
//
// Acquire checks the caller's reentrancy flag first. If set, the caller is
// already the outer holder and gets a "nested" restore state back without
// touching the lock at all - nested acquisitions never block and can never
// deadlock against their own goroutine. Otherwise the flag is set, the lock
// is taken (blocking if another goroutine currently holds it), and an "outer"
// restore state is returned. Release with a nested state is a no-op; release
// with an outer state clears the holder slot, unlocks, and clears the flag.
//
// Panic behavior: Go mutexes do not poison, and the core protocol's With
// releases via defer on every unwind path, so a panic inside the region
// leaves the lock immediately reusable by the next acquirer. The provider
// counts such abnormal exits (see Stats and the critsec_abnormal_exits_total
// metric) and logs them at warning level, but there is nothing to repair.
//
// Usage contract violations - releasing another goroutine's restore state,
// releasing without a matching acquire, improper nesting - are undefined
// behavior and deliberately not detected; this mirrors the zero-overhead
// stance of the interface the provider implements.
//
// Thread safety: all exported methods are safe for concurrent use; that is
// the entire point of the package.
package hosted
