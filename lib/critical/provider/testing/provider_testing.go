// Package testing contains a conformance test suite for critical-section
// provider implementations. It mirrors what the acquire/release contract
// promises, so any implementation of provider.Provider - the bundled hosted
// one or a custom one - can be checked by calling RunProviderTests from a
// regular test.
package testing

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/critsec/lib/critical/provider"
)

// ProviderFactory is a function that creates a fresh, isolated provider
// instance. Each subtest gets its own instance so tests cannot interfere
// with each other through shared lock state.
type ProviderFactory func() provider.Provider

// RunProviderTests runs the full conformance suite for a provider
// implementation.
func RunProviderTests(t *testing.T, name string, factory ProviderFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("AcquireRelease", func(t *testing.T) {
			testAcquireRelease(t, factory())
		})

		t.Run("Nesting", func(t *testing.T) {
			testNesting(t, factory())
		})

		t.Run("MutualExclusion", func(t *testing.T) {
			testMutualExclusion(t, factory())
		})

		t.Run("NestedAcquireDoesNotBlock", func(t *testing.T) {
			testNestedAcquireDoesNotBlock(t, factory())
		})

		t.Run("ReuseAfterPanic", func(t *testing.T) {
			testReuseAfterPanic(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// runWithTimeout runs f and fails the test if it has not returned after the
// given duration. A hung f indicates a deadlock, which would otherwise stall
// the whole test binary until the global test timeout.
func runWithTimeout(t *testing.T, d time.Duration, f func()) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		defer close(done)
		f()
	}()

	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("timed out after %v, provider appears to deadlock", d)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testAcquireRelease(t *testing.T, p provider.Provider) {
	runWithTimeout(t, 5*time.Second, func() {
		state := p.Acquire()
		p.Release(state)

		// The region must be immediately reusable.
		state = p.Acquire()
		p.Release(state)
	})
}

func testNesting(t *testing.T, p provider.Provider) {
	runWithTimeout(t, 5*time.Second, func() {
		outer := p.Acquire()
		inner := p.Acquire()
		innermost := p.Acquire()

		// Proper nesting: release in reverse order of acquisition.
		p.Release(innermost)
		p.Release(inner)
		p.Release(outer)

		// After full unwinding another goroutine must be able to enter.
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			state := p.Acquire()
			p.Release(state)
		}()
		wg.Wait()
	})
}

func testMutualExclusion(t *testing.T, p provider.Provider) {
	const (
		goroutines = 8
		iterations = 200
	)

	var (
		inside  atomic.Int32
		entered atomic.Int64
		wg      sync.WaitGroup
	)

	runWithTimeout(t, 30*time.Second, func() {
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < iterations; j++ {
					state := p.Acquire()

					if n := inside.Add(1); n != 1 {
						t.Errorf("observed %d goroutines inside the critical region", n)
					}
					entered.Add(1)
					inside.Add(-1)

					p.Release(state)
				}
			}()
		}
		wg.Wait()
	})

	if got := entered.Load(); got != goroutines*iterations {
		t.Errorf("expected %d region entries, got %d", goroutines*iterations, got)
	}
}

func testNestedAcquireDoesNotBlock(t *testing.T, p provider.Provider) {
	runWithTimeout(t, 10*time.Second, func() {
		outer := p.Acquire()

		// Put another goroutine in line for the lock so that a faulty
		// implementation taking the lock again for nested acquisitions
		// would deadlock here.
		var waiter sync.WaitGroup
		waiter.Add(1)
		go func() {
			defer waiter.Done()
			state := p.Acquire()
			p.Release(state)
		}()

		// Give the waiter time to block on the lock.
		time.Sleep(50 * time.Millisecond)

		inner := p.Acquire()
		p.Release(inner)

		p.Release(outer)
		waiter.Wait()
	})
}

func testReuseAfterPanic(t *testing.T, p provider.Provider) {
	runWithTimeout(t, 10*time.Second, func() {
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				// The panic is expected; the point is what happens after.
				if recover() == nil {
					t.Error("expected a panic inside the critical region")
				}
			}()

			state := p.Acquire()
			defer p.Release(state)
			panic("panic while holding the critical region")
		}()
		wg.Wait()

		// The region must be acquirable from another goroutine afterwards.
		result := 0
		state := p.Acquire()
		result = 42
		p.Release(state)

		if result != 42 {
			t.Errorf("expected 42, got %d", result)
		}
	})
}
