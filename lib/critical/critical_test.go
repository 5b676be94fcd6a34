//go:build !critsec_custom && !critsec_restore_none && !critsec_restore_u8 && !critsec_restore_u16 && !critsec_restore_u32 && !critsec_restore_u64

package critical

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ValentinKolb/critsec/lib/critical/hosted"
)

func TestWithReturnsValue(t *testing.T) {
	got := With(func(cs CriticalSection) int {
		return 42
	})
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestAcquireReleaseRoundTrip(t *testing.T) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		token := Acquire()
		Release(token)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("acquire/release round trip did not complete")
	}
}

func TestNestedWithTakesLockOnce(t *testing.T) {
	before := hosted.Get().Stats()

	got := With(func(cs CriticalSection) int {
		return With(func(cs CriticalSection) int {
			return With(func(cs CriticalSection) int {
				return 7
			})
		})
	})
	if got != 7 {
		t.Errorf("expected 7, got %d", got)
	}

	after := hosted.Get().Stats()
	if outer := after.OuterAcquires - before.OuterAcquires; outer != 1 {
		t.Errorf("expected exactly 1 real lock acquisition for 3 nested regions, got %d", outer)
	}
	if nested := after.NestedAcquires - before.NestedAcquires; nested != 2 {
		t.Errorf("expected 2 nested acquisitions for 3 nested regions, got %d", nested)
	}
}

func TestMutualExclusion(t *testing.T) {
	const (
		goroutines = 8
		iterations = 100
	)

	var (
		inside atomic.Int32
		total  int
		wg     sync.WaitGroup
	)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				With(func(cs CriticalSection) struct{} {
					if n := inside.Add(1); n != 1 {
						t.Errorf("observed %d goroutines inside the critical region", n)
					}
					total++ // protected by the region itself
					inside.Add(-1)
					return struct{}{}
				})
			}
		}()
	}
	wg.Wait()

	if total != goroutines*iterations {
		t.Errorf("expected %d region entries, got %d", goroutines*iterations, total)
	}
}

func TestWithReleasesOnPanic(t *testing.T) {
	before := hosted.Get().Stats()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if recover() == nil {
				t.Error("expected the panic to propagate out of With")
			}
		}()
		With(func(cs CriticalSection) struct{} {
			panic("panic while holding the critical region")
		})
	}()
	wg.Wait()

	// The region must be reusable from any goroutine afterwards.
	done := make(chan int)
	go func() {
		done <- With(func(cs CriticalSection) int { return 42 })
	}()

	select {
	case got := <-done:
		if got != 42 {
			t.Errorf("expected 42, got %d", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("critical region not reusable after a panic while held")
	}

	after := hosted.Get().Stats()
	if after.AbnormalExits == before.AbnormalExits {
		t.Error("expected the abnormal exit to be counted")
	}
}

func TestAsymmetricScoping(t *testing.T) {
	// Acquire and Release may be split across function boundaries as long as
	// the contract is upheld on one goroutine.
	enter := func() Token { return Acquire() }
	leave := func(t Token) { Release(t) }

	outer := enter()
	inner := enter()
	leave(inner)
	leave(outer)
}

func BenchmarkWith(b *testing.B) {
	for i := 0; i < b.N; i++ {
		With(func(cs CriticalSection) struct{} { return struct{}{} })
	}
}

func BenchmarkWithNested(b *testing.B) {
	With(func(cs CriticalSection) struct{} {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			With(func(cs CriticalSection) struct{} { return struct{}{} })
		}
		return struct{}{}
	})
}
