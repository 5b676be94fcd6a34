//go:build critsec_custom && !critsec_restore_none && !critsec_restore_u8 && !critsec_restore_u16 && !critsec_restore_u32 && !critsec_restore_u64

package critical

import (
	"sync"
	"testing"

	"github.com/ValentinKolb/critsec/lib/critical/provider"
)

// countingProvider is a minimal reentrancy-free provider for exercising the
// custom binding. It is registered once for the whole test binary since the
// binding is process-wide by design.
type countingProvider struct {
	mu       sync.Mutex
	acquires int
	releases int
}

func (p *countingProvider) Acquire() provider.RawRestoreState {
	p.mu.Lock()
	p.acquires++
	return false
}

func (p *countingProvider) Release(provider.RawRestoreState) {
	p.releases++
	p.mu.Unlock()
}

var testProvider = &countingProvider{}

func init() {
	SetProvider(testProvider)
}

func TestCustomBindingForwards(t *testing.T) {
	before := testProvider.acquires

	got := With(func(cs CriticalSection) int { return 42 })
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}

	if testProvider.acquires != before+1 {
		t.Errorf("expected the registered provider to see the acquisition, acquires = %d", testProvider.acquires)
	}
	if testProvider.releases != testProvider.acquires {
		t.Errorf("acquires (%d) and releases (%d) out of balance", testProvider.acquires, testProvider.releases)
	}
}

func TestSecondRegistrationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a second SetProvider call to panic")
		}
	}()
	SetProvider(&countingProvider{})
}

func TestNilRegistrationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected SetProvider(nil) to panic")
		}
	}()
	SetProvider(nil)
}
