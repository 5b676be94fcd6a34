//go:build critsec_custom

package critical

import (
	"sync/atomic"

	"github.com/ValentinKolb/critsec/lib/critical/provider"
)

// Custom binding: no provider is compiled in; the integrator supplies one
// with SetProvider. This file only exists in builds carrying the
// critsec_custom tag, which excludes the default hosted binding.

var customProvider atomic.Pointer[provider.Provider]

// SetProvider registers the critical-section implementation for this process.
// It must be called exactly once, before the first Acquire or With, typically
// from an init function of the integrator's composition root:
//
//	func init() {
//	    critical.SetProvider(myProvider{})
//	}
//
// Registering twice, or registering nil, panics: the provider is a
// build-composition decision and must not change while the process runs.
func SetProvider(p provider.Provider) {
	if p == nil {
		panic("critical: SetProvider called with a nil provider")
	}
	if !customProvider.CompareAndSwap(nil, &p) {
		panic("critical: provider already registered, exactly one provider may be bound per process")
	}
}

func boundProvider() provider.Provider {
	p := customProvider.Load()
	if p == nil {
		panic("critical: no provider registered. This binary was built with the critsec_custom tag; " +
			"call critical.SetProvider from an init function before entering a critical section")
	}
	return *p
}

func providerAcquire() provider.RawRestoreState {
	return boundProvider().Acquire()
}

func providerRelease(state provider.RawRestoreState) {
	boundProvider().Release(state)
}

func providerAbnormalExit() {}
