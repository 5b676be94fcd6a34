package provider

// Provider is the interface a critical-section implementation must fulfil.
// Exactly one implementation is bound per build; see the critical package for
// how the binding is selected.
type Provider interface {
	// Acquire enters the global critical region and returns the raw restore
	// state the matching Release call needs. It may block the calling
	// goroutine unless that goroutine is already inside the region.
	Acquire() RawRestoreState

	// Release leaves the global critical region. It must be passed the raw
	// restore state of the most recent unmatched Acquire on the same
	// goroutine. Release never blocks.
	Release(state RawRestoreState)
}
