// Package critical provides the one process-wide critical region: a single
// pair of enter/leave operations whose concrete implementation is selected
// once per build and fixed for the lifetime of the process.
//
// The package exists for code that must behave identically across execution
// environments with very different exclusion mechanisms. Callers only ever
// talk to the three operations here; which provider actually backs them is a
// build-configuration decision, not a runtime one.
//
// Core Functionality:
//   - With: scoped entry into the critical region. Acquires, runs the given
//     function with a proof value, and releases on every exit path including
//     panic unwinding. This is the API ordinary callers should use.
//   - Acquire/Release: the low-level token-passing pair, exposed for callers
//     that need asymmetric scoping and are prepared to uphold the usage
//     contract by hand.
//
// Nesting:
//
//	Entering the region again on a goroutine that is already inside it is
//	explicitly supported and cheap: the bound provider satisfies nested
//	acquisitions without blocking, so a goroutine can never deadlock
//	against itself.
//
// Usage Contract (Acquire/Release):
//
//	Each Acquire must be paired with exactly one Release on the same
//	goroutine, the token must be passed to that Release unmodified, and
//	pairs must be properly nested. Violations - cross-goroutine token use,
//	dropped or duplicated releases, out-of-order releases - are undefined
//	behavior. They are deliberately not detected at runtime; a primitive
//	like this cannot afford legality bookkeeping on every entry.
//
// Provider Binding:
//
//	The two entry points the package forwards to are bound at build time
//	through build tags, mirroring a link-time symbol resolution:
//
//	- Default build: the hosted provider (see the hosted package), which
//	  simulates interrupt masking with a process-wide mutex.
//	- Build tag critsec_custom: no provider is compiled in; the integrator
//	  registers exactly one implementation with SetProvider before first
//	  use, typically from an init function.
//
//	Exactly one binding is active per build. A configuration with none
//	(for example, a non-default restore-state width without critsec_custom)
//	does not compile, and a configuration with two cannot be expressed -
//	the binding files are mutually exclusive by tag.
//
// Usage Example:
//
//	result := critical.With(func(cs critical.CriticalSection) int {
//	    // at most one goroutine executes here at any time
//	    return computeUnderLock()
//	})
package critical
