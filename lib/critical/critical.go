package critical

import "github.com/ValentinKolb/critsec/lib/critical/provider"

// Token is the opaque restore state handed out by Acquire and consumed by the
// matching Release. Callers must not inspect it, copy it into a different
// Release call, or synthesize one; its meaning is defined only by the bound
// provider.
type Token struct {
	raw provider.RawRestoreState
}

// CriticalSection is a capability proving that the critical region is held.
// With passes one to its callback; there is no other legitimate way to obtain
// one. APIs that must only be called inside the region can take a
// CriticalSection parameter to make that requirement explicit.
type CriticalSection struct {
	_ struct{}
}

// Acquire enters the global critical region and returns the token the
// matching Release call needs. It may block until the current outer holder
// leaves; nested calls on the same goroutine never block.
//
// This is the low-level half of the API. Strongly prefer With; use
// Acquire/Release only where the region must span an asymmetric scope, and
// uphold the usage contract documented in the package comment.
func Acquire() Token {
	return Token{raw: providerAcquire()}
}

// Release leaves the global critical region. It must be passed the token of
// the most recent unmatched Acquire on the same goroutine. Release never
// blocks.
func Release(t Token) {
	providerRelease(t.raw)
}

// With executes f inside the critical region and returns its result. The
// region is entered before f runs and left on every exit path, including
// panic unwinding - a panicking f does not leave the lock held, and the panic
// continues to propagate afterwards.
//
// Nesting With (or Acquire) inside f is allowed and cheap.
func With[R any](f func(cs CriticalSection) R) R {
	t := Acquire()
	completed := false
	defer func() {
		if !completed {
			providerAbnormalExit()
		}
		Release(t)
	}()

	r := f(CriticalSection{})
	completed = true
	return r
}
