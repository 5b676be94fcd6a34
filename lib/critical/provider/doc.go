// Package provider defines the contract between the critical-section core
// protocol and the concrete implementation that backs it in a given build.
//
// A provider supplies the two operations the core forwards to:
//
//   - Acquire: enter the one global critical region, returning a raw restore
//     state that carries whatever the provider needs to undo the acquisition
//     (for the hosted provider this is a single bit: "was this goroutine
//     already inside the region").
//   - Release: leave the region, consuming the restore state produced by the
//     matching Acquire.
//
// The restore state is opaque to everything above the provider. Its concrete
// width is a build-time choice made with build tags (see the restore_*.go
// files in this package):
//
//	(no tag)              bool    - the default; what the hosted provider needs
//	critsec_restore_none  struct{} - zero payload, for providers with no state
//	critsec_restore_u8    uint8
//	critsec_restore_u16   uint16
//	critsec_restore_u32   uint32
//	critsec_restore_u64   uint64
//
// Exactly one encoding is active per build. Selecting two width tags at once
// fails to compile (duplicate definitions), and selecting a non-default width
// without also selecting a custom provider leaves the core protocol without a
// binding, which also fails to compile.
//
// Conversions between the active encoding and a canonical uint64 are provided
// by WidenRestoreState and NarrowRestoreState. Both are checked: a value that
// the active encoding cannot represent losslessly causes a panic rather than
// silent truncation.
//
// Implementations must uphold the acquire/release contract documented in the
// critical package: properly nested call pairs per goroutine, restore states
// passed back unmodified and exactly once, nested acquisitions cheap and
// non-blocking. The conformance suite in provider/testing exercises these
// properties against any implementation.
package provider
