//go:build critsec_restore_none

package provider

import "fmt"

// RawRestoreState is the restore-state encoding active in this build.
// The zero-payload encoding is for providers that carry no state from
// acquire to release.
type RawRestoreState = struct{}

// RestoreStateEncoding names the active encoding.
const RestoreStateEncoding = "none"

// WidenRestoreState converts the active encoding to the canonical uint64
// representation.
func WidenRestoreState(RawRestoreState) uint64 {
	return 0
}

// NarrowRestoreState converts the canonical uint64 representation back to the
// active encoding. It panics if the value cannot be represented losslessly.
func NarrowRestoreState(v uint64) RawRestoreState {
	if v != 0 {
		panic(fmt.Sprintf("critsec: restore state %d does not fit the zero-payload encoding", v))
	}
	return struct{}{}
}
