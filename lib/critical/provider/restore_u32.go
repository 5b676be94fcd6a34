//go:build critsec_restore_u32

package provider

import (
	"fmt"
	"math"
)

// RawRestoreState is the restore-state encoding active in this build.
type RawRestoreState = uint32

// RestoreStateEncoding names the active encoding.
const RestoreStateEncoding = "u32"

// WidenRestoreState converts the active encoding to the canonical uint64
// representation.
func WidenRestoreState(s RawRestoreState) uint64 {
	return uint64(s)
}

// NarrowRestoreState converts the canonical uint64 representation back to the
// active encoding. It panics if the value cannot be represented losslessly.
func NarrowRestoreState(v uint64) RawRestoreState {
	if v > math.MaxUint32 {
		panic(fmt.Sprintf("critsec: restore state %d does not fit the u32 encoding", v))
	}
	return uint32(v)
}
