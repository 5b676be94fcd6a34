//go:build critsec_restore_u16

package provider

import (
	"fmt"
	"math"
)

// RawRestoreState is the restore-state encoding active in this build.
type RawRestoreState = uint16

// RestoreStateEncoding names the active encoding.
const RestoreStateEncoding = "u16"

// WidenRestoreState converts the active encoding to the canonical uint64
// representation.
func WidenRestoreState(s RawRestoreState) uint64 {
	return uint64(s)
}

// NarrowRestoreState converts the canonical uint64 representation back to the
// active encoding. It panics if the value cannot be represented losslessly.
func NarrowRestoreState(v uint64) RawRestoreState {
	if v > math.MaxUint16 {
		panic(fmt.Sprintf("critsec: restore state %d does not fit the u16 encoding", v))
	}
	return uint16(v)
}
