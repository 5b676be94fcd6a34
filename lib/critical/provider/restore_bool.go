//go:build !critsec_restore_none && !critsec_restore_u8 && !critsec_restore_u16 && !critsec_restore_u32 && !critsec_restore_u64

package provider

import "fmt"

// RawRestoreState is the restore-state encoding active in this build.
// The default encoding is a single bool, which is exactly what the hosted
// provider needs ("nested" vs "outer").
type RawRestoreState = bool

// RestoreStateEncoding names the active encoding.
const RestoreStateEncoding = "bool"

// WidenRestoreState converts the active encoding to the canonical uint64
// representation.
func WidenRestoreState(s RawRestoreState) uint64 {
	if s {
		return 1
	}
	return 0
}

// NarrowRestoreState converts the canonical uint64 representation back to the
// active encoding. It panics if the value cannot be represented losslessly.
func NarrowRestoreState(v uint64) RawRestoreState {
	switch v {
	case 0:
		return false
	case 1:
		return true
	default:
		panic(fmt.Sprintf("critsec: restore state %d does not fit the bool encoding", v))
	}
}
