//go:build critsec_restore_u64

package provider

// RawRestoreState is the restore-state encoding active in this build.
type RawRestoreState = uint64

// RestoreStateEncoding names the active encoding.
const RestoreStateEncoding = "u64"

// WidenRestoreState converts the active encoding to the canonical uint64
// representation.
func WidenRestoreState(s RawRestoreState) uint64 {
	return s
}

// NarrowRestoreState converts the canonical uint64 representation back to the
// active encoding. The u64 encoding holds every canonical value, so this
// conversion never panics.
func NarrowRestoreState(v uint64) RawRestoreState {
	return v
}
