//go:build !critsec_restore_none && !critsec_restore_u8 && !critsec_restore_u16 && !critsec_restore_u32 && !critsec_restore_u64

package provider

import "testing"

func TestWidenNarrowRoundTrip(t *testing.T) {
	for _, s := range []RawRestoreState{false, true} {
		if got := NarrowRestoreState(WidenRestoreState(s)); got != s {
			t.Errorf("round trip changed %v to %v", s, got)
		}
	}
}

func TestNarrowPanicsOnOverflow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected narrowing an unrepresentable value to panic")
		}
	}()
	NarrowRestoreState(2)
}

func TestEncodingName(t *testing.T) {
	if RestoreStateEncoding != "bool" {
		t.Errorf("default build must use the bool encoding, got %q", RestoreStateEncoding)
	}
}
