//go:build !critsec_custom && !critsec_restore_none && !critsec_restore_u8 && !critsec_restore_u16 && !critsec_restore_u32 && !critsec_restore_u64

package critical

import (
	"github.com/ValentinKolb/critsec/lib/critical/hosted"
	"github.com/ValentinKolb/critsec/lib/critical/provider"
)

// Default binding: the hosted mutex provider. This file and bind_custom.go
// define the same three functions behind mutually exclusive build tags, so
// exactly one binding can be compiled into a binary - zero active bindings
// (a non-default restore-state width without critsec_custom) or two of them
// fail the build, never the running process.

func providerAcquire() provider.RawRestoreState {
	return hosted.Get().Acquire()
}

func providerRelease(state provider.RawRestoreState) {
	hosted.Get().Release(state)
}

func providerAbnormalExit() {
	hosted.Get().NoteAbnormalExit()
}
