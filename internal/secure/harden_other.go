//go:build !unix

package secure

import (
	"github.com/awnumar/memcall"

	pwerrors "github.com/systmms/pwgen/internal/errors"
)

// Harden disables core dumps. There is no effective user id to drop here.
func Harden() (warnings []error, err error) {
	if err := memcall.DisableCoreDumps(); err != nil {
		warnings = append(warnings, pwerrors.New(pwerrors.SystemCallFailed, "disable core dumps", err))
	}
	return warnings, nil
}

// MemlockLimit is not available on this platform.
func MemlockLimit() (uint64, bool) {
	return 0, false
}
