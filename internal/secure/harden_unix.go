//go:build unix

package secure

import (
	"github.com/awnumar/memcall"
	"golang.org/x/sys/unix"

	pwerrors "github.com/systmms/pwgen/internal/errors"
)

// Harden disables core dumps and drops effective privileges to the real user.
// A core-dump failure is returned as a warning; a privilege drop failure is fatal.
func Harden() (warnings []error, err error) {
	if err := memcall.DisableCoreDumps(); err != nil {
		warnings = append(warnings, pwerrors.New(pwerrors.SystemCallFailed, "setrlimit(RLIMIT_CORE)", err))
	}

	// Setreuid(-1, uid) is seteuid(uid); unix.Seteuid is not available on linux.
	if err := unix.Setreuid(-1, unix.Getuid()); err != nil {
		return warnings, pwerrors.New(pwerrors.SystemCallFailed, "seteuid", err)
	}

	return warnings, nil
}

// MemlockLimit returns the soft RLIMIT_MEMLOCK in bytes.
func MemlockLimit() (uint64, bool) {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_MEMLOCK, &rlim); err != nil {
		return 0, false
	}
	return uint64(rlim.Cur), true
}
