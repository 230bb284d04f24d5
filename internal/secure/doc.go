// Package secure provides the locked memory arena that holds every
// secret-touching buffer of a generation run.
//
// An Arena is a page-aligned anonymous mapping with one extra guard page
// at its end. It ensures that sensitive data is:
//
//   - Protected from swapping via mlock
//   - Excluded from core dumps (MADV_DONTDUMP where the platform has it)
//   - Protected from buffer overruns via a PROT_NONE guard page
//   - Overwritten with zeros before the mapping is released
//
// # Usage
//
//	arena, err := secure.Reserve(15 * os.Getpagesize())
//	if err != nil {
//	    // ResourceExhausted or SystemCallFailed
//	}
//	defer arena.Release()
//
//	if err := arena.Degraded(); err != nil {
//	    // mlock failed: the arena works, but may be written to swap
//	}
//
// # Platform Behavior
//
// Memory locking behavior varies by platform:
//
//   - Linux: Requires RLIMIT_MEMLOCK to cover the arena
//   - macOS: Works out of the box
//   - Windows: Uses VirtualLock
//
// If mlock fails the arena is still returned and Degraded reports the
// reason, so callers can warn that secrets may reach swap.
//
// It does NOT protect against:
//
//   - Attackers with root access to the running process (ptrace)
//   - Core dumps written before Harden ran
//   - Hardware-level attacks (cold boot, DMA)
package secure
