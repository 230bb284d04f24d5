package secure

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/awnumar/memcall"
	"github.com/awnumar/memguard"

	pwerrors "github.com/systmms/pwgen/internal/errors"
)

// Arena is a fixed-size locked region followed by an inaccessible guard page.
// It is created once and released exactly once; Release is idempotent.
type Arena struct {
	mu       sync.Mutex
	region   []byte // usable area plus guard page
	usable   []byte
	pageSize int
	locked   bool
	lockErr  error
	released bool

	// Overridable so tests can inspect the region right before it is unmapped.
	free func([]byte) error
}

// PageSize returns the system page size used for arena sizing.
func PageSize() int {
	return os.Getpagesize()
}

// RoundToPages rounds size up to a whole number of pages.
func RoundToPages(size int) int {
	ps := PageSize()
	return ((size + ps - 1) / ps) * ps
}

// Reserve maps at least size bytes, rounded up to whole pages, plus one guard page.
// The usable pages are locked into memory on a best-effort basis; see Degraded.
func Reserve(size int) (*Arena, error) {
	if size <= 0 {
		return nil, pwerrors.Newf(pwerrors.Config, "reserve", "arena size must be positive, got %d", size)
	}

	ps := PageSize()
	usableSize := RoundToPages(size)

	region, err := memcall.Alloc(usableSize + ps)
	if err != nil {
		return nil, pwerrors.New(pwerrors.ResourceExhausted, "mmap", err)
	}

	a := &Arena{
		region:   region,
		usable:   region[:usableSize:usableSize],
		pageSize: ps,
		free:     memcall.Free,
	}

	if err := memcall.Protect(region[usableSize:], memcall.NoAccess()); err != nil {
		_ = memcall.Free(region)
		return nil, pwerrors.New(pwerrors.SystemCallFailed, "mprotect", err)
	}

	if err := memcall.Lock(a.usable); err != nil {
		a.lockErr = fmt.Errorf("mlock %d bytes: %w", usableSize, err)
	} else {
		a.locked = true
	}

	return a, nil
}

// Bytes returns the usable area. It must not be retained past Release.
func (a *Arena) Bytes() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.usable
}

// Size returns the usable size in bytes, excluding the guard page.
func (a *Arena) Size() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.usable)
}

// Locked reports whether the usable area is locked in physical memory.
func (a *Arena) Locked() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.locked
}

// Degraded returns the reason the arena could not be locked, or nil.
func (a *Arena) Degraded() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lockErr
}

// Released reports whether Release has already run.
func (a *Arena) Released() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.released
}

// Release zeroes every usable byte and unmaps the region, guard page included.
func (a *Arena) Release() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.released {
		return nil
	}
	a.released = true

	memguard.WipeBytes(a.usable)

	var errs []error
	if a.locked {
		if err := memcall.Unlock(a.usable); err != nil {
			errs = append(errs, fmt.Errorf("munlock: %w", err))
		}
		a.locked = false
	}
	if err := a.free(a.region); err != nil {
		errs = append(errs, fmt.Errorf("munmap: %w", err))
	}

	a.usable = nil
	a.region = nil

	if len(errs) > 0 {
		return pwerrors.New(pwerrors.SystemCallFailed, "release", errors.Join(errs...))
	}
	return nil
}
