package secure

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/awnumar/memcall"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pwerrors "github.com/systmms/pwgen/internal/errors"
)

var sink byte

func TestReserveRoundsToPages(t *testing.T) {
	t.Parallel()

	ps := PageSize()
	tests := []struct {
		name string
		size int
		want int
	}{
		{"one byte", 1, ps},
		{"exactly one page", ps, ps},
		{"one page plus one", ps + 1, 2 * ps},
		{"default arena", 15 * ps, 15 * ps},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, err := Reserve(tt.size)
			require.NoError(t, err)
			defer func() { _ = a.Release() }()

			assert.Equal(t, tt.want, a.Size())
			assert.Len(t, a.Bytes(), tt.want)
			assert.Len(t, a.region, tt.want+ps, "guard page must follow the usable area")
			assert.Equal(t, make([]byte, tt.want), a.Bytes(), "fresh arena must be zeroed")
		})
	}
}

func TestReserveRejectsNonPositiveSize(t *testing.T) {
	t.Parallel()

	_, err := Reserve(0)
	require.Error(t, err)
	assert.ErrorIs(t, err, pwerrors.ErrConfig)
}

func TestLockStateIsReported(t *testing.T) {
	t.Parallel()

	a, err := Reserve(PageSize())
	require.NoError(t, err)
	defer func() { _ = a.Release() }()

	// Either the region is locked, or the reason it is not is surfaced.
	if a.Locked() {
		assert.NoError(t, a.Degraded())
	} else {
		assert.Error(t, a.Degraded())
	}
}

func TestReleaseZeroesUsableArea(t *testing.T) {
	t.Parallel()

	a, err := Reserve(2 * PageSize())
	require.NoError(t, err)

	usable := a.Bytes()
	for i := range usable {
		usable[i] = byte(i%251) + 1
	}

	var snapshot []byte
	a.free = func(region []byte) error {
		snapshot = append([]byte(nil), region[:len(usable)]...)
		return memcall.Free(region)
	}

	require.NoError(t, a.Release())
	require.Len(t, snapshot, len(usable))
	assert.True(t, bytes.Equal(snapshot, make([]byte, len(usable))), "usable area must be zero when unmapped")
	assert.True(t, a.Released())
	assert.Nil(t, a.Bytes())
	assert.False(t, a.Locked())
}

func TestReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	a, err := Reserve(PageSize())
	require.NoError(t, err)

	calls := 0
	a.free = func(region []byte) error {
		calls++
		return memcall.Free(region)
	}

	require.NoError(t, a.Release())
	require.NoError(t, a.Release())
	assert.Equal(t, 1, calls)
}

func TestGuardPageFaults(t *testing.T) {
	t.Parallel()

	a, err := Reserve(PageSize())
	require.NoError(t, err)
	defer func() { _ = a.Release() }()

	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)

	faulted := func() (faulted bool) {
		defer func() {
			if r := recover(); r != nil {
				faulted = true
			}
		}()
		sink = a.region[a.Size()]
		return false
	}()

	assert.True(t, faulted, "reading the guard page must fault")
}

func TestHarden(t *testing.T) {
	t.Parallel()

	warnings, err := Harden()
	require.NoError(t, err)
	for _, w := range warnings {
		assert.ErrorIs(t, w, pwerrors.ErrSystemCallFailed)
	}
}
