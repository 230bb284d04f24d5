package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pwerrors "github.com/systmms/pwgen/internal/errors"
	"github.com/systmms/pwgen/internal/pwgen"
)

func TestStateSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want int
	}{
		{0, 0},
		{1, 64},
		{64, 64},
		{65, 128},
		{4212, 4224},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StateSize(tt.in), "in=%d", tt.in)
	}
}

func TestCarve(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 4096)
	l, err := Carve(buf, 100)
	require.NoError(t, err)

	assert.Len(t, l.State, 128)
	assert.Len(t, l.Scratch, pwgen.ScratchSize)
	assert.Len(t, l.Secret, 4096-128-pwgen.ScratchSize)
	assert.Equal(t, 128, cap(l.State), "state must not grow into scratch")
	assert.Equal(t, pwgen.ScratchSize, cap(l.Scratch), "scratch must not grow into the secret")

	// Regions are contiguous and cover the whole buffer.
	assert.Same(t, &buf[0], &l.State[0])
	assert.Same(t, &buf[128], &l.Scratch[0])
	assert.Same(t, &buf[128+pwgen.ScratchSize], &l.Secret[0])
}

func TestCarve_TooSmall(t *testing.T) {
	t.Parallel()

	need := MinArenaSize(100)
	_, err := Carve(make([]byte, need-1), 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, pwerrors.ErrConfig)

	l, err := Carve(make([]byte, need), 100)
	require.NoError(t, err)
	assert.Len(t, l.Secret, pwgen.MinSecretSize)
}
