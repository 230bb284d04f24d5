package session

import (
	pwerrors "github.com/systmms/pwgen/internal/errors"
	"github.com/systmms/pwgen/internal/pwgen"
)

// stateAlign keeps the scratch buffer, and anything placed after the state,
// on a cache-line boundary.
const stateAlign = 64

// Layout is the arena carved into its three regions.
type Layout struct {
	State   []byte
	Scratch []byte
	Secret  []byte
}

// StateSize rounds a backend state size up to the layout alignment.
func StateSize(backend int) int {
	return (backend + stateAlign - 1) / stateAlign * stateAlign
}

// MinArenaSize is the smallest usable area that fits a backend of the given
// state size.
func MinArenaSize(backendState int) int {
	return StateSize(backendState) + pwgen.ScratchSize + pwgen.MinSecretSize
}

// Carve splits buf into state, scratch and secret regions. The secret buffer
// receives everything left after the state and scratch.
func Carve(buf []byte, backendState int) (Layout, error) {
	if need := MinArenaSize(backendState); len(buf) < need {
		return Layout{}, pwerrors.Newf(pwerrors.Config, "layout",
			"arena of %d bytes cannot hold %d bytes of generator state plus %d scratch and %d secret bytes",
			len(buf), backendState, pwgen.ScratchSize, pwgen.MinSecretSize)
	}

	state := StateSize(backendState)
	scratchEnd := state + pwgen.ScratchSize

	return Layout{
		State:   buf[:state:state],
		Scratch: buf[state:scratchEnd:scratchEnd],
		Secret:  buf[scratchEnd:],
	}, nil
}
