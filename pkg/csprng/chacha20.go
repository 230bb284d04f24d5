package csprng

import (
	"fmt"
	"io"
	"math"
	"unsafe"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/chacha20"

	pwerrors "github.com/systmms/pwgen/internal/errors"
)

// chachaBlockSize is the keystream block size; every Fill starts on a fresh block.
const chachaBlockSize = 64

type chachaState struct {
	cipher chacha20.Cipher
	seed   [chacha20.KeySize + chacha20.NonceSize]byte
	// blocks is the counter of the next unused keystream block.
	blocks uint64
}

// ChaCha20 is a stream-cipher generator: its output is the keystream for a
// random 256-bit key and 96-bit nonce.
type ChaCha20 struct{}

func (ChaCha20) Name() string { return "chacha20" }

func (ChaCha20) StateSize() int {
	return int(unsafe.Sizeof(chachaState{}))
}

func (b ChaCha20) Init(storage []byte, entropy io.Reader) (Generator, error) {
	st, err := place[chachaState](b.Name(), storage)
	if err != nil {
		return nil, err
	}
	state := storage[:b.StateSize()]

	if err := readSeed(b.Name(), entropySource(entropy), st.seed[:]); err != nil {
		memguard.WipeBytes(state)
		return nil, err
	}

	c, err := chacha20.NewUnauthenticatedCipher(st.seed[:chacha20.KeySize], st.seed[chacha20.KeySize:])
	if err != nil {
		memguard.WipeBytes(state)
		return nil, pwerrors.New(pwerrors.CryptoBackendFailed, "chacha20 init", err)
	}
	st.cipher = *c
	*c = chacha20.Cipher{}
	memguard.WipeBytes(st.seed[:])

	return &chachaGenerator{st: st, state: state}, nil
}

type chachaGenerator struct {
	st    *chachaState
	state []byte
}

func (g *chachaGenerator) Fill(p []byte) (err error) {
	if g.st == nil {
		return errDestroyed("chacha20", "fill")
	}

	if len(p) == 0 {
		return nil
	}

	st := g.st
	next := st.blocks + (uint64(len(p))+chachaBlockSize-1)/chachaBlockSize
	if next > math.MaxUint32 {
		return pwerrors.Newf(pwerrors.CryptoBackendFailed, "chacha20 fill", "keystream exhausted")
	}

	// XORKeyStream and SetCounter panic on counter misuse.
	defer func() {
		if r := recover(); r != nil {
			memguard.WipeBytes(p)
			err = pwerrors.New(pwerrors.CryptoBackendFailed, "chacha20 fill", fmt.Errorf("%v", r))
		}
	}()

	memguard.WipeBytes(p)
	st.cipher.XORKeyStream(p, p)
	// Skip the tail of a partly used block so it is never handed out.
	st.cipher.SetCounter(uint32(next))
	st.blocks = next
	return nil
}

func (g *chachaGenerator) Destroy() error {
	if g.st == nil {
		return errDestroyed("chacha20", "destroy")
	}
	memguard.WipeBytes(g.state)
	g.st = nil
	g.state = nil
	return nil
}
