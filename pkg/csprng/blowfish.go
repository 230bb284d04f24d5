package csprng

import (
	"io"
	"unsafe"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/blowfish"

	pwerrors "github.com/systmms/pwgen/internal/errors"
)

const blowfishKeySize = 16

// blowfishState alternates between the two halves of rnd: every block is
// the encryption of the previous one.
type blowfishState struct {
	cipher blowfish.Cipher
	rnd    [2 * blowfish.BlockSize]byte
	idx    int
	key    [blowfishKeySize]byte
}

// Blowfish is a block-cipher generator keyed with 128 bits of system entropy.
type Blowfish struct{}

func (Blowfish) Name() string { return "blowfish" }

func (Blowfish) StateSize() int {
	return int(unsafe.Sizeof(blowfishState{}))
}

func (b Blowfish) Init(storage []byte, entropy io.Reader) (Generator, error) {
	st, err := place[blowfishState](b.Name(), storage)
	if err != nil {
		return nil, err
	}
	state := storage[:b.StateSize()]

	entropy = entropySource(entropy)
	if err := readSeed(b.Name(), entropy, st.key[:]); err != nil {
		memguard.WipeBytes(state)
		return nil, err
	}
	if err := readSeed(b.Name(), entropy, st.rnd[:]); err != nil {
		memguard.WipeBytes(state)
		return nil, err
	}

	c, err := blowfish.NewCipher(st.key[:])
	if err != nil {
		memguard.WipeBytes(state)
		return nil, pwerrors.New(pwerrors.CryptoBackendFailed, "blowfish init", err)
	}
	st.cipher = *c
	*c = blowfish.Cipher{}
	memguard.WipeBytes(st.key[:])
	st.idx = 0

	return &blowfishGenerator{st: st, state: state}, nil
}

type blowfishGenerator struct {
	st    *blowfishState
	state []byte
}

func (g *blowfishGenerator) Fill(p []byte) error {
	if g.st == nil {
		return errDestroyed("blowfish", "fill")
	}
	if len(p) == 0 {
		return nil
	}

	st := g.st
	for {
		src := st.rnd[st.idx : st.idx+blowfish.BlockSize]
		dst := st.rnd[blowfish.BlockSize-st.idx : 2*blowfish.BlockSize-st.idx]
		st.idx = blowfish.BlockSize - st.idx

		st.cipher.Encrypt(dst, src)

		n := copy(p, dst)
		p = p[n:]
		if len(p) == 0 {
			return nil
		}
	}
}

func (g *blowfishGenerator) Destroy() error {
	if g.st == nil {
		return errDestroyed("blowfish", "destroy")
	}
	memguard.WipeBytes(g.state)
	g.st = nil
	g.state = nil
	return nil
}
