package fakes

import (
	"io"
	"sync"

	"github.com/systmms/pwgen/pkg/csprng"
)

// FakeBackend is a manual fake implementation of csprng.Backend.
//
// It reports a configurable state size and either returns a configured
// generator or fails Init with InitErr. The storage handed to Init is
// recorded so tests can check how the caller carved its arena.
//
// Example usage:
//
//	backend := fakes.NewFakeBackend("fake", 100).
//	    WithInitError(errors.New("no entropy"))
type FakeBackend struct {
	name      string
	stateSize int
	initErr   error
	gen       csprng.Generator

	storageLen int
	inits      int

	mu sync.Mutex
}

// NewFakeBackend creates a backend that hands out a CountingGenerator.
func NewFakeBackend(name string, stateSize int) *FakeBackend {
	return &FakeBackend{name: name, stateSize: stateSize}
}

// WithInitError makes Init fail with err.
func (b *FakeBackend) WithInitError(err error) *FakeBackend {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.initErr = err
	return b
}

// WithGenerator makes Init return gen.
func (b *FakeBackend) WithGenerator(gen csprng.Generator) *FakeBackend {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.gen = gen
	return b
}

// Name implements csprng.Backend.
func (b *FakeBackend) Name() string { return b.name }

// StateSize implements csprng.Backend.
func (b *FakeBackend) StateSize() int { return b.stateSize }

// Init implements csprng.Backend.
func (b *FakeBackend) Init(storage []byte, _ io.Reader) (csprng.Generator, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.inits++
	b.storageLen = len(storage)
	if b.initErr != nil {
		return nil, b.initErr
	}
	if b.gen != nil {
		return b.gen, nil
	}
	return &CountingGenerator{}, nil
}

// Inits returns how many times Init was called.
func (b *FakeBackend) Inits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inits
}

// StorageLen returns the length of the storage passed to the last Init.
func (b *FakeBackend) StorageLen() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.storageLen
}
