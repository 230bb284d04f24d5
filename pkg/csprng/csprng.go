package csprng

import (
	"crypto/rand"
	"fmt"
	"io"
	"sort"
	"unsafe"

	"github.com/awnumar/memguard"

	pwerrors "github.com/systmms/pwgen/internal/errors"
)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = "blowfish"

// Backend creates generators of one kind.
type Backend interface {
	// Name returns the registry name of the backend.
	Name() string

	// StateSize returns how many bytes of storage Init needs.
	StateSize() int

	// Init seeds a generator whose state lives in storage.
	Init(storage []byte, entropy io.Reader) (Generator, error)
}

// Generator produces an indistinguishable-from-random byte stream.
type Generator interface {
	// Fill writes exactly len(p) fresh bytes into p.
	Fill(p []byte) error

	// Destroy wipes the generator state.
	Destroy() error
}

// place overlays a T on storage after checking size and alignment.
func place[T any](backend string, storage []byte) (*T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if len(storage) < size {
		return nil, pwerrors.Newf(pwerrors.Config, backend+" init",
			"state storage is %d bytes, backend needs %d", len(storage), size)
	}

	p := unsafe.Pointer(unsafe.SliceData(storage))
	if uintptr(p)%unsafe.Alignof(zero) != 0 {
		return nil, pwerrors.Newf(pwerrors.Config, backend+" init",
			"state storage is not %d-byte aligned", unsafe.Alignof(zero))
	}

	memguard.WipeBytes(storage[:size])
	return (*T)(p), nil
}

func entropySource(r io.Reader) io.Reader {
	if r == nil {
		return rand.Reader
	}
	return r
}

func readSeed(backend string, r io.Reader, dst []byte) error {
	if _, err := io.ReadFull(r, dst); err != nil {
		memguard.WipeBytes(dst)
		return pwerrors.New(pwerrors.CryptoBackendFailed, backend+" init", fmt.Errorf("entropy source: %w", err))
	}
	return nil
}

func errDestroyed(backend, op string) error {
	return pwerrors.Newf(pwerrors.CryptoBackendFailed, backend+" "+op, "generator already destroyed")
}

// Registry manages the available backends.
type Registry struct {
	backends map[string]Backend
}

// NewRegistry creates a registry with the built-in backends.
func NewRegistry() *Registry {
	r := &Registry{
		backends: make(map[string]Backend),
	}

	r.Register(Blowfish{})
	r.Register(ChaCha20{})

	return r
}

// Register adds or replaces a backend.
func (r *Registry) Register(b Backend) {
	r.backends[b.Name()] = b
}

// Get returns the backend registered under name.
func (r *Registry) Get(name string) (Backend, error) {
	b, ok := r.backends[name]
	if !ok {
		return nil, pwerrors.ConfigError{
			Field:      "backend",
			Value:      name,
			Message:    "unknown random number generator backend",
			Suggestion: fmt.Sprintf("Use one of: %v", r.Names()),
		}
	}
	return b, nil
}

// Names returns the registered backend names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MaxStateSize returns the largest StateSize among registered backends.
func (r *Registry) MaxStateSize() int {
	largest := 0
	for _, b := range r.backends {
		if s := b.StateSize(); s > largest {
			largest = s
		}
	}
	return largest
}
