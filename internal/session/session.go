// Package session owns the secure arena and the random number generator for
// the lifetime of one pwgen invocation.
package session

import (
	"errors"
	"fmt"
	"io"
	"sync"

	pwerrors "github.com/systmms/pwgen/internal/errors"
	"github.com/systmms/pwgen/internal/logging"
	"github.com/systmms/pwgen/internal/pwgen"
	"github.com/systmms/pwgen/internal/secure"
	"github.com/systmms/pwgen/pkg/csprng"
)

// Options configures Open.
type Options struct {
	// Backend is the generator kind. Defaults to blowfish.
	Backend csprng.Backend
	// Pages is the usable arena size in pages.
	Pages int
	// Entropy seeds the generator. Defaults to crypto/rand.
	Entropy io.Reader
	Logger  *logging.Logger
}

// Session is an open arena with a seeded generator placed inside it.
type Session struct {
	mu      sync.Mutex
	arena   *secure.Arena
	layout  Layout
	backend string
	rng     csprng.Generator
	engine  *pwgen.Engine
	logger  *logging.Logger
	closed  bool
}

// Open reserves the arena, carves it and seeds the generator in place.
// Any failure after the reservation releases the arena before returning.
func Open(opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	backend := opts.Backend
	if backend == nil {
		backend = csprng.Blowfish{}
	}
	if opts.Pages <= 0 {
		return nil, pwerrors.Newf(pwerrors.Config, "open", "arena pages must be positive, got %d", opts.Pages)
	}

	size := opts.Pages * secure.PageSize()
	if need := MinArenaSize(backend.StateSize()); size < need {
		return nil, pwerrors.Newf(pwerrors.Config, "open",
			"%d pages (%d bytes) cannot hold the %s generator: need at least %d bytes",
			opts.Pages, size, backend.Name(), need)
	}

	arena, err := secure.Reserve(size)
	if err != nil {
		return nil, err
	}
	logger.Debug("reserved %d byte arena plus guard page", arena.Size())
	if reason := arena.Degraded(); reason != nil {
		logger.Warn("using insecure memory: %v", reason)
	}

	layout, err := Carve(arena.Bytes(), backend.StateSize())
	if err != nil {
		return nil, releaseOnError(arena, err)
	}

	rng, err := backend.Init(layout.State, opts.Entropy)
	if err != nil {
		return nil, releaseOnError(arena, err)
	}
	logger.Debug("initialized %s random number generator", backend.Name())

	return &Session{
		arena:   arena,
		layout:  layout,
		backend: backend.Name(),
		rng:     rng,
		engine:  pwgen.New(rng, layout.Scratch, layout.Secret),
		logger:  logger,
	}, nil
}

func releaseOnError(arena *secure.Arena, err error) error {
	if rerr := arena.Release(); rerr != nil {
		return errors.Join(err, rerr)
	}
	return err
}

// Backend returns the name of the generator backend.
func (s *Session) Backend() string {
	return s.backend
}

// Arena exposes the underlying arena for reporting.
func (s *Session) Arena() *secure.Arena {
	return s.arena
}

// Stats returns the engine draw counters accumulated so far.
func (s *Session) Stats() pwgen.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Stats()
}

// Generate runs one request. The returned secret lives in the arena and is
// only valid until the next Generate or Close.
func (s *Session) Generate(req pwgen.Request) (pwgen.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return pwgen.Result{}, errClosed("generate")
	}
	return s.engine.Generate(req)
}

// GenerateFunc runs one request and hands the result to fn while holding the
// session lock, so a concurrent Close waits until fn has finished reading it.
func (s *Session) GenerateFunc(req pwgen.Request, fn func(pwgen.Result) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errClosed("generate")
	}
	res, err := s.engine.Generate(req)
	if err != nil {
		return err
	}
	return fn(res)
}

// Close destroys the generator and then zeroes and releases the arena.
// It is safe to call more than once and from a signal handler.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	s.logger.Debug("destroying random number generator")
	if err := s.rng.Destroy(); err != nil {
		errs = append(errs, fmt.Errorf("destroy generator: %w", err))
	}

	s.logger.Debug("zeroing memory")
	if err := s.arena.Release(); err != nil {
		errs = append(errs, err)
	}

	s.layout = Layout{}
	return errors.Join(errs...)
}

func errClosed(op string) error {
	return pwerrors.Newf(pwerrors.InvalidRequest, op, "session is closed")
}
