package session_test

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pwerrors "github.com/systmms/pwgen/internal/errors"
	"github.com/systmms/pwgen/internal/logging"
	"github.com/systmms/pwgen/internal/pwgen"
	"github.com/systmms/pwgen/internal/session"
	"github.com/systmms/pwgen/pkg/csprng"
	"github.com/systmms/pwgen/tests/fakes"
)

func open(t *testing.T, opts session.Options) *session.Session {
	t.Helper()

	if opts.Pages == 0 {
		opts.Pages = 15
	}
	s, err := session.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenGenerateClose(t *testing.T) {
	t.Parallel()

	for _, backend := range []csprng.Backend{csprng.Blowfish{}, csprng.ChaCha20{}} {
		t.Run(backend.Name(), func(t *testing.T) {
			t.Parallel()

			s := open(t, session.Options{Backend: backend})
			assert.Equal(t, backend.Name(), s.Backend())

			res, err := s.Generate(pwgen.Request{Strategy: pwgen.StrategyRaw, Count: 128})
			require.NoError(t, err)
			assert.Len(t, res.Secret, 24)
			assert.Equal(t, 128.0, res.Entropy)
			assert.Positive(t, s.Stats().Draws)

			require.NoError(t, s.Close())
			assert.True(t, s.Arena().Released())
		})
	}
}

func TestOpen_DefaultsToBlowfish(t *testing.T) {
	t.Parallel()

	s := open(t, session.Options{})
	assert.Equal(t, csprng.DefaultBackend, s.Backend())
}

func TestOpen_InvalidPages(t *testing.T) {
	t.Parallel()

	_, err := session.Open(session.Options{Pages: -1})
	require.Error(t, err)
	assert.ErrorIs(t, err, pwerrors.ErrConfig)
}

func TestOpen_StateDoesNotFit(t *testing.T) {
	t.Parallel()

	backend := fakes.NewFakeBackend("huge", 1<<20)
	_, err := session.Open(session.Options{Backend: backend, Pages: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, pwerrors.ErrConfig)
	assert.Zero(t, backend.Inits(), "generator must not be initialized when its state cannot fit")
}

func TestOpen_InitFailureReleasesArena(t *testing.T) {
	t.Parallel()

	initErr := pwerrors.Newf(pwerrors.CryptoBackendFailed, "fake init", "no entropy")
	backend := fakes.NewFakeBackend("fake", 100).WithInitError(initErr)

	_, err := session.Open(session.Options{Backend: backend, Pages: 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, pwerrors.ErrCryptoBackendFailed)
	assert.Equal(t, 1, backend.Inits())
	assert.Equal(t, session.StateSize(100), backend.StorageLen())
}

func TestOpen_EntropyFailure(t *testing.T) {
	t.Parallel()

	_, err := session.Open(session.Options{
		Backend: csprng.ChaCha20{},
		Pages:   2,
		Entropy: strings.NewReader("short"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, pwerrors.ErrCryptoBackendFailed)
}

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()

	gen := fakes.NewScriptedGenerator()
	backend := fakes.NewFakeBackend("fake", 100).WithGenerator(gen)
	s := open(t, session.Options{Backend: backend, Pages: 2})

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, gen.Destroyed())
}

func TestClose_LogsLifecycle(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New(true, true).WithOutput(&buf)
	s := open(t, session.Options{Logger: logger})
	require.NoError(t, s.Close())

	out := buf.String()
	destroy := strings.Index(out, "destroying random number generator")
	zero := strings.Index(out, "zeroing memory")
	require.NotEqual(t, -1, destroy)
	require.NotEqual(t, -1, zero)
	assert.Less(t, destroy, zero, "generator is destroyed before the arena is zeroed")
}

func TestClose_ReportsDestroyFailure(t *testing.T) {
	t.Parallel()

	gen := fakes.NewScriptedGenerator()
	require.NoError(t, gen.Destroy())
	backend := fakes.NewFakeBackend("fake", 100).WithGenerator(gen)

	s, err := session.Open(session.Options{Backend: backend, Pages: 2})
	require.NoError(t, err)

	err = s.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, pwerrors.ErrCryptoBackendFailed)
	assert.True(t, s.Arena().Released(), "arena is released even when destroy fails")
}

func TestGenerate_AfterClose(t *testing.T) {
	t.Parallel()

	s := open(t, session.Options{})
	require.NoError(t, s.Close())

	_, err := s.Generate(pwgen.Request{Strategy: pwgen.StrategyRaw, Count: 8})
	assert.ErrorIs(t, err, pwerrors.ErrInvalidRequest)

	err = s.GenerateFunc(pwgen.Request{Strategy: pwgen.StrategyRaw, Count: 8}, func(pwgen.Result) error {
		t.Fatal("callback must not run on a closed session")
		return nil
	})
	assert.ErrorIs(t, err, pwerrors.ErrInvalidRequest)
}

func TestGenerate_PropagatesRequestErrors(t *testing.T) {
	t.Parallel()

	s := open(t, session.Options{})
	_, err := s.Generate(pwgen.Request{Strategy: pwgen.StrategyASCII, Count: 0, Classes: pwgen.Digits})
	assert.ErrorIs(t, err, pwerrors.ErrInvalidRequest)
}

func TestGenerateFunc_CloseWaitsForReader(t *testing.T) {
	t.Parallel()

	s := open(t, session.Options{})

	var (
		wg     sync.WaitGroup
		copied []byte
	)
	err := s.GenerateFunc(pwgen.Request{Strategy: pwgen.StrategyKoremutake, Count: 70}, func(res pwgen.Result) error {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Close()
		}()
		// Close is blocked on the session lock; the secret stays readable.
		time.Sleep(20 * time.Millisecond)
		assert.False(t, s.Arena().Released())
		copied = append([]byte(nil), res.Secret...)
		return nil
	})
	require.NoError(t, err)

	wg.Wait()
	assert.True(t, s.Arena().Released())
	assert.NotEmpty(t, copied)
}

func TestGenerateFunc_CallbackError(t *testing.T) {
	t.Parallel()

	s := open(t, session.Options{})
	want := errors.New("write failed")
	err := s.GenerateFunc(pwgen.Request{Strategy: pwgen.StrategyRaw, Count: 8}, func(pwgen.Result) error {
		return want
	})
	assert.ErrorIs(t, err, want)
}
