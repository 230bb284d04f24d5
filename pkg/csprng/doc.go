// Package csprng defines the pluggable cryptographically secure random
// number generator used by pwgen.
//
// # Architecture Overview
//
//	┌──────────────────────────────────────────────┐
//	│            Generation Engine                 │
//	│             (internal/pwgen/)                │
//	└─────────────────────┬────────────────────────┘
//	                      │ Fill
//	┌─────────────────────▼────────────────────────┐
//	│       Backend / Generator interface          │
//	│              (pkg/csprng/)                   │
//	│                                              │
//	│   ┌────────────┐          ┌────────────┐     │
//	│   │  blowfish  │          │  chacha20  │     │
//	│   └────────────┘          └────────────┘     │
//	└─────────────────────┬────────────────────────┘
//	                      │ state lives in
//	┌─────────────────────▼────────────────────────┐
//	│             Secure Arena                     │
//	│            (internal/secure/)                │
//	└──────────────────────────────────────────────┘
//
// A Backend answers one question before any memory is reserved (how many
// bytes of state do you need?) and then initializes a Generator whose
// entire state is placed in caller-provided storage, normally a sub-region
// of the locked arena. Backend state types contain no Go pointers, so the
// storage may live outside the Go heap.
//
// # Contract
//
//   - StateSize is callable without any storage.
//   - Init seeds from the entropy reader (crypto/rand.Reader when nil).
//   - Fill writes exactly len(p) bytes or returns an error; it never
//     returns stale output from an earlier call.
//   - Destroy wipes the state and must be the last call on a Generator.
//
// Every failure is reported as a CryptoBackendFailed error (or Config when
// the storage cannot hold the state); nothing fails silently.
package csprng
