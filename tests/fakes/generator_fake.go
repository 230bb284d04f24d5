package fakes

import (
	"encoding/binary"
	"errors"
	"sync"

	pwerrors "github.com/systmms/pwgen/internal/errors"
)

// ErrScriptExhausted is returned once a ScriptedGenerator runs out of bytes.
var ErrScriptExhausted = errors.New("scripted generator exhausted")

// ScriptedGenerator is a manual fake implementation of csprng.Generator.
//
// It hands out a predetermined byte stream so sampling code can be tested
// against exact draws. Every Fill consumes len(p) bytes from the script.
//
// Example usage:
//
//	gen := fakes.NewScriptedGenerator().
//	    WithUnits(1, 5, 0).  // class=digits, dice=5, dice3=0
//	    WithBytes(0xde, 0xad)
//
//	engine := pwgen.New(gen, scratch, out)
type ScriptedGenerator struct {
	script    []byte
	fills     []int
	failAfter int
	destroyed bool

	mu sync.Mutex
}

// NewScriptedGenerator creates an empty scripted generator.
func NewScriptedGenerator() *ScriptedGenerator {
	return &ScriptedGenerator{failAfter: -1}
}

// WithBytes appends raw bytes to the script.
func (g *ScriptedGenerator) WithBytes(b ...byte) *ScriptedGenerator {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.script = append(g.script, b...)
	return g
}

// WithUnits appends 32-bit units in native byte order.
func (g *ScriptedGenerator) WithUnits(units ...uint32) *ScriptedGenerator {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, u := range units {
		g.script = binary.NativeEndian.AppendUint32(g.script, u)
	}
	return g
}

// FailAfter makes every Fill after the first n calls fail.
func (g *ScriptedGenerator) FailAfter(n int) *ScriptedGenerator {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.failAfter = n
	return g
}

// Fill implements csprng.Generator.
func (g *ScriptedGenerator) Fill(p []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.destroyed {
		return pwerrors.Newf(pwerrors.CryptoBackendFailed, "fake fill", "generator already destroyed")
	}
	if g.failAfter >= 0 && len(g.fills) >= g.failAfter {
		return pwerrors.New(pwerrors.CryptoBackendFailed, "fake fill", errors.New("injected failure"))
	}
	if len(p) > len(g.script) {
		return pwerrors.New(pwerrors.CryptoBackendFailed, "fake fill", ErrScriptExhausted)
	}

	copy(p, g.script[:len(p)])
	g.script = g.script[len(p):]
	g.fills = append(g.fills, len(p))
	return nil
}

// Destroy implements csprng.Generator.
func (g *ScriptedGenerator) Destroy() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.destroyed {
		return pwerrors.Newf(pwerrors.CryptoBackendFailed, "fake destroy", "generator already destroyed")
	}
	g.destroyed = true
	g.script = nil
	return nil
}

// Fills returns the sizes of all successful Fill calls.
func (g *ScriptedGenerator) Fills() []int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]int(nil), g.fills...)
}

// Remaining returns the number of unread script bytes.
func (g *ScriptedGenerator) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.script)
}

// Destroyed reports whether Destroy was called.
func (g *ScriptedGenerator) Destroyed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.destroyed
}

// CountingGenerator is a fake that fills with an incrementing byte counter.
// It never fails and is useful where only lengths matter.
type CountingGenerator struct {
	next byte
}

// Fill implements csprng.Generator.
func (g *CountingGenerator) Fill(p []byte) error {
	for i := range p {
		p[i] = g.next
		g.next++
	}
	return nil
}

// Destroy implements csprng.Generator.
func (g *CountingGenerator) Destroy() error {
	return nil
}
