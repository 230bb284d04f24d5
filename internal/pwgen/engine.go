package pwgen

import (
	"encoding/binary"
	"math"

	"github.com/awnumar/memguard"

	"github.com/systmms/pwgen/internal/encoding"
	pwerrors "github.com/systmms/pwgen/internal/errors"
	"github.com/systmms/pwgen/pkg/csprng"
)

const (
	// UnitSize is the size of one native random unit.
	UnitSize = 4
	// ScratchUnits is how many units the scratch buffer must hold.
	ScratchUnits = 64
	// ScratchSize is the minimum scratch buffer size.
	ScratchSize = UnitSize * ScratchUnits
	// MinSecretSize is the minimum secret buffer size.
	MinSecretSize = 512
)

// EnhancementSymbols replace one character per word of an enhanced passphrase.
const EnhancementSymbols = "!@#$%^&*()-_+=[]{};:'\",.<>/?`~|\\UOEY"

// Engine runs the sampling strategies. All random bytes pass through scratch
// and all output is written to out; both normally live in the arena.
type Engine struct {
	rng     csprng.Generator
	scratch []byte
	out     []byte
	n       int
	stats   Stats
}

// New creates an engine. scratch must hold at least ScratchSize bytes.
func New(rng csprng.Generator, scratch, out []byte) *Engine {
	return &Engine{
		rng:     rng,
		scratch: scratch,
		out:     out,
	}
}

// Stats returns the draw counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Generate validates req and runs the selected strategy.
func (e *Engine) Generate(req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	switch req.Strategy {
	case StrategyDiceware:
		return e.Diceware(req.Count, req.Enhanced, req.Dictionary)
	case StrategyRaw:
		return e.Raw(req.Count)
	case StrategyKoremutake:
		return e.Koremutake(req.Count)
	default:
		return e.ASCII(req.Count, req.Classes)
	}
}

// Diceware draws n words from dict, separated by single spaces. Each word
// adds log2(dict.Size()) bits. When enhanced, one character of every word
// is replaced by a random symbol at a random position, adding
// log2(len(word)) + log2(36) bits.
func (e *Engine) Diceware(n int, enhanced bool, dict Dictionary) (Result, error) {
	req := Request{Strategy: StrategyDiceware, Count: n, Enhanced: enhanced, Dictionary: dict}
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	size := dict.Size()
	bitsPerWord := math.Log2(float64(size))

	return e.run(func() (float64, error) {
		var entropy float64
		for i := 0; i < n; i++ {
			r, err := e.uniform(uint64(size))
			if err != nil {
				return 0, err
			}
			word := dict.Word(uint32(r))
			if word == "" {
				return 0, pwerrors.Newf(pwerrors.InvalidRequest, "diceware", "dictionary returned an empty word")
			}

			if i > 0 {
				if err := e.emit(" "); err != nil {
					return 0, err
				}
			}
			start := e.n
			if err := e.emit(word); err != nil {
				return 0, err
			}
			entropy += bitsPerWord

			if enhanced {
				pos, err := e.uniform(uint64(len(word)))
				if err != nil {
					return 0, err
				}
				sym, err := e.uniform(uint64(len(EnhancementSymbols)))
				if err != nil {
					return 0, err
				}
				e.out[start+int(pos)] = EnhancementSymbols[sym]
				entropy += math.Log2(float64(len(word))) + math.Log2(float64(len(EnhancementSymbols)))
			}
		}
		return entropy, nil
	})
}

// Raw draws ceil(bits/8) bytes and encodes them as padded base64. The
// reported entropy is rounded up to whole bytes: 8*ceil(bits/8).
func (e *Engine) Raw(bits int) (Result, error) {
	req := Request{Strategy: StrategyRaw, Count: bits}
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	nbytes := ceilDiv(bits, 8)
	// Base64 needs more than one output byte per input byte.
	if nbytes > len(e.out) || encoding.Base64Len(nbytes) > len(e.out) {
		return Result{}, pwerrors.Newf(pwerrors.ResourceExhausted, "raw",
			"%d bits do not fit in %d output bytes", bits, len(e.out))
	}

	return e.run(func() (float64, error) {
		// A multiple of 3 keeps chunked encoding identical to one-shot encoding.
		chunk := len(e.scratch) / 3 * 3
		for remaining := nbytes; remaining > 0; {
			k := min(chunk, remaining)
			if err := e.fill(e.scratch[:k]); err != nil {
				return 0, err
			}
			e.n += encoding.Base64(e.out[e.n:], e.scratch[:k])
			remaining -= k
		}
		return 8 * float64(nbytes), nil
	})
}

// Koremutake draws ceil(bits/7) bytes and encodes each as one syllable. The
// reported entropy is rounded up to whole syllables: 7*ceil(bits/7).
func (e *Engine) Koremutake(bits int) (Result, error) {
	req := Request{Strategy: StrategyKoremutake, Count: bits}
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	nbytes := ceilDiv(bits, 7)
	// Every syllable is at least two letters.
	if nbytes > len(e.out)/2 {
		return Result{}, pwerrors.Newf(pwerrors.ResourceExhausted, "koremutake",
			"%d bits do not fit in %d output bytes", bits, len(e.out))
	}

	return e.run(func() (float64, error) {
		for remaining := nbytes; remaining > 0; {
			k := min(len(e.scratch), remaining)
			src := e.scratch[:k]
			if err := e.fill(src); err != nil {
				return 0, err
			}
			if need := encoding.KoremutakeLen(src); need > len(e.out)-e.n {
				return 0, e.exhausted("koremutake", need)
			}
			e.n += encoding.Koremutake(e.out[e.n:], src)
			remaining -= k
		}
		return 7 * float64(nbytes), nil
	})
}

// ASCII draws n components from the allowed classes. Each component picks a
// class uniformly among the allowed ones, then a symbol from its primary
// table and, for two-stage classes, one from its secondary table. Landing on
// an absent slot restarts the component. Entropy is the class's bits per
// accepted component.
func (e *Engine) ASCII(n int, classes ClassSet) (Result, error) {
	req := Request{Strategy: StrategyASCII, Count: n, Classes: classes}
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	classes = req.Classes

	return e.run(func() (float64, error) {
		var entropy float64
		for i := 0; i < n; i++ {
			bits, err := e.component(classes)
			if err != nil {
				return 0, err
			}
			entropy += bits
		}
		return entropy, nil
	})
}

func (e *Engine) component(classes ClassSet) (float64, error) {
	for {
		c, err := e.selectClass(classes)
		if err != nil {
			return 0, err
		}
		d12, err := e.uniform(diceSides)
		if err != nil {
			return 0, err
		}
		d3, err := e.uniform(6)
		if err != nil {
			return 0, err
		}

		first := c.Primary[d12]
		if first == "" {
			e.stats.Rejections++
			continue
		}
		var second string
		if c.TwoStage() {
			second = c.Secondary[d3]
			if second == "" {
				e.stats.Rejections++
				continue
			}
		}

		if err := e.emit(first); err != nil {
			return 0, err
		}
		if err := e.emit(second); err != nil {
			return 0, err
		}
		return c.Bits, nil
	}
}

func (e *Engine) selectClass(classes ClassSet) (*Class, error) {
	for {
		idx, err := e.uniform(uint64(len(catalog)))
		if err != nil {
			return nil, err
		}
		if classes.Has(catalog[idx].ID) {
			return &catalog[idx], nil
		}
		e.stats.Rejections++
	}
}

// run resets the output, executes one strategy and wipes scratch. On error
// the partial output is wiped so no partial secret is ever returned.
func (e *Engine) run(fn func() (float64, error)) (Result, error) {
	memguard.WipeBytes(e.out[:e.n])
	e.n = 0
	defer memguard.WipeBytes(e.scratch)

	entropy, err := fn()
	if err != nil {
		memguard.WipeBytes(e.out[:e.n])
		e.n = 0
		return Result{}, err
	}

	return Result{Secret: e.out[:e.n:e.n], Entropy: entropy}, nil
}

// ceilDiv returns ceil(n/d) for positive n without overflowing near math.MaxInt.
func ceilDiv(n, d int) int {
	q := n / d
	if n%d != 0 {
		q++
	}
	return q
}

func (e *Engine) fill(p []byte) error {
	if err := e.rng.Fill(p); err != nil {
		return err
	}
	e.stats.Draws++
	return nil
}

// uniform returns a value in [0, n) drawn from one native unit, redrawing
// values in the biased tail above the largest multiple of n.
func (e *Engine) uniform(n uint64) (uint64, error) {
	limit := (1 << 32) - (1<<32)%n
	unit := e.scratch[:UnitSize]
	for {
		if err := e.fill(unit); err != nil {
			return 0, err
		}
		r := uint64(binary.NativeEndian.Uint32(unit))
		if r < limit {
			return r % n, nil
		}
		e.stats.Rejections++
	}
}

func (e *Engine) emit(s string) error {
	if len(s) > len(e.out)-e.n {
		return e.exhausted("output", len(s))
	}
	e.n += copy(e.out[e.n:], s)
	return nil
}

func (e *Engine) exhausted(op string, need int) error {
	return pwerrors.Newf(pwerrors.ResourceExhausted, op,
		"secret buffer full: need %d more bytes, %d of %d used", need, e.n, len(e.out))
}
