package pwgen

import (
	pwerrors "github.com/systmms/pwgen/internal/errors"
)

// Strategy selects how a secret is sampled.
type Strategy int

const (
	StrategyUnknown Strategy = iota
	// StrategyDiceware draws Count words from a Dictionary.
	StrategyDiceware
	// StrategyRaw draws Count bits and encodes them as base64.
	StrategyRaw
	// StrategyKoremutake draws Count bits and encodes them as syllables.
	StrategyKoremutake
	// StrategyASCII draws Count components from the allowed classes.
	StrategyASCII
)

var strategyNames = map[Strategy]string{
	StrategyDiceware:   "diceware",
	StrategyRaw:        "raw",
	StrategyKoremutake: "koremutake",
	StrategyASCII:      "ascii",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseStrategy maps a strategy name back to its value.
func ParseStrategy(name string) (Strategy, error) {
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return StrategyUnknown, pwerrors.Newf(pwerrors.InvalidRequest, "parse strategy", "unknown strategy %q", name)
}

// Request describes one generation run.
type Request struct {
	Strategy Strategy
	// Count is words, bits, bits or components depending on Strategy.
	Count      int
	Enhanced   bool
	Classes    ClassSet
	Dictionary Dictionary
}

// Validate checks the request before anything is drawn. On success the
// class set of an ASCII request is normalized in place.
func (r *Request) Validate() error {
	if r.Count < 1 {
		return pwerrors.Newf(pwerrors.InvalidRequest, "validate", "N must be an integer > 0, got %d", r.Count)
	}

	switch r.Strategy {
	case StrategyDiceware:
		if r.Dictionary == nil {
			return pwerrors.Newf(pwerrors.InvalidRequest, "validate", "diceware requires a dictionary")
		}
		if size := r.Dictionary.Size(); size < 1 || uint64(size) > 1<<32 {
			return pwerrors.Newf(pwerrors.InvalidRequest, "validate", "dictionary size %d out of range", size)
		}
	case StrategyRaw, StrategyKoremutake:
	case StrategyASCII:
		r.Classes = Normalize(r.Classes)
		if r.Classes == 0 {
			return pwerrors.Newf(pwerrors.InvalidRequest, "validate", "at least one character class is required")
		}
	default:
		return pwerrors.Newf(pwerrors.InvalidRequest, "validate", "unrecognized strategy %d", int(r.Strategy))
	}

	return nil
}

// Result is a generated secret and its estimated entropy. Secret aliases the
// engine's output buffer and is overwritten by the next generation.
type Result struct {
	Secret  []byte
	Entropy float64
}

// Stats counts draws made by an engine since it was created.
type Stats struct {
	Draws      int
	Rejections int
}
