package pwgen

import (
	"strings"

	pwerrors "github.com/systmms/pwgen/internal/errors"
)

// ClassSet is a bitmask of character classes allowed in an ASCII password.
type ClassSet uint

const (
	Alphanumeric ClassSet = 1 << iota
	Digits
	Hex
	Special
	Syllables
)

// diceSides is the size of every primary table: two six-sided dice.
const diceSides = 36

// Class is one entry of the character-class catalog. Empty strings in
// Primary or Secondary are absent slots: landing on one rejects the whole
// component so valid symbols stay uniformly likely.
type Class struct {
	ID        ClassSet
	Letter    byte
	Name      string
	Primary   [diceSides]string
	Secondary []string
	Bits      float64
}

// TwoStage reports whether the class appends a symbol from Secondary.
func (c *Class) TwoStage() bool {
	return c.Secondary != nil
}

// MaxComponent is the longest text a single component can produce.
const MaxComponent = 3

var catalog = [...]Class{
	{
		ID: Alphanumeric, Letter: 'a', Name: "alphanumeric", Bits: 5.17,
		Primary: [diceSides]string{
			"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L",
			"M", "N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X",
			"Y", "Z", "0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
		},
	},
	{
		ID: Digits, Letter: 'd', Name: "decimal digits", Bits: 3.32,
		Primary: [diceSides]string{
			"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
			"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
			"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
		},
	},
	{
		ID: Hex, Letter: 'h', Name: "hexadecimal digits", Bits: 4,
		Primary: [diceSides]string{
			"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "A", "B", "C", "D", "E", "F",
			"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "A", "B", "C", "D", "E", "F",
		},
	},
	{
		ID: Special, Letter: 's', Name: "special characters", Bits: 5.17,
		Primary: [diceSides]string{
			"!", "@", "#", "$", "%", "^", "&", "*", "(", ")", "-", "_",
			"+", "=", "[", "]", "{", "}", ";", ":", "'", "\"", ",", ".",
			"<", ">", "/", "?", "`", "~", "|", "\\", "--", "==", "..", "//",
		},
	},
	{
		ID: Syllables, Letter: 'y', Name: "syllables", Bits: 7.75,
		Primary: [diceSides]string{
			"B", "C", "D", "F", "G", "H",
			"J", "K", "L", "M", "N", "P",
			"QU", "R", "S", "T", "V", "W",
			"X", "Z", "CH", "CR", "FR", "ND",
			"NG", "NK", "NT", "PH", "PR", "RD",
			"SH", "SL", "SP", "ST", "TH", "TR",
		},
		Secondary: []string{"A", "E", "I", "O", "U", "Y"},
	},
}

// Catalog returns the fixed, ordered class catalog.
func Catalog() []Class {
	out := make([]Class, len(catalog))
	copy(out, catalog[:])
	return out
}

// Has reports whether every class in c is in s.
func (s ClassSet) Has(c ClassSet) bool {
	return s&c == c
}

// String returns the class letters in catalog order, e.g. "ds".
func (s ClassSet) String() string {
	var b strings.Builder
	for i := range catalog {
		if s.Has(catalog[i].ID) {
			b.WriteByte(catalog[i].Letter)
		}
	}
	return b.String()
}

// Normalize removes overlapping alphabets so entropy is not counted twice.
// Alphanumeric already contains digits and hex digits, hex already contains
// decimal digits, and syllables only combine with plain decimal digits.
// Normalize is idempotent.
func Normalize(s ClassSet) ClassSet {
	if s.Has(Alphanumeric) {
		s &^= Digits | Hex
	}
	if s.Has(Hex) {
		s &^= Digits
	}
	if s.Has(Syllables) && s&(Alphanumeric|Digits|Hex) != 0 {
		s &^= Alphanumeric | Digits | Hex
		s |= Digits
	}
	return s
}

// ParseClasses converts class letters (a, d, h, s, y) to a normalized set.
func ParseClasses(letters string) (ClassSet, error) {
	var s ClassSet
	for i := 0; i < len(letters); i++ {
		c := classByLetter(letters[i])
		if c == nil {
			return 0, pwerrors.Newf(pwerrors.InvalidRequest, "parse classes",
				"unknown character class %q (want any of a, d, h, s, y)", letters[i])
		}
		s |= c.ID
	}

	s = Normalize(s)
	if s == 0 {
		return 0, pwerrors.Newf(pwerrors.InvalidRequest, "parse classes", "at least one character class is required")
	}
	return s, nil
}

func classByLetter(l byte) *Class {
	for i := range catalog {
		if catalog[i].Letter == l {
			return &catalog[i]
		}
	}
	return nil
}
