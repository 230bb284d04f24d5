// Package encoding turns raw random bytes into printable secrets without
// allocating: every encoder writes into a caller-supplied buffer, which in
// practice is the secret region of the arena.
package encoding

import (
	"encoding/base64"
)

// MaxSyllable is the length of the longest koremutake syllable.
const MaxSyllable = 3

var koremutakeSyllables = [128]string{
	"BA", "BE", "BI", "BO", "BU", "BY", "DA", "DE",
	"DI", "DO", "DU", "DY", "FA", "FE", "FI", "FO",
	"FU", "FY", "GA", "GE", "GI", "GO", "GU", "GY",
	"HA", "HE", "HI", "HO", "HU", "HY", "JA", "JE",
	"JI", "JO", "JU", "JY", "KA", "KE", "KI", "KO",
	"KU", "KY", "LA", "LE", "LI", "LO", "LU", "LY",
	"MA", "ME", "MI", "MO", "MU", "MY", "NA", "NE",
	"NI", "NO", "NU", "NY", "PA", "PE", "PI", "PO",
	"PU", "PY", "RA", "RE", "RI", "RO", "RU", "RY",
	"SA", "SE", "SI", "SO", "SU", "SY", "TA", "TE",
	"TI", "TO", "TU", "TY", "VA", "VE", "VI", "VO",
	"VU", "VY", "BRA", "BRE", "BRI", "BRO", "BRU", "BRY",
	"DRA", "DRE", "DRI", "DRO", "DRU", "DRY", "FRA", "FRE",
	"FRI", "FRO", "FRU", "FRY", "GRA", "GRE", "GRI", "GRO",
	"GRU", "GRY", "PRA", "PRE", "PRI", "PRO", "PRU", "PRY",
	"STA", "STE", "STI", "STO", "STU", "STY", "TRA", "TRE",
}

// Syllable returns the koremutake syllable for the low 7 bits of b.
func Syllable(b byte) string {
	return koremutakeSyllables[b&0x7f]
}

// Base64Len returns the padded base64 length of n input bytes.
func Base64Len(n int) int {
	return base64.StdEncoding.EncodedLen(n)
}

// Base64 encodes src with the standard padded alphabet into dst and returns
// the number of bytes written. dst must hold Base64Len(len(src)) bytes.
func Base64(dst, src []byte) int {
	n := Base64Len(len(src))
	base64.StdEncoding.Encode(dst[:n], src)
	return n
}

// KoremutakeLen returns the exact encoded length of src.
func KoremutakeLen(src []byte) int {
	n := 0
	for _, b := range src {
		n += len(Syllable(b))
	}
	return n
}

// Koremutake writes one syllable per input byte into dst, without
// separators, and returns the number of bytes written. dst must hold
// KoremutakeLen(src) bytes; len(src)*MaxSyllable is always enough.
func Koremutake(dst, src []byte) int {
	n := 0
	for _, b := range src {
		n += copy(dst[n:], Syllable(b))
	}
	return n
}
