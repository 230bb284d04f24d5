package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Words returns n distinct printable words.
func Words(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("word%05d", i)
	}
	return words
}

// DicewareLines formats words as "<rolls>\t<word>" lines, the layout of the
// published diceware lists. The roll prefix is decorative.
func DicewareLines(words []string) []string {
	lines := make([]string, len(words))
	for i, w := range words {
		lines[i] = fmt.Sprintf("%05d\t%s", 11111+i%55555, w)
	}
	return lines
}

// WriteWordList writes one entry per line into a temporary file and returns its path.
func WriteWordList(t *testing.T, lines []string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "words.txt")
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write word list: %v", err)
	}
	return path
}
