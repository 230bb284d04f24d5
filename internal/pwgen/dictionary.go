package pwgen

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	pwerrors "github.com/systmms/pwgen/internal/errors"
)

// Dictionary maps a random number to a word. Size is the number of distinct
// words and is only used for entropy accounting and uniform draws.
type Dictionary interface {
	Word(r uint32) string
	Size() int
}

// WordList is a Dictionary backed by an in-memory list.
type WordList struct {
	name  string
	words []string
}

// NewWordList builds a WordList, rejecting empty, duplicate and non-ASCII words.
func NewWordList(name string, words []string) (*WordList, error) {
	if len(words) == 0 {
		return nil, pwerrors.ConfigError{
			Field:   "wordlists." + name,
			Message: "word list is empty",
		}
	}
	if uint64(len(words)) > 1<<32 {
		return nil, pwerrors.ConfigError{
			Field:   "wordlists." + name,
			Value:   len(words),
			Message: "word list has more than 2^32 entries",
		}
	}

	seen := make(map[string]struct{}, len(words))
	for i, w := range words {
		if !isWord(w) {
			return nil, pwerrors.ConfigError{
				Field:      "wordlists." + name,
				Value:      i + 1,
				Message:    fmt.Sprintf("entry %q is not a printable ASCII word", w),
				Suggestion: "Use one word per line, optionally prefixed by its dice roll",
			}
		}
		if _, dup := seen[w]; dup {
			return nil, pwerrors.ConfigError{
				Field:   "wordlists." + name,
				Value:   w,
				Message: "duplicate word would overstate entropy",
			}
		}
		seen[w] = struct{}{}
	}

	return &WordList{name: name, words: words}, nil
}

// Word returns the word for r, reduced modulo the list size.
func (l *WordList) Word(r uint32) string {
	return l.words[uint64(r)%uint64(len(l.words))]
}

// Size returns the number of words.
func (l *WordList) Size() int {
	return len(l.words)
}

// Name returns the name the list was loaded under.
func (l *WordList) Name() string {
	return l.name
}

// LoadWordList reads a word list file. Each non-blank, non-comment line is
// either a single word or a diceware line such as "11111	abacus".
func LoadWordList(name, path string) (*WordList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pwerrors.UserError{
			Message:    fmt.Sprintf("Cannot open %s word list: %s", name, path),
			Details:    err.Error(),
			Suggestion: fmt.Sprintf("Set 'wordlists.%s' in the configuration file or pass --wordlist", name),
			Err:        err,
		}
	}
	defer func() { _ = f.Close() }()

	return ReadWordList(name, f)
}

// ReadWordList parses a word list from r.
func ReadWordList(name string, r io.Reader) (*WordList, error) {
	var words []string

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		switch {
		case len(fields) == 1:
			words = append(words, fields[0])
		case len(fields) == 2 && isDiceRoll(fields[0]):
			words = append(words, fields[1])
		default:
			return nil, pwerrors.ConfigError{
				Field:      "wordlists." + name,
				Value:      line,
				Message:    fmt.Sprintf("cannot parse line %q", text),
				Suggestion: "Use one word per line, optionally prefixed by its dice roll",
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s word list: %w", name, err)
	}

	return NewWordList(name, words)
}

func isDiceRoll(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] <= ' ' || s[i] > '~' {
			return false
		}
	}
	return true
}
