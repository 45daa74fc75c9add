package gameModel

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

const WordLength = 5

var ErrInvalidWord = errors.New("invalid word")

// Word holds up to WordLength lowercase ASCII letters. A zero byte marks a
// slot that has not been typed yet.
type Word [WordLength]byte

// ParseWord accepts exactly five ASCII letters in any case.
func ParseWord(s string) (Word, error) {
	var w Word
	s = strings.TrimSpace(s)
	if len(s) != WordLength {
		return w, fmt.Errorf("%w: %q must have %d letters", ErrInvalidWord, s, WordLength)
	}
	for i := 0; i < WordLength; i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c < 'a' || c > 'z' {
			return Word{}, fmt.Errorf("%w: %q has non-letter at position %d", ErrInvalidWord, s, i)
		}
		w[i] = c
	}
	return w, nil
}

// MustWord is ParseWord for literals; it panics on bad input.
func MustWord(s string) Word {
	w, err := ParseWord(s)
	if err != nil {
		panic(err)
	}
	return w
}

// SetLetter sets or clears (c == 0) the letter at position i.
func (w *Word) SetLetter(i int, c byte) {
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	if c != 0 && (c < 'a' || c > 'z') {
		return
	}
	w[i] = c
}

func (w Word) IsComplete() bool {
	for _, c := range w {
		if c == 0 {
			return false
		}
	}
	return true
}

// Compare orders words lexically; unset slots sort first.
func (w Word) Compare(o Word) int {
	return bytes.Compare(w[:], o[:])
}

func (w Word) String() string {
	var b strings.Builder
	b.Grow(WordLength)
	for _, c := range w {
		if c == 0 {
			b.WriteByte('_')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func (w Word) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Word) UnmarshalText(text []byte) error {
	parsed, err := ParseWord(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
