package gameModel

import (
	"errors"
	"fmt"
	"strings"
)

// NumStatusCodes is the number of distinct feedback patterns (3^5).
const NumStatusCodes = 243

const (
	AllAbsent  StatusCode = 0
	AllCorrect StatusCode = NumStatusCodes - 1
)

var ErrInvalidPattern = errors.New("invalid pattern")

// Pattern is the per-letter feedback for one guess.
type Pattern [WordLength]LetterStatus

// StatusCode is a Pattern packed base-3, position 0 least significant.
type StatusCode uint8

func (p Pattern) Code() StatusCode {
	var code, pow uint
	pow = 1
	for _, s := range p {
		code += pow * uint(s)
		pow *= 3
	}
	return StatusCode(code)
}

func (c StatusCode) Pattern() Pattern {
	var p Pattern
	v := uint(c)
	for i := range p {
		p[i] = LetterStatus(v % 3)
		v /= 3
	}
	return p
}

func (p Pattern) String() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteByte('0' + byte(s))
	}
	return b.String()
}

// ParsePattern reads five status symbols: 0/b/x/- for absent, 1/y/m for
// misplaced and 2/g/c for correct.
func ParsePattern(s string) (Pattern, error) {
	var p Pattern
	s = strings.TrimSpace(s)
	if len(s) != WordLength {
		return p, fmt.Errorf("%w: %q must have %d symbols", ErrInvalidPattern, s, WordLength)
	}
	for i := 0; i < WordLength; i++ {
		switch s[i] {
		case '0', 'b', 'B', 'x', 'X', '-':
			p[i] = Absent
		case '1', 'y', 'Y', 'm', 'M':
			p[i] = Misplaced
		case '2', 'g', 'G', 'c', 'C':
			p[i] = Correct
		default:
			return Pattern{}, fmt.Errorf("%w: %q has unknown symbol %q", ErrInvalidPattern, s, s[i])
		}
	}
	return p, nil
}

func ParseStatus(s string) (StatusCode, error) {
	p, err := ParsePattern(s)
	if err != nil {
		return 0, err
	}
	return p.Code(), nil
}

func (c StatusCode) String() string {
	return c.Pattern().String()
}

func (c StatusCode) MarshalText() ([]byte, error) {
	if c >= NumStatusCodes {
		return nil, fmt.Errorf("%w: code %d out of range", ErrInvalidPattern, c)
	}
	return []byte(c.String()), nil
}

func (c *StatusCode) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
