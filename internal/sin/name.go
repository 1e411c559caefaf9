package sin

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// NameWidth is the encoded width of a first or last name.
	NameWidth = 26

	// overflowName is "OVERFLOW" in letter codes, padded to NameWidth.
	overflowName = "15220518061215230000000000"

	namePad = "00"
)

var (
	letterToCode = buildLetterCodes()
	codeToLetter = invertLetterCodes(letterToCode)
)

func buildLetterCodes() map[rune]string {
	m := make(map[rune]string, 27)
	m['-'] = namePad
	for r := 'A'; r <= 'Z'; r++ {
		m[r] = fmt.Sprintf("%02d", r-'A'+1)
	}
	return m
}

func invertLetterCodes(m map[rune]string) map[string]rune {
	inv := make(map[string]rune, len(m))
	for r, code := range m {
		inv[code] = r
	}
	return inv
}

// firstToken trims the name and keeps its first whitespace-separated word.
func firstToken(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// EncodeName maps the first word of name to two-digit letter codes and pads
// the result to NameWidth. Names longer than 13 letters encode to the
// OVERFLOW sentinel instead of being truncated.
func EncodeName(name string) (string, error) {
	token := strings.ToUpper(firstToken(name))

	var b strings.Builder
	b.Grow(NameWidth)
	for _, r := range token {
		code, ok := letterToCode[r]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrInvalidCharacter, r)
		}
		b.WriteString(code)
	}

	encoded := b.String()
	if len(encoded) > NameWidth {
		return overflowName, nil
	}
	return encoded + strings.Repeat("0", NameWidth-len(encoded)), nil
}

// DecodeName reverses EncodeName. Decoding stops at the first "00" chunk, so
// a hyphen inside a name truncates it; unknown chunks decode to '?'.
func DecodeName(field string) string {
	var b strings.Builder
	for i := 0; i+2 <= len(field); i += 2 {
		chunk := field[i : i+2]
		if chunk == namePad {
			break
		}
		r, ok := codeToLetter[chunk]
		if !ok {
			r = '?'
		}
		if r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return capitalize(strings.ToLower(b.String()))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if unicode.IsLetter(r[0]) {
		r[0] = unicode.ToUpper(r[0])
	}
	return string(r)
}
