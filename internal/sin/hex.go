package sin

import (
	"fmt"
	"math/big"
	"strings"
)

// EncodeHex renders v as uppercase hexadecimal without a prefix. Negative
// values keep their sign.
func EncodeHex(v *big.Int) string {
	return strings.ToUpper(v.Text(16))
}

// DecodeHex parses hexadecimal text in either case. A leading sign is
// accepted so tokens secured with a negative effective PIN round-trip.
func DecodeHex(token string) (*big.Int, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformedSIN)
	}
	v, ok := new(big.Int).SetString(token, 16)
	if !ok {
		return nil, fmt.Errorf("%w: token is not hexadecimal", ErrMalformedSIN)
	}
	return v, nil
}

// CanonicalHex is the one spelling of token's value: leading zeros, a plus
// sign and letter case are normalised away. Text that is not hexadecimal is
// only trimmed and upper-cased.
func CanonicalHex(token string) string {
	v, err := DecodeHex(token)
	if err != nil {
		return strings.ToUpper(strings.TrimSpace(token))
	}
	return EncodeHex(v)
}
