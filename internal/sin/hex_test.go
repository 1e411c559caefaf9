package sin

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexRoundTrip(t *testing.T) {
	huge, _ := new(big.Int).SetString(strings.Repeat("9", 220), 10)
	values := []*big.Int{
		big.NewInt(0),
		big.NewInt(255),
		new(big.Int).Lsh(big.NewInt(1), 64),
		huge,
		new(big.Int).Neg(huge),
	}

	for _, v := range values {
		token := EncodeHex(v)
		assert.Equal(t, strings.ToUpper(token), token)
		assert.False(t, strings.HasPrefix(token, "0X"))

		got, err := DecodeHex(token)
		require.NoError(t, err)
		assert.Equal(t, 0, v.Cmp(got), token)
	}
}

func TestEncodeHex(t *testing.T) {
	assert.Equal(t, "FF", EncodeHex(big.NewInt(255)))
	assert.Equal(t, "0", EncodeHex(big.NewInt(0)))
	assert.Equal(t, "-1A", EncodeHex(big.NewInt(-26)))
}

func TestDecodeHexIsCaseInsensitive(t *testing.T) {
	lower, err := DecodeHex("abcdef")
	require.NoError(t, err)
	upper, err := DecodeHex("ABCDEF")
	require.NoError(t, err)
	assert.Equal(t, 0, lower.Cmp(upper))
}

func TestDecodeHexRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "  ", "0x1F", "XYZ", "12 34", "1_000"} {
		_, err := DecodeHex(token)
		assert.ErrorIs(t, err, ErrMalformedSIN, token)
	}
}

func TestCanonicalHex(t *testing.T) {
	for _, spelling := range []string{"1ce1", "01CE1", "001ce1", "+1CE1", " +001Ce1 "} {
		assert.Equal(t, "1CE1", CanonicalHex(spelling), spelling)
	}
	assert.Equal(t, "-1A", CanonicalHex("-001a"))
	assert.Equal(t, "NOT-HEX", CanonicalHex(" not-hex "))
}
