package sin

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCountry(t *testing.T) {
	code, err := EncodeCountry("MA")
	require.NoError(t, err)
	assert.Equal(t, "1301", code)

	code, err = EncodeCountry("us")
	require.NoError(t, err)
	assert.Equal(t, "2119", code, "lookup is case-insensitive")

	_, err = EncodeCountry("XX")
	assert.ErrorIs(t, err, ErrUnknownCountry)

	_, err = EncodeCountry("")
	assert.ErrorIs(t, err, ErrUnknownCountry)
}

func TestDecodeCountryIsLenient(t *testing.T) {
	assert.Equal(t, "MA", DecodeCountry("1301"))
	assert.Equal(t, UnknownCountry, DecodeCountry("9999"))
	assert.Equal(t, UnknownCountry, DecodeCountry(""))
}

func TestCountryTableIsBijective(t *testing.T) {
	seen := make(map[string]string, len(countryCodes))
	for iso, code := range countryCodes {
		require.Len(t, code, CountryWidth, iso)
		if other, dup := seen[code]; dup {
			t.Fatalf("code %s used by %s and %s", code, other, iso)
		}
		seen[code] = iso

		encoded, err := EncodeCountry(iso)
		require.NoError(t, err)
		assert.Equal(t, iso, DecodeCountry(encoded))
	}
}

func TestCountryCodesAreLetterPositions(t *testing.T) {
	for iso, code := range countryCodes {
		want := fmt.Sprintf("%02d%02d", iso[0]-'A'+1, iso[1]-'A'+1)
		assert.Equal(t, want, code, iso)
	}
}

func TestCountries(t *testing.T) {
	list := Countries()
	assert.Len(t, list, len(countryCodes))
	assert.True(t, sort.StringsAreSorted(list))
	assert.Contains(t, list, "MA")

	list[0] = "ZZ"
	assert.NotEqual(t, "ZZ", Countries()[0], "callers get a copy")
}
