package sin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeAndParse(t *testing.T) {
	fields := Fields{
		FirstName: "01081305040000000000000000",
		LastName:  "02051401120900000000000000",
		Country:   "1301",
		Date:      "19950322",
		Gender:    "1",
	}

	sin := Compose(fields)
	require.Len(t, sin, Length)
	assert.Equal(t, "101081305040000000000000000020514011209000000000000001301199503221", sin)

	parsed, err := Parse(sin)
	require.NoError(t, err)
	fields.Verifier = Verifier
	assert.Equal(t, fields, parsed)
}

func TestComposeIgnoresSuppliedVerifier(t *testing.T) {
	sin := Compose(Fields{Verifier: "9"})
	assert.True(t, strings.HasPrefix(sin, Verifier))
}

func TestParseRejectsWrongLength(t *testing.T) {
	for _, sin := range []string{"", "1", strings.Repeat("1", Length-1), strings.Repeat("1", Length+1)} {
		_, err := Parse(sin)
		assert.ErrorIs(t, err, ErrMalformedSIN)
	}
}

func TestParseRejectsWrongVerifier(t *testing.T) {
	_, err := Parse("2" + strings.Repeat("0", Length-1))
	assert.ErrorIs(t, err, ErrInvalidVerifier)

	_, err = Parse("-" + strings.Repeat("1", Length-1))
	assert.ErrorIs(t, err, ErrInvalidVerifier)
}
