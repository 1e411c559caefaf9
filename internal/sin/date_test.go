package sin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDate(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day string
		want             string
	}{
		{"pads month and day", "1995", "3", "22", "19950322"},
		{"already padded", "1995", "03", "02", "19950302"},
		{"trims whitespace", " 2001 ", " 12", "9 ", "20011209"},
		{"calendar is not checked", "2024", "99", "00", "20249900"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeDate(tt.year, tt.month, tt.day)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeDateRejectsBadWidths(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day string
	}{
		{"short year", "95", "3", "22"},
		{"long year", "19955", "3", "22"},
		{"empty month", "1995", "", "22"},
		{"three digit day", "1995", "3", "122"},
		{"non digit", "19a5", "3", "22"},
		{"negative day", "1995", "3", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EncodeDate(tt.year, tt.month, tt.day)
			assert.ErrorIs(t, err, ErrInvalidDate)
		})
	}
}

func TestDecodeDate(t *testing.T) {
	y, m, d := DecodeDate("19950322")
	assert.Equal(t, []string{"1995", "03", "22"}, []string{y, m, d})

	y, m, d = DecodeDate("1995032")
	assert.Equal(t, []string{UnknownYear, UnknownMonth, UnknownDay}, []string{y, m, d})
}
