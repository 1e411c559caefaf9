package sin

import (
	"fmt"
	"strings"
)

// DateWidth is the encoded width of a birth date (YYYYMMDD).
const DateWidth = 8

// Sentinel parts returned when an encoded date has the wrong width.
const (
	UnknownYear  = "????"
	UnknownMonth = "??"
	UnknownDay   = "??"
)

// EncodeDate joins year, month and day into YYYYMMDD, zero-padding month and
// day. Values are not checked against the calendar.
func EncodeDate(year, month, day string) (string, error) {
	year = strings.TrimSpace(year)
	month = strings.TrimSpace(month)
	day = strings.TrimSpace(day)

	if len(year) != 4 || !isDigits(year) {
		return "", fmt.Errorf("%w: year %q must be 4 digits", ErrInvalidDate, year)
	}
	if !isShortNumber(month) {
		return "", fmt.Errorf("%w: month %q must be 1 or 2 digits", ErrInvalidDate, month)
	}
	if !isShortNumber(day) {
		return "", fmt.Errorf("%w: day %q must be 1 or 2 digits", ErrInvalidDate, day)
	}
	return year + leftPad2(month) + leftPad2(day), nil
}

// DecodeDate splits an encoded date. Fields of the wrong width decode to the
// Unknown* sentinels rather than failing.
func DecodeDate(field string) (year, month, day string) {
	if len(field) != DateWidth {
		return UnknownYear, UnknownMonth, UnknownDay
	}
	return field[0:4], field[4:6], field[6:8]
}

func isShortNumber(s string) bool {
	return len(s) >= 1 && len(s) <= 2 && isDigits(s)
}

func leftPad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
