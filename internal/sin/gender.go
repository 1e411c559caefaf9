package sin

import "strings"

// GenderWidth is the encoded width of a gender label.
const GenderWidth = 1

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// EncodeGender is deliberately lossy: "male", "m" and "1" (any case) encode
// to "1", every other label to "0".
func EncodeGender(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "male", "m", "1":
		return "1"
	default:
		return "0"
	}
}

// DecodeGender maps "1" to GenderMale and anything else to GenderFemale.
func DecodeGender(field string) string {
	if field == "1" {
		return GenderMale
	}
	return GenderFemale
}
