package sin

import "fmt"

const (
	// Verifier is the leading digit of every composed SIN.
	Verifier = "1"

	// Length is the width of a composed SIN.
	Length = len(Verifier) + 2*NameWidth + CountryWidth + DateWidth + GenderWidth
)

// Field offsets inside a SIN.
const (
	firstNameStart = 1
	lastNameStart  = firstNameStart + NameWidth
	countryStart   = lastNameStart + NameWidth
	dateStart      = countryStart + CountryWidth
	genderStart    = dateStart + DateWidth
)

// Fields holds the encoded form of every SIN component. The verifier is
// left out of the JSON form; it is constant.
type Fields struct {
	Verifier  string `json:"-"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Country   string `json:"country"`
	Date      string `json:"date"`
	Gender    string `json:"gender"`
}

// Compose concatenates the fields in SIN order. The verifier is always
// Verifier regardless of f.Verifier.
func Compose(f Fields) string {
	return Verifier + f.FirstName + f.LastName + f.Country + f.Date + f.Gender
}

// Parse splits a SIN into its encoded fields. Only the length and verifier
// are checked; field decoders apply their own rules.
func Parse(sin string) (Fields, error) {
	if len(sin) != Length {
		return Fields{}, fmt.Errorf("%w: length %d, expected %d", ErrMalformedSIN, len(sin), Length)
	}
	if sin[:1] != Verifier {
		return Fields{}, ErrInvalidVerifier
	}
	return Fields{
		Verifier:  sin[:firstNameStart],
		FirstName: sin[firstNameStart:lastNameStart],
		LastName:  sin[lastNameStart:countryStart],
		Country:   sin[countryStart:dateStart],
		Date:      sin[dateStart:genderStart],
		Gender:    sin[genderStart:Length],
	}, nil
}
