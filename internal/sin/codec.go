// Package sin converts personal identity fields into a PIN-gated hexadecimal
// token and back.
//
// The token is built in three steps: each field is encoded to fixed-width
// digits and composed into a 66-digit SIN, the SIN is masked with the PIN
// (sin*eff + eff, eff = pin+2025) and the masked value is written as hex.
// The mask is linear and invertible. It is not encryption.
//
// Every function in this package is pure and safe for concurrent use.
package sin

// PersonalInfo is the set of fields carried by a token.
type PersonalInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	CountryCode string `json:"countryCode"`
	BirthYear   string `json:"birthYear"`
	BirthMonth  string `json:"birthMonth"`
	BirthDay    string `json:"birthDay"`
	Gender      string `json:"gender"`
}

// Trace exposes the intermediate values of a generate run. The token itself
// is reported next to the trail, not inside it.
type Trace struct {
	Token      string `json:"-"`
	SIN        string `json:"originalSin"`
	SecuredSIN string `json:"securedSin"`
	Fields     Fields `json:"components"`
}

// DecodeTrace exposes the intermediate values of a decode run.
type DecodeTrace struct {
	Token      string        `json:"hexCode"`
	SecuredSIN string        `json:"securedSin"`
	SIN        string        `json:"originalSin"`
	Raw        RawComponents `json:"rawComponents"`
}

// RawComponents are the SIN slices a decode read, before field decoding.
type RawComponents struct {
	Verifier  string `json:"verifier"`
	FirstName string `json:"firstNameEncoded"`
	LastName  string `json:"lastNameEncoded"`
	Country   string `json:"countryEncoded"`
	Date      string `json:"dateEncoded"`
	Gender    string `json:"genderEncoded"`
}

func rawComponents(f Fields) RawComponents {
	return RawComponents{
		Verifier:  f.Verifier,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Country:   f.Country,
		Date:      f.Date,
		Gender:    f.Gender,
	}
}

// Generate encodes info and masks it with pin, returning the token.
func Generate(info PersonalInfo, pin int64) (string, error) {
	trace, err := GenerateDetailed(info, pin)
	if err != nil {
		return "", err
	}
	return trace.Token, nil
}

// GenerateDetailed is Generate with the intermediate values kept.
func GenerateDetailed(info PersonalInfo, pin int64) (*Trace, error) {
	fields, err := encodeFields(info)
	if err != nil {
		return nil, err
	}

	sin := Compose(fields)
	secured, err := Secure(sin, pin)
	if err != nil {
		return nil, err
	}

	return &Trace{
		Token:      EncodeHex(secured),
		SecuredSIN: secured.String(),
		SIN:        sin,
		Fields:     fields,
	}, nil
}

// Decode recovers the fields from token using pin. A wrong pin surfaces as
// ErrMalformedSIN or ErrInvalidVerifier, the same as a corrupted token.
func Decode(token string, pin int64) (PersonalInfo, error) {
	info, _, err := DecodeDetailed(token, pin)
	return info, err
}

// DecodeDetailed is Decode with the intermediate values kept.
func DecodeDetailed(token string, pin int64) (PersonalInfo, *DecodeTrace, error) {
	secured, err := DecodeHex(token)
	if err != nil {
		return PersonalInfo{}, nil, err
	}

	sin, err := Resolve(secured, pin)
	if err != nil {
		return PersonalInfo{}, nil, err
	}

	fields, err := Parse(sin)
	if err != nil {
		return PersonalInfo{}, nil, err
	}

	year, month, day := DecodeDate(fields.Date)
	info := PersonalInfo{
		FirstName:   DecodeName(fields.FirstName),
		LastName:    DecodeName(fields.LastName),
		CountryCode: DecodeCountry(fields.Country),
		BirthYear:   year,
		BirthMonth:  month,
		BirthDay:    day,
		Gender:      DecodeGender(fields.Gender),
	}

	return info, &DecodeTrace{
		Token:      token,
		SecuredSIN: secured.String(),
		SIN:        sin,
		Raw:        rawComponents(fields),
	}, nil
}

func encodeFields(info PersonalInfo) (Fields, error) {
	first, err := EncodeName(info.FirstName)
	if err != nil {
		return Fields{}, err
	}
	last, err := EncodeName(info.LastName)
	if err != nil {
		return Fields{}, err
	}
	country, err := EncodeCountry(info.CountryCode)
	if err != nil {
		return Fields{}, err
	}
	date, err := EncodeDate(info.BirthYear, info.BirthMonth, info.BirthDay)
	if err != nil {
		return Fields{}, err
	}

	return Fields{
		Verifier:  Verifier,
		FirstName: first,
		LastName:  last,
		Country:   country,
		Date:      date,
		Gender:    EncodeGender(info.Gender),
	}, nil
}
