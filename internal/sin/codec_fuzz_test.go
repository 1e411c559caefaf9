package sin

import (
	"fmt"
	"testing"
)

func FuzzRoundTrip(f *testing.F) {
	f.Add("Ahmed", "Benali", uint16(1995), uint8(3), uint8(22), true, int64(5678))
	f.Add("", "x", uint16(2000), uint8(1), uint8(1), false, int64(-5000))
	f.Add("abdelhakimkarim", "jean-luc", uint16(1), uint8(12), uint8(31), true, int64(0))

	countries := Countries()
	f.Fuzz(func(t *testing.T, first, last string, year uint16, month, day uint8, male bool, pin int64) {
		if pin == -PinOffset {
			t.Skip()
		}
		gender := "female"
		if male {
			gender = "male"
		}
		info := PersonalInfo{
			FirstName:   first,
			LastName:    last,
			CountryCode: countries[int(year)%len(countries)],
			BirthYear:   fmt.Sprintf("%04d", year%10000),
			BirthMonth:  fmt.Sprintf("%d", month%100),
			BirthDay:    fmt.Sprintf("%d", day%100),
			Gender:      gender,
		}

		token, err := Generate(info, pin)
		if err != nil {
			if IsInputError(err) {
				return
			}
			t.Fatalf("generate: %v", err)
		}

		got, err := Decode(token, pin)
		if err != nil {
			t.Fatalf("decode %q: %v", token, err)
		}
		if got.CountryCode != info.CountryCode {
			t.Fatalf("country %q != %q", got.CountryCode, info.CountryCode)
		}
		if got.FirstName != expectedName(first) {
			t.Fatalf("first name %q != %q", got.FirstName, expectedName(first))
		}
		if got.LastName != expectedName(last) {
			t.Fatalf("last name %q != %q", got.LastName, expectedName(last))
		}
	})
}
