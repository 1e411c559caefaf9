package testutil

import "sunhex/internal/sin"

// Reference identity used across packages. Its token under AhmedPIN is
// AhmedToken.
const (
	AhmedPIN   int64 = 5678
	AhmedToken       = "1CE186F670CC698FD77D624DB1FB34A8A31D7CC23432C63563ADB9079A"
)

// Ahmed returns the reference identity as Generate expects it.
func Ahmed() sin.PersonalInfo {
	return sin.PersonalInfo{
		FirstName:   "Ahmed",
		LastName:    "Benali",
		CountryCode: "MA",
		BirthYear:   "1995",
		BirthMonth:  "3",
		BirthDay:    "22",
		Gender:      "male",
	}
}

// AhmedDecoded is what Decode returns for AhmedToken: dates come back
// zero-padded and gender is spelled out.
func AhmedDecoded() sin.PersonalInfo {
	info := Ahmed()
	info.BirthMonth = "03"
	info.Gender = sin.GenderMale
	return info
}
