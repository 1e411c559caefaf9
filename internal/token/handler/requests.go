package handler

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"sunhex/internal/sin"
	"sunhex/internal/token/models"
	dErrors "sunhex/pkg/domain-errors"
)

// Flex is a scalar that browsers send either as a JSON string or a JSON
// number. It keeps the textual form.
type Flex struct {
	Value string
	Set   bool
}

func (f *Flex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = Flex{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Flex{Value: s, Set: true}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = Flex{Value: n.String(), Set: true}
	return nil
}

func (f Flex) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func (f *Flex) trim() {
	f.Value = strings.TrimSpace(f.Value)
}

func (f Flex) present() bool {
	return f.Set && f.Value != ""
}

func parsePIN(f Flex) (int64, error) {
	pin, err := strconv.ParseInt(f.Value, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeValidation, "PIN must be a number")
	}
	return pin, nil
}

func missingFields(names ...string) error {
	return dErrors.New(dErrors.CodeValidation, "Missing required fields: "+strings.Join(names, ", "))
}

type GenerateRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	CountryCode string `json:"countryCode"`
	BirthYear   Flex   `json:"birthYear"`
	BirthMonth  Flex   `json:"birthMonth"`
	BirthDay    Flex   `json:"birthDay"`
	Gender      string `json:"gender"`
	PIN         Flex   `json:"pin"`
}

func (r *GenerateRequest) Normalize() {
	if r == nil {
		return
	}
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.CountryCode = strings.ToUpper(strings.TrimSpace(r.CountryCode))
	r.Gender = strings.TrimSpace(r.Gender)
	r.BirthYear.trim()
	r.BirthMonth.trim()
	r.BirthDay.trim()
	r.PIN.trim()
}

// Validate reports every absent field at once, in request order.
func (r *GenerateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	var missing []string
	check := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}
	check("firstName", r.FirstName != "")
	check("lastName", r.LastName != "")
	check("countryCode", r.CountryCode != "")
	check("birthYear", r.BirthYear.present())
	check("birthMonth", r.BirthMonth.present())
	check("birthDay", r.BirthDay.present())
	check("gender", r.Gender != "")
	check("pin", r.PIN.present())
	if len(missing) > 0 {
		return missingFields(missing...)
	}
	_, err := parsePIN(r.PIN)
	return err
}

// ToCommand assumes Validate succeeded.
func (r *GenerateRequest) ToCommand() models.GenerateCommand {
	pin, _ := parsePIN(r.PIN)
	return models.GenerateCommand{
		Info: sin.PersonalInfo{
			FirstName:   r.FirstName,
			LastName:    r.LastName,
			CountryCode: r.CountryCode,
			BirthYear:   r.BirthYear.Value,
			BirthMonth:  r.BirthMonth.Value,
			BirthDay:    r.BirthDay.Value,
			Gender:      r.Gender,
		},
		PIN: pin,
	}
}

type DecodeRequest struct {
	HexCode string `json:"hexCode"`
	PIN     Flex   `json:"pin"`
}

func (r *DecodeRequest) Normalize() {
	if r == nil {
		return
	}
	r.HexCode = strings.TrimSpace(r.HexCode)
	r.PIN.trim()
}

func (r *DecodeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	var missing []string
	if r.HexCode == "" {
		missing = append(missing, "hexCode")
	}
	if !r.PIN.present() {
		missing = append(missing, "pin")
	}
	if len(missing) > 0 {
		return missingFields(missing...)
	}
	_, err := parsePIN(r.PIN)
	return err
}

func (r *DecodeRequest) ToCommand() models.DecodeCommand {
	pin, _ := parsePIN(r.PIN)
	return models.DecodeCommand{Token: r.HexCode, PIN: pin}
}
