package handler

import "sunhex/internal/sin"

const statusSuccess = "success"

type GenerateResponse struct {
	Status    string     `json:"status"`
	HexCode   string     `json:"hexCode"`
	DebugInfo *sin.Trace `json:"debugInfo,omitempty"`
}

type DecodeResponse struct {
	Status       string           `json:"status"`
	PersonalInfo sin.PersonalInfo `json:"personalInfo"`
	DebugInfo    *sin.DecodeTrace `json:"debugInfo,omitempty"`
}

type CountriesResponse struct {
	Status    string   `json:"status"`
	Countries []string `json:"countries"`
}
