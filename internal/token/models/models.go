package models

import "sunhex/internal/sin"

// GenerateCommand asks for a token for Info protected by PIN.
type GenerateCommand struct {
	Info sin.PersonalInfo
	PIN  int64
}

// DecodeCommand asks to recover the identity behind Token.
type DecodeCommand struct {
	Token string
	PIN   int64
}

// GenerateResult carries the token and the intermediate values that
// produced it.
type GenerateResult struct {
	Token string
	Trace *sin.Trace
}

// DecodeResult carries the recovered identity and the decode trail.
type DecodeResult struct {
	Info  sin.PersonalInfo
	Trace *sin.DecodeTrace
}
