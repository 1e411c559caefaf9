package sin

import (
	"fmt"
	"math/big"
)

// PinOffset is added to every PIN before it is used as a multiplier.
const PinOffset = 2025

// EffectivePin returns pin+PinOffset. The sum is computed in arbitrary
// precision so extreme int64 PINs do not wrap.
func EffectivePin(pin int64) (*big.Int, error) {
	eff := new(big.Int).Add(big.NewInt(pin), big.NewInt(PinOffset))
	if eff.Sign() == 0 {
		return nil, fmt.Errorf("%w: %d yields a zero multiplier", ErrInvalidPin, pin)
	}
	return eff, nil
}

// Secure masks a SIN: sin*eff + eff where eff is the effective PIN.
func Secure(sin string, pin int64) (*big.Int, error) {
	eff, err := EffectivePin(pin)
	if err != nil {
		return nil, err
	}
	if !isDigits(sin) {
		return nil, fmt.Errorf("%w: not a decimal string", ErrMalformedSIN)
	}
	v, ok := new(big.Int).SetString(sin, 10)
	if !ok {
		return nil, fmt.Errorf("%w: not a decimal string", ErrMalformedSIN)
	}
	v.Mul(v, eff)
	return v.Add(v, eff), nil
}

// Resolve inverts Secure and returns the SIN as decimal text, dividing with
// floor semantics. A PIN other than the one used to secure still resolves
// without error; the result simply fails Parse in almost every case.
func Resolve(secured *big.Int, pin int64) (string, error) {
	eff, err := EffectivePin(pin)
	if err != nil {
		return "", err
	}
	if secured == nil {
		return "", fmt.Errorf("%w: missing value", ErrMalformedSIN)
	}
	v := new(big.Int).Sub(secured, eff)
	return floorDiv(v, eff).String(), nil
}

// floorDiv rounds a/b toward negative infinity. big.Int.DivMod is
// Euclidean, which differs from floor only for b < 0 with a remainder.
func floorDiv(a, b *big.Int) *big.Int {
	q, m := new(big.Int).DivMod(a, b, new(big.Int))
	if b.Sign() < 0 && m.Sign() != 0 {
		q.Sub(q, big.NewInt(1))
	}
	return q
}
