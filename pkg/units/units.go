package units

import (
	"fmt"
	"math/big"
	"strings"
)

// Parse converts a decimal amount string into its smallest-unit integer
// representation at the given token decimals ("1.5" at 6 → 1500000).
func Parse(amount string, decimals uint8) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(amount, "-") {
		return nil, fmt.Errorf("negative amount %q", amount)
	}

	intPart := amount
	fracPart := ""
	if i := strings.IndexByte(amount, '.'); i >= 0 {
		intPart = amount[:i]
		fracPart = amount[i+1:]
	}
	if intPart == "" {
		intPart = "0"
	}
	if strings.IndexByte(fracPart, '.') >= 0 {
		return nil, fmt.Errorf("malformed amount %q", amount)
	}
	if len(fracPart) > int(decimals) {
		return nil, fmt.Errorf("amount %q exceeds %d decimal places", amount, decimals)
	}

	digits := intPart + fracPart + strings.Repeat("0", int(decimals)-len(fracPart))
	value, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	return value, nil
}

// Format renders a smallest-unit integer as a decimal string, trimming
// trailing zeros from the fractional part.
func Format(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	quo, rem := new(big.Int).QuoRem(value, scale, new(big.Int))

	if rem.Sign() == 0 {
		return quo.String()
	}

	frac := strings.TrimRight(fmt.Sprintf("%0*s", int(decimals), rem.String()), "0")
	return quo.String() + "." + frac
}

// Whole converts a whole-token amount (reward catalog amounts are integral)
// into smallest units.
func Whole(amount int64, decimals uint8) *big.Int {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return new(big.Int).Mul(big.NewInt(amount), scale)
}

// Positive reports whether the amount parses as a strictly positive value.
func Positive(amount string, decimals uint8) bool {
	v, err := Parse(amount, decimals)
	return err == nil && v.Sign() > 0
}
