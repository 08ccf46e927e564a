// Package amount implements the single decimal-to-string rule shared by every notary.
// Amounts cross the bridge either as ledger decimals ("12.5") or as base-unit
// integers ("12500000000000000000"); both forms are minimal: no sign, no exponent,
// no leading zeros and no trailing fractional zeros.
package amount

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// MAX_PRECISION bounds the decimal count of any bridged asset
const MAX_PRECISION = 77

// FromBaseUnits renders an integer base-unit amount as a minimal decimal string scaled by precision
func FromBaseUnits(value *big.Int, precision int32) (string, error) {
	if value == nil {
		return "", fmt.Errorf("nil amount")
	}
	if value.Sign() < 0 {
		return "", fmt.Errorf("negative amount: %s", value.String())
	}
	if err := checkPrecision(precision); err != nil {
		return "", err
	}
	if value.Sign() == 0 {
		return "0", nil
	}

	d := apd.NewWithBigInt(new(apd.BigInt).SetMathBigInt(value), -precision)
	d.Reduce(d)
	return d.Text('f'), nil
}

// ToBaseUnits parses a decimal amount and scales it to integer base units.
// It fails when the amount carries more fractional digits than precision allows.
func ToBaseUnits(value string, precision int32) (*big.Int, error) {
	if err := checkPrecision(precision); err != nil {
		return nil, err
	}
	d, err := Parse(value)
	if err != nil {
		return nil, err
	}
	if d.IsZero() {
		return new(big.Int), nil
	}

	d.Exponent += precision
	d.Reduce(d)
	if d.Exponent < 0 {
		return nil, fmt.Errorf("amount %s exceeds precision %d", value, precision)
	}

	result := d.Coeff.MathBigInt()
	if d.Exponent > 0 {
		result.Mul(result, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Exponent)), nil))
	}
	return result, nil
}

// NormalizeBaseUnits validates an integer base-unit amount and returns its minimal form
func NormalizeBaseUnits(value string) (*big.Int, string, error) {
	if value == "" || strings.TrimLeft(value, "0123456789") != "" {
		return nil, "", fmt.Errorf("amount %q is not a non-negative integer", value)
	}
	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, "", fmt.Errorf("amount %q is not a non-negative integer", value)
	}
	if n.BitLen() > 256 {
		return nil, "", fmt.Errorf("amount %q overflows uint256", value)
	}
	return n, n.String(), nil
}

// Normalize returns the minimal decimal form of a ledger amount
func Normalize(value string) (string, error) {
	d, err := Parse(value)
	if err != nil {
		return "", err
	}
	if d.IsZero() {
		return "0", nil
	}
	d.Reduce(d)
	return d.Text('f'), nil
}

// Parse reads a non-negative finite decimal without sign or exponent
func Parse(value string) (*apd.Decimal, error) {
	if value == "" || strings.ContainsAny(value, "eE+-_, ") {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	d, _, err := apd.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if d.Form != apd.Finite {
		return nil, fmt.Errorf("invalid amount %q", value)
	}
	return d, nil
}

func checkPrecision(precision int32) error {
	if precision < 0 || precision > MAX_PRECISION {
		return fmt.Errorf("invalid precision %d", precision)
	}
	return nil
}
