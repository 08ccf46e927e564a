package amount_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/notary-bridge/internal/amount"
)

func TestFromBaseUnits(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		precision int32
		expected  string
	}{
		{name: "wei to ether", value: "1234000000000", precision: 18, expected: "0.000001234"},
		{name: "whole ether", value: "1000000000000000000", precision: 18, expected: "1"},
		{name: "zero", value: "0", precision: 18, expected: "0"},
		{name: "zero precision", value: "1500", precision: 0, expected: "1500"},
		{name: "trailing zeros in integer part kept", value: "120000", precision: 2, expected: "1200"},
		{name: "fraction", value: "125", precision: 2, expected: "1.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := new(big.Int).SetString(tt.value, 10)
			require.True(t, ok)
			got, err := amount.FromBaseUnits(v, tt.precision)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := amount.FromBaseUnits(big.NewInt(-1), 18)
	assert.Error(t, err)
	_, err = amount.FromBaseUnits(big.NewInt(1), -1)
	assert.Error(t, err)
}

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		precision int32
		expected  string
		wantErr   bool
	}{
		{name: "ether to wei", value: "0.000001234", precision: 18, expected: "1234000000000"},
		{name: "integer", value: "12", precision: 6, expected: "12000000"},
		{name: "trailing zeros accepted", value: "1.2500", precision: 2, expected: "125"},
		{name: "leading zeros accepted", value: "007.5", precision: 1, expected: "75"},
		{name: "excess precision", value: "1.001", precision: 2, wantErr: true},
		{name: "negative", value: "-1", precision: 2, wantErr: true},
		{name: "exponent", value: "1e3", precision: 2, wantErr: true},
		{name: "thousands separator", value: "1,000", precision: 2, wantErr: true},
		{name: "empty", value: "", precision: 2, wantErr: true},
		{name: "nan", value: "NaN", precision: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := amount.ToBaseUnits(tt.value, tt.precision)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestRoundTrip(t *testing.T) {
	values := []string{
		"0",
		"1",
		"9",
		"10",
		"1234000000000",
		"1000000000000000000",
		"115792089237316195423570985008687907853269984665640564039457584007913129639935",
	}
	for _, precision := range []int32{0, 2, 6, 18} {
		for _, value := range values {
			original, _ := new(big.Int).SetString(value, 10)

			encoded, err := amount.FromBaseUnits(original, precision)
			require.NoError(t, err)

			decoded, err := amount.ToBaseUnits(encoded, precision)
			require.NoError(t, err)
			assert.Equal(t, 0, original.Cmp(decoded), "precision %d value %s encoded %s", precision, value, encoded)
		}
	}
}

func TestNormalizeBaseUnits(t *testing.T) {
	n, s, err := amount.NormalizeBaseUnits("000123")
	require.NoError(t, err)
	assert.Equal(t, "123", s)
	assert.Equal(t, int64(123), n.Int64())

	for _, bad := range []string{"", "-1", "1.5", "0x10", " 1"} {
		_, _, err := amount.NormalizeBaseUnits(bad)
		assert.Error(t, err, bad)
	}

	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	_, _, err = amount.NormalizeBaseUnits(tooBig.String())
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	got, err := amount.Normalize("0012.5000")
	require.NoError(t, err)
	assert.Equal(t, "12.5", got)
}
