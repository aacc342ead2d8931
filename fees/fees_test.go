package fees

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompute_DefaultTable(t *testing.T) {
	calc := NewCalculator(DefaultRates())

	cases := []struct {
		method  string
		wantFee string
	}{
		{"credito", "3.5"},
		{"Credit_Card", "3.5"},
		{"debito", "1.5"},
		{"boleto", "2"},
		{"pix", "0"},
		{" dinheiro ", "0"},
		{"", "0"},
		{"crypto", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			fee, net := calc.Compute(d("100"), tc.method)
			assert.True(t, d(tc.wantFee).Equal(fee), "fee = %s", fee)
			assert.True(t, d("100").Sub(fee).Equal(net), "net = %s", net)
		})
	}
}

func TestCompute_MonotonicInAmount(t *testing.T) {
	calc := NewCalculator(DefaultRates())
	prevFee, prevNet := calc.Compute(decimal.Zero, "credito")
	for _, amt := range []string{"0.01", "1", "10.5", "99.99", "1000", "123456.78"} {
		fee, net := calc.Compute(d(amt), "credito")
		assert.True(t, fee.GreaterThanOrEqual(prevFee))
		assert.True(t, net.GreaterThanOrEqual(prevNet))
		prevFee, prevNet = fee, net
	}
}

func TestCompute_CustomTable(t *testing.T) {
	calc := NewCalculator(Rates{"voucher": d("0.1")})

	fee, net := calc.Compute(d("50"), "VOUCHER")
	assert.True(t, d("5").Equal(fee))
	assert.True(t, d("45").Equal(net))

	fee, _ = calc.Compute(d("50"), "credito")
	assert.True(t, fee.IsZero(), "methods outside the injected table are free")
}

func TestCompute_NilCalculator(t *testing.T) {
	var calc *Calculator
	fee, net := calc.Compute(d("10"), "credito")
	assert.True(t, fee.IsZero())
	assert.True(t, d("10").Equal(net))
}

func TestParseRates(t *testing.T) {
	rates, err := ParseRates(DefaultRates(), "credito=0.04, Voucher=0.1,")
	require.NoError(t, err)
	assert.True(t, d("0.04").Equal(rates["credito"]))
	assert.True(t, d("0.1").Equal(rates["voucher"]))
	assert.True(t, d("0.015").Equal(rates["debito"]), "untouched defaults are kept")

	_, err = ParseRates(nil, "credito")
	assert.Error(t, err)
	_, err = ParseRates(nil, "credito=abc")
	assert.Error(t, err)
	_, err = ParseRates(nil, "credito=1.5")
	assert.Error(t, err)
}
