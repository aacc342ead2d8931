// Package fees derives payment-processing fees from a method → rate table.
package fees

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Rates maps a normalized payment method label to a fractional fee rate (0.035 = 3.5%).
type Rates map[string]decimal.Decimal

// DefaultRates is the stock table: card schedules, boleto, and free PIX/cash.
func DefaultRates() Rates {
	credit := decimal.RequireFromString("0.035")
	debit := decimal.RequireFromString("0.015")
	boleto := decimal.RequireFromString("0.02")
	return Rates{
		"credito":     credit,
		"credit_card": credit,
		"debito":      debit,
		"debit_card":  debit,
		"boleto":      boleto,
		"pix":         decimal.Zero,
		"dinheiro":    decimal.Zero,
		"cash":        decimal.Zero,
	}
}

// ParseRates reads "method=rate,method=rate" and layers it on top of base.
func ParseRates(base Rates, list string) (Rates, error) {
	out := make(Rates, len(base))
	for k, v := range base {
		out[k] = v
	}
	for _, pair := range strings.Split(list, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		method, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("fee rate %q: expected method=rate", pair)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("fee rate %q: %w", pair, err)
		}
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("fee rate %q: must be between 0 and 1", pair)
		}
		out[Normalize(method)] = rate
	}
	return out, nil
}

// Methods lists the configured method labels in sorted order.
func (r Rates) Methods() []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Normalize lowercases and trims a method label for table lookup.
func Normalize(method string) string {
	return strings.ToLower(strings.TrimSpace(method))
}

// Calculator computes fee and net amounts from an injected rate table.
type Calculator struct {
	rates Rates
}

// NewCalculator returns a Calculator over rates. A nil table charges nothing.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Rate returns the fee rate for method; unknown or empty methods cost nothing.
func (c *Calculator) Rate(method string) decimal.Decimal {
	if c == nil || c.rates == nil {
		return decimal.Zero
	}
	if r, ok := c.rates[Normalize(method)]; ok {
		return r
	}
	return decimal.Zero
}

// Compute returns fee = amount*rate and net = amount-fee at full precision.
func (c *Calculator) Compute(amount decimal.Decimal, method string) (fee, net decimal.Decimal) {
	fee = amount.Mul(c.Rate(method))
	return fee, amount.Sub(fee)
}
