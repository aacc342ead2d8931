package narrative

import (
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// money renders an amount as "R$ 1,234.56".
func money(d decimal.Decimal) string {
	return printer.Sprintf("R$ %.2f", d.Round(2).InexactFloat64())
}

func pct(d decimal.Decimal) string {
	return printer.Sprintf("%.1f%%", d.Round(1).InexactFloat64())
}

func sprintf(format string, args ...interface{}) string {
	return printer.Sprintf(format, args...)
}

type entry struct {
	label string
	value decimal.Decimal
}

// topN orders a label→amount map by amount, largest first, ties by label.
func topN(m map[string]decimal.Decimal, n int) []entry {
	out := make([]entry, 0, len(m))
	for k, v := range m {
		out = append(out, entry{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].value.Equal(out[j].value) {
			return out[i].value.GreaterThan(out[j].value)
		}
		return out[i].label < out[j].label
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
