package checkout

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds half away from zero to two places. Amounts are never
// negative at the boundaries where this is applied, so this is half-up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParsePriceInput reads a unit price override. Text that is not a number
// becomes zero; a negative number is left for the ledger to floor.
func ParsePriceInput(raw string) decimal.Decimal {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseAmountInput cleans operator-typed money text: anything other than
// digits and '.' is dropped, an empty result is zero, and text holding more
// than one '.' is rejected so the caller keeps its previous value.
func ParseAmountInput(raw string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if strings.Count(cleaned, ".") > 1 {
		return decimal.Zero, false
	}
	if cleaned == "" || cleaned == "." {
		return decimal.Zero, true
	}
	if strings.HasPrefix(cleaned, ".") {
		cleaned = "0" + cleaned
	}
	if strings.HasSuffix(cleaned, ".") {
		cleaned += "0"
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParsePointsInput keeps only the digits of raw. Empty text is zero and
// values too large for an int saturate so later clamping still applies.
func ParsePointsInput(raw string) int {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}
