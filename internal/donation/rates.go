package donation

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RateTable converts token sums into a fiat estimate. The estimate is for
// at-a-glance display only and is explicitly not a pricing oracle.
type RateTable interface {
	// USDRate returns the fixed USD rate for a token symbol. The second
	// return is false for tokens outside the table; the ledger treats those
	// as unrecognized and excludes them from totals.
	USDRate(symbol string) (decimal.Decimal, bool)
	// Symbols lists the known token universe in a stable order.
	Symbols() []string
}

// FixedRates is a static RateTable.
type FixedRates map[string]decimal.Decimal

// DefaultRates matches the rate table the feed has always displayed.
func DefaultRates() FixedRates {
	return FixedRates{
		"ETH":  decimal.NewFromInt(2000),
		"USDT": decimal.NewFromInt(1),
		"USDC": decimal.NewFromInt(1),
	}
}

func (f FixedRates) USDRate(symbol string) (decimal.Decimal, bool) {
	rate, ok := f[symbol]
	return rate, ok
}

func (f FixedRates) Symbols() []string {
	out := make([]string, 0, len(f))
	for symbol := range f {
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}
