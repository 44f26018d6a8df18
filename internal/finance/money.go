package finance

import "github.com/shopspring/decimal"

const currency = "Birr"

// FormatBirr renders an amount with two decimals: "Birr 1250.00".
func FormatBirr(d decimal.Decimal) string {
	return currency + " " + d.StringFixed(2)
}

// FormatSignedBirr always shows the sign: "+Birr 60.00", "-Birr 10.00".
// Zero counts as an inflow.
func FormatSignedBirr(d decimal.Decimal) string {
	sign := "+"
	if d.IsNegative() {
		sign = "-"
	}
	return sign + FormatBirr(d.Abs())
}

// Totals is the summary shown above a finance table. It always covers the
// whole collection, whatever the search or page.
type Totals struct {
	Count   int             `json:"count"`
	Total   decimal.Decimal `json:"total"`
	Display string          `json:"display"`
}

// CashFlowTotals splits the signed total into in- and outflows.
type CashFlowTotals struct {
	Totals
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
}

func sum[T any](items []T, amount func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(amount(it))
	}
	return total
}

func totals[T any](items []T, amount func(T) decimal.Decimal) Totals {
	t := sum(items, amount)
	return Totals{Count: len(items), Total: t, Display: FormatBirr(t)}
}
