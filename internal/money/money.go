// Package money holds the fixed-precision rounding rule applied to every
// balance mutation in the ledger.
package money

import "github.com/shopspring/decimal"

// Places is the number of decimal places balances are kept at.
const Places = 5

var half = decimal.NewFromFloat(0.5)

// Round5 rounds d to five decimal places, ties toward positive infinity.
// It is floor(d*100000 + 0.5) / 100000, so -0.000005 becomes 0 and
// 0.000005 becomes 0.00001.
func Round5(d decimal.Decimal) decimal.Decimal {
	return d.Shift(Places).Add(half).Floor().Shift(-Places)
}

// Round5Float is the float64 form of the rounding rule, for callers that hold
// plain floats. The ledger itself only calls Round5. The input is converted
// using its shortest decimal representation, so 0.1+0.2 rounds to 0.3.
func Round5Float(x float64) float64 {
	return Round5(decimal.NewFromFloat(x)).InexactFloat64()
}
