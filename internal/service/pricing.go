package service

import (
	"backend/internal/model"

	"github.com/shopspring/decimal"
)

// PriceInclTax derives a tax-inclusive purchase price from a raw price and
// the tax rows, taken in table storage order. Percentage taxes compound
// first, each applying to the running total rather than the base, then flat
// addition taxes are summed on top. The kind-by-kind split means the result
// does not depend on how percentage and addition rows interleave in the
// table, only on the order within each kind.
func PriceInclTax(purchasePrice float64, taxes []model.Tax) float64 {
	total := decimal.NewFromFloat(purchasePrice)
	hundred := decimal.NewFromInt(100)

	for _, t := range taxes {
		if t.Kind == model.TaxKindPercentage {
			rate := decimal.NewFromFloat(t.Value)
			total = total.Add(total.Mul(rate).Div(hundred))
		}
	}
	for _, t := range taxes {
		if t.Kind == model.TaxKindAddition {
			total = total.Add(decimal.NewFromFloat(t.Value))
		}
	}

	f, _ := total.Float64()
	return f
}
