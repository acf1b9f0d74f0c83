package service

import (
	"testing"

	"backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestPriceInclTaxPercentageThenAddition(t *testing.T) {
	taxes := []model.Tax{
		{Name: "VAT", Value: 10, Kind: model.TaxKindPercentage},
		{Name: "Eco", Value: 5, Kind: model.TaxKindAddition},
	}

	// 100 * 1.10 + 5 = 115, exactly.
	assert.Equal(t, 115.0, PriceInclTax(100, taxes))
}

func TestPriceInclTaxAdditionsNeverCompound(t *testing.T) {
	// Additions apply after every percentage tax, whatever order the rows
	// are listed in.
	reversed := []model.Tax{
		{Name: "Eco", Value: 5, Kind: model.TaxKindAddition},
		{Name: "VAT", Value: 10, Kind: model.TaxKindPercentage},
	}
	assert.Equal(t, 115.0, PriceInclTax(100, reversed))
}

func TestPriceInclTaxPercentagesCompound(t *testing.T) {
	taxes := []model.Tax{
		{Name: "A", Value: 10, Kind: model.TaxKindPercentage},
		{Name: "B", Value: 10, Kind: model.TaxKindPercentage},
	}

	// 100 * 1.10 * 1.10 = 121
	assert.Equal(t, 121.0, PriceInclTax(100, taxes))
}

func TestPriceInclTaxNoTaxes(t *testing.T) {
	assert.Equal(t, 42.5, PriceInclTax(42.5, nil))
}

func TestPriceInclTaxAvoidsFloatDrift(t *testing.T) {
	taxes := []model.Tax{
		{Name: "VAT", Value: 19.6, Kind: model.TaxKindPercentage},
	}

	// 10.35 * 1.196 = 12.3786; naive float math lands slightly off.
	assert.Equal(t, 12.3786, PriceInclTax(10.35, taxes))
}
