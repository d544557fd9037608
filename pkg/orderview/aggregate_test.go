package orderview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateScenario(t *testing.T) {
	visible := []Record{{Cost: 50, ShippingCost: 5}}
	adj := Adjustments{Commission: 2, ImportTaxCustomer: 3, Deposit: 10}

	got := Aggregate(visible, adj)

	assert.Equal(t, 50.0, got.SubtotalSales)
	assert.Equal(t, 5.0, got.TotalShipping)
	assert.Equal(t, 60.0, got.CustomerTotal)
	assert.Equal(t, 50.0, got.FinalTotal)
	assert.Equal(t, 5.0, got.SupplierTotal)
	assert.Equal(t, 45.0, got.Profit)
}

func TestAggregateEmpty(t *testing.T) {
	adj := Adjustments{Commission: 2, ImportTaxCustomer: 3, ImportTaxSupplier: 4, ShippingManual: 1, Deposit: 6, Discounts: 7}

	got := Aggregate(nil, adj)

	assert.Zero(t, got.SubtotalSales)
	assert.Zero(t, got.TotalShipping)
	assert.Zero(t, got.TotalPurchaseCost)
	assert.Equal(t, 6.0, got.CustomerTotal)
	assert.Equal(t, -7.0, got.FinalTotal)
	assert.Equal(t, 4.0, got.SupplierTotal)
	assert.Equal(t, -11.0, got.Profit)
}

func TestAggregateSupplierSide(t *testing.T) {
	visible := []Record{
		{Cost: 100, ShippingCost: 10, PurchaseCost: 60},
		{Cost: 40, ShippingCost: 0, PurchaseCost: 20},
	}
	adj := Adjustments{ImportTaxSupplier: 8, Discounts: 5}

	got := Aggregate(visible, adj)

	assert.Equal(t, 140.0, got.SubtotalSales)
	assert.Equal(t, 80.0, got.TotalPurchaseCost)
	assert.Equal(t, 150.0, got.CustomerTotal)
	assert.Equal(t, 145.0, got.FinalTotal)
	assert.Equal(t, 98.0, got.SupplierTotal)
	assert.Equal(t, 47.0, got.Profit)
}

func TestAggregateIgnoresNegativeRecordAmounts(t *testing.T) {
	got := Aggregate([]Record{{Cost: -10, ShippingCost: -2, PurchaseCost: -1}}, Adjustments{})

	assert.Equal(t, Totals{}, got)
}

func TestAllocateTaxScenario(t *testing.T) {
	visible := []Record{{ID: "a", PurchaseCost: 100}, {ID: "b", PurchaseCost: 300}}

	got := AllocateTax(visible, 40)

	require.Len(t, got.Rows, 2)
	assert.InDelta(t, 10.0, got.Rows[0].AllocatedTax, 1e-9)
	assert.InDelta(t, 30.0, got.Rows[1].AllocatedTax, 1e-9)
	assert.InDelta(t, 0.25, got.Rows[0].Share, 1e-9)
	assert.InDelta(t, 110.0, got.Rows[0].ItemTotal, 1e-9)
	assert.InDelta(t, 330.0, got.Rows[1].ItemTotal, 1e-9)
	assert.InDelta(t, 0.0, got.Difference, 1e-9)
	assert.Equal(t, 400.0, got.TotalPurchaseCost)
}

func TestAllocateTaxSumsToTax(t *testing.T) {
	visible := []Record{
		{PurchaseCost: 13.37}, {PurchaseCost: 0.01}, {PurchaseCost: 999.99},
		{PurchaseCost: 7}, {PurchaseCost: 0}, {PurchaseCost: 42.42},
	}
	const tax = 123.456

	got := AllocateTax(visible, tax)

	var sum float64
	for _, row := range got.Rows {
		sum += row.AllocatedTax
	}
	assert.InDelta(t, tax, sum, 1e-9)
	assert.InDelta(t, tax, got.TotalAllocated, 1e-9)
	assert.InDelta(t, 0, got.Difference, 1e-9)
	assert.Zero(t, got.Rows[4].AllocatedTax)
}

func TestAllocateTaxWithoutPurchaseCost(t *testing.T) {
	visible := []Record{{PurchaseCost: 0}, {PurchaseCost: 0}}

	got := AllocateTax(visible, 25)

	for _, row := range got.Rows {
		assert.Zero(t, row.Share)
		assert.Zero(t, row.AllocatedTax)
	}
	assert.Zero(t, got.TotalAllocated)
	assert.Equal(t, 25.0, got.Difference)
}

func TestAllocateTaxEmpty(t *testing.T) {
	got := AllocateTax(nil, 12)

	assert.Empty(t, got.Rows)
	assert.NotNil(t, got.Rows)
	assert.Equal(t, 12.0, got.Difference)
}
