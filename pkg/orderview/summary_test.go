package orderview

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSummaryPayload(t *testing.T) {
	visible := []Record{
		{OrderLabel: "P-1", Customer: "Ana", Cost: 100, ShippingCost: 10, PurchaseCost: 60},
		{OrderLabel: "P-2", Customer: "Luis", Cost: 40, PurchaseCost: 20},
	}
	adj := Adjustments{Commission: 5, ImportTaxSupplier: 8}
	totals := Aggregate(visible, adj)

	got := BuildSummaryPayload(visible, totals, adj)

	assert.Equal(t, adj, got.Adjustments)
	assert.Equal(t, totals, got.Totals)
	assert.Equal(t, []SummaryDetail{
		{OrderLabel: "P-1", Customer: "Ana", Sale: 100, Cost: 60, Shipping: 10},
		{OrderLabel: "P-2", Customer: "Luis", Sale: 40, Cost: 20},
	}, got.Details)
}

func TestSavedSummaryJSONIsFlat(t *testing.T) {
	s := BuildSummaryPayload(nil, Totals{FinalTotal: 3}, Adjustments{Commission: 1})

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, 1.0, m["comision"])
	assert.Equal(t, 3.0, m["totalFinal"])
	assert.Equal(t, []any{}, m["detalles"])
	assert.NotContains(t, m, "id")
}

func TestProfitTable(t *testing.T) {
	summaries := []SavedSummary{
		{
			ID:          "s1",
			Adjustments: Adjustments{ImportTaxSupplier: 40},
			Details: []SummaryDetail{
				{OrderLabel: "P-1", Customer: "Ana", Sale: 150, Cost: 100, Shipping: 10},
				{OrderLabel: "P-2", Customer: "Luis", Sale: 300, Cost: 300},
			},
		},
		{
			ID: "s2",
			Details: []SummaryDetail{
				{OrderLabel: "P-3", Customer: "Eva", Sale: 0, Cost: 0},
			},
		},
	}

	got := ProfitTable(summaries)

	require.Len(t, got.Rows, 3)
	first := got.Rows[0]
	assert.Equal(t, "s1", first.SummaryID)
	assert.InDelta(t, 10.0, first.AllocatedTax, 1e-9)
	assert.InDelta(t, 120.0, first.SupplierCost, 1e-9)
	assert.InDelta(t, 30.0, first.Profit, 1e-9)
	assert.InDelta(t, 25.0, first.Margin, 1e-9)

	second := got.Rows[1]
	assert.InDelta(t, 30.0, second.AllocatedTax, 1e-9)
	assert.InDelta(t, 330.0, second.SupplierCost, 1e-9)
	assert.InDelta(t, -30.0, second.Profit, 1e-9)

	assert.Zero(t, got.Rows[2].Margin)

	assert.InDelta(t, 450.0, got.Totals.Sales, 1e-9)
	assert.InDelta(t, 40.0, got.Totals.Taxes, 1e-9)
	assert.InDelta(t, 40.0, got.Totals.AllocatedTaxes, 1e-9)
	assert.InDelta(t, 450.0, got.Totals.SupplierCost, 1e-9)
	assert.InDelta(t, 0.0, got.Totals.Profit, 1e-9)
	assert.InDelta(t, 0.0, got.Totals.Margin, 1e-9)
}

func TestProfitTableEmpty(t *testing.T) {
	got := ProfitTable(nil)

	assert.NotNil(t, got.Rows)
	assert.Empty(t, got.Rows)
	assert.Equal(t, ProfitTotals{}, got.Totals)
}

func TestProfitTableReportsUnallocatedTax(t *testing.T) {
	summaries := []SavedSummary{
		{
			ID:          "s1",
			Adjustments: Adjustments{ImportTaxSupplier: 40},
			Details: []SummaryDetail{
				{OrderLabel: "P-1", Customer: "Ana", Sale: 100, Cost: 0},
			},
		},
	}

	got := ProfitTable(summaries)

	require.Len(t, got.Rows, 1)
	assert.Zero(t, got.Rows[0].AllocatedTax)
	assert.InDelta(t, 100.0, got.Rows[0].Profit, 1e-9)

	assert.InDelta(t, 40.0, got.Totals.Taxes, 1e-9)
	assert.Zero(t, got.Totals.AllocatedTaxes)
	assert.InDelta(t, 40.0, got.Totals.UnallocatedTaxes, 1e-9)
	assert.InDelta(t, 40.0, got.Totals.SupplierCost, 1e-9)
	assert.InDelta(t, 60.0, got.Totals.Profit, 1e-9)
	assert.InDelta(t, 150.0, got.Totals.Margin, 1e-9)
}

func TestProfitTableTotalMarginExcludesShipping(t *testing.T) {
	summaries := []SavedSummary{
		{
			Adjustments: Adjustments{ImportTaxSupplier: 20},
			Details: []SummaryDetail{
				{OrderLabel: "P-1", Sale: 200, Cost: 80, Shipping: 20},
			},
		},
	}

	got := ProfitTable(summaries)

	assert.Zero(t, got.Totals.UnallocatedTaxes)
	assert.InDelta(t, 80.0, got.Totals.Profit, 1e-9)
	// 80 / (80 + 20)
	assert.InDelta(t, 80.0, got.Totals.Margin, 1e-9)
	assert.InDelta(t, 66.666, got.Rows[0].Margin, 0.001)
}
