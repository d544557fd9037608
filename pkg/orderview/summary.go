package orderview

import (
	"math"
	"time"
)

// SummaryDetail is one flattened order line inside a SavedSummary.
type SummaryDetail struct {
	OrderLabel string  `json:"pedido"`
	Customer   string  `json:"cliente"`
	Sale       float64 `json:"venta"`
	Cost       float64 `json:"costo"`
	Shipping   float64 `json:"envio"`
}

// SavedSummary is the snapshot of one aggregation pass that clients post to
// /resumenes. Adjustments and Totals are flattened into the JSON object.
type SavedSummary struct {
	ID        string     `json:"id,omitempty"`
	CreatedAt *time.Time `json:"fecha,omitempty"`
	Adjustments
	Totals
	Details []SummaryDetail `json:"detalles"`
}

// BuildSummaryPayload snapshots visible, totals and adj for persistence.
func BuildSummaryPayload(visible []Record, totals Totals, adj Adjustments) SavedSummary {
	details := make([]SummaryDetail, 0, len(visible))
	for _, r := range visible {
		details = append(details, SummaryDetail{
			OrderLabel: r.OrderLabel,
			Customer:   r.Customer,
			Sale:       nonNegative(r.Cost),
			Cost:       nonNegative(r.PurchaseCost),
			Shipping:   nonNegative(r.ShippingCost),
		})
	}
	return SavedSummary{
		Adjustments: adj.Sanitized(),
		Totals:      totals,
		Details:     details,
	}
}

// ProfitRow is one stored detail re-priced with its share of the supplier tax.
type ProfitRow struct {
	SummaryID    string  `json:"resumenId"`
	Customer     string  `json:"cliente"`
	OrderLabel   string  `json:"pedido"`
	Sale         float64 `json:"venta"`
	PurchaseCost float64 `json:"costoCompra"`
	Shipping     float64 `json:"envio"`
	AllocatedTax float64 `json:"impuestosAsignados"`
	SupplierCost float64 `json:"costosTotalesProveedor"`
	Profit       float64 `json:"ganancia"`
	Margin       float64 `json:"margen"`
}

// ProfitTotals sums a profit table. Margin is Profit over purchase cost plus
// supplier taxes, in percent.
type ProfitTotals struct {
	Sales          float64 `json:"ventas"`
	PurchaseCost   float64 `json:"costoCompra"`
	Shipping       float64 `json:"envio"`
	Taxes          float64 `json:"impuestos"`
	AllocatedTaxes float64 `json:"impuestosAsignados"`
	// UnallocatedTaxes is supplier tax of summaries whose details carry no
	// purchase cost to allocate against.
	UnallocatedTaxes float64 `json:"impuestosSinAsignar"`
	SupplierCost     float64 `json:"costosTotalesProveedor"`
	Profit           float64 `json:"ganancia"`
	Margin           float64 `json:"margen"`
}

// ProfitReport is the cross-batch profit table built from stored summaries.
type ProfitReport struct {
	Rows   []ProfitRow  `json:"filas"`
	Totals ProfitTotals `json:"totales"`
}

// ProfitTable re-aggregates stored summaries. Inside each summary the
// summary's own supplier import tax is spread over its details with
// AllocateTax. Tax no detail could absorb is reported in
// Totals.UnallocatedTaxes and still counts against Totals.Profit.
func ProfitTable(summaries []SavedSummary) ProfitReport {
	report := ProfitReport{Rows: []ProfitRow{}}

	for _, s := range summaries {
		records := make([]Record, 0, len(s.Details))
		for _, d := range s.Details {
			records = append(records, Record{OrderLabel: d.OrderLabel, PurchaseCost: d.Cost})
		}
		alloc := AllocateTax(records, s.ImportTaxSupplier)
		report.Totals.Taxes += alloc.ImportTaxSupplier
		report.Totals.UnallocatedTaxes += alloc.Difference

		for i, d := range s.Details {
			sale := nonNegative(d.Sale)
			purchase := alloc.Rows[i].PurchaseCost
			allocated := alloc.Rows[i].AllocatedTax
			shipping := nonNegative(d.Shipping)

			supplierCost := purchase + allocated + shipping
			profit := sale - supplierCost

			report.Rows = append(report.Rows, ProfitRow{
				SummaryID:    s.ID,
				Customer:     d.Customer,
				OrderLabel:   d.OrderLabel,
				Sale:         sale,
				PurchaseCost: purchase,
				Shipping:     shipping,
				AllocatedTax: allocated,
				SupplierCost: supplierCost,
				Profit:       profit,
				Margin:       margin(profit, supplierCost),
			})

			report.Totals.Sales += sale
			report.Totals.PurchaseCost += purchase
			report.Totals.Shipping += shipping
			report.Totals.AllocatedTaxes += allocated
			report.Totals.SupplierCost += supplierCost
			report.Totals.Profit += profit
		}
	}

	// floating-point residue below a cent is not a real difference
	if math.Abs(report.Totals.UnallocatedTaxes) < 0.005 {
		report.Totals.UnallocatedTaxes = 0
	}
	report.Totals.SupplierCost += report.Totals.UnallocatedTaxes
	report.Totals.Profit -= report.Totals.UnallocatedTaxes
	report.Totals.Margin = margin(report.Totals.Profit, report.Totals.PurchaseCost+report.Totals.Taxes)
	return report
}

func margin(profit, cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	return profit / cost * 100
}
