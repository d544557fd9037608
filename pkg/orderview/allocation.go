package orderview

// AllocationRow is the share of the supplier import tax assigned to one order.
type AllocationRow struct {
	ID           string  `json:"id"`
	OrderLabel   string  `json:"pedido"`
	PurchaseCost float64 `json:"costoCompra"`
	Share        float64 `json:"proporcion"`
	AllocatedTax float64 `json:"impuestoAsignado"`
	ItemTotal    float64 `json:"totalItem"`
}

// Allocation is the result of spreading one lump import tax over a visible
// set. Difference is whatever part of the tax the rows did not absorb, either
// floating-point residue or the whole tax when there is no purchase cost to
// allocate against.
type Allocation struct {
	Rows              []AllocationRow `json:"filas"`
	ImportTaxSupplier float64         `json:"impuestosProveedor"`
	TotalPurchaseCost float64         `json:"totalCompra"`
	TotalAllocated    float64         `json:"totalAsignado"`
	Difference        float64         `json:"diferencia"`
}

// AllocateTax distributes importTaxSupplier across visible proportionally to
// each record's purchase cost.
func AllocateTax(visible []Record, importTaxSupplier float64) Allocation {
	importTaxSupplier = finite(importTaxSupplier)

	var totalPurchase float64
	for _, r := range visible {
		totalPurchase += nonNegative(r.PurchaseCost)
	}

	a := Allocation{
		Rows:              make([]AllocationRow, 0, len(visible)),
		ImportTaxSupplier: importTaxSupplier,
		TotalPurchaseCost: totalPurchase,
	}
	for _, r := range visible {
		cost := nonNegative(r.PurchaseCost)
		var share float64
		if totalPurchase > 0 {
			share = cost / totalPurchase
		}
		tax := share * importTaxSupplier
		a.Rows = append(a.Rows, AllocationRow{
			ID:           r.ID,
			OrderLabel:   r.OrderLabel,
			PurchaseCost: cost,
			Share:        share,
			AllocatedTax: tax,
			ItemTotal:    cost + tax,
		})
		a.TotalAllocated += tax
	}
	a.Difference = importTaxSupplier - a.TotalAllocated
	return a
}
