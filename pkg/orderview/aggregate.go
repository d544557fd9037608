package orderview

// Totals is the aggregation of a visible set plus adjustments. It is
// recomputed from scratch on every call.
type Totals struct {
	SubtotalSales     float64 `json:"subtotal"`
	TotalShipping     float64 `json:"totalEnvio"`
	TotalPurchaseCost float64 `json:"totalCompra"`
	CustomerTotal     float64 `json:"totalCliente"`
	FinalTotal        float64 `json:"totalFinal"`
	SupplierTotal     float64 `json:"totalProveedor"`
	Profit            float64 `json:"ganancia"`
}

// Aggregate sums the visible records and applies the adjustments.
//
//	customerTotal = subtotal + commission + importTaxCustomer + shipping + shippingManual
//	finalTotal    = customerTotal - deposit - discounts
//	supplierTotal = purchaseCost + importTaxSupplier + shipping
//	profit        = finalTotal - supplierTotal
func Aggregate(visible []Record, adj Adjustments) Totals {
	adj = adj.Sanitized()

	var t Totals
	for _, r := range visible {
		t.SubtotalSales += nonNegative(r.Cost)
		t.TotalShipping += nonNegative(r.ShippingCost)
		t.TotalPurchaseCost += nonNegative(r.PurchaseCost)
	}

	t.CustomerTotal = t.SubtotalSales + adj.Commission + adj.ImportTaxCustomer + t.TotalShipping + adj.ShippingManual
	t.FinalTotal = t.CustomerTotal - adj.Deposit - adj.Discounts
	t.SupplierTotal = t.TotalPurchaseCost + adj.ImportTaxSupplier + t.TotalShipping
	t.Profit = t.FinalTotal - t.SupplierTotal
	return t
}
