package orderview

// Adjustments holds the session inputs typed next to the totals panel. Any
// sign is accepted; only non-finite values are rejected (as 0).
type Adjustments struct {
	Commission        float64 `json:"comision"`
	ImportTaxCustomer float64 `json:"impuestosCliente"`
	ImportTaxSupplier float64 `json:"impuestosProveedor"`
	ShippingManual    float64 `json:"envioManual"`
	Deposit           float64 `json:"anticipo"`
	Discounts         float64 `json:"descuentos"`
}

// ParseAdjustments coerces a decoded JSON object into Adjustments.
func ParseAdjustments(raw map[string]any) Adjustments {
	return Adjustments{
		Commission:        Amount(lookup(raw, []string{"comision", "commission"})),
		ImportTaxCustomer: Amount(lookup(raw, []string{"impuestosCliente", "importTaxCustomer"})),
		ImportTaxSupplier: Amount(lookup(raw, []string{"impuestosProveedor", "importTaxSupplier"})),
		ShippingManual:    Amount(lookup(raw, []string{"envioManual", "shippingManual"})),
		Deposit:           Amount(lookup(raw, []string{"anticipo", "deposit"})),
		Discounts:         Amount(lookup(raw, []string{"descuentos", "discounts"})),
	}
}

// Sanitized returns a copy with every non-finite field set to 0.
func (a Adjustments) Sanitized() Adjustments {
	return Adjustments{
		Commission:        finite(a.Commission),
		ImportTaxCustomer: finite(a.ImportTaxCustomer),
		ImportTaxSupplier: finite(a.ImportTaxSupplier),
		ShippingManual:    finite(a.ShippingManual),
		Deposit:           finite(a.Deposit),
		Discounts:         finite(a.Discounts),
	}
}
