package orderview

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const receiptDivider = "━━━━━━━━━━━━━━━━━━━━"

// DefaultShareBaseURL is the messaging link the receipt text is appended to.
const DefaultShareBaseURL = "https://wa.me/"

// ReceiptFormatter renders the shareable receipt. Contact and Payment are the
// static lines printed after the totals.
type ReceiptFormatter struct {
	Title    string
	Contact  []string
	Payment  []string
	Location *time.Location
}

// DefaultReceiptFormatter returns the formatter used by FormatReceipt.
func DefaultReceiptFormatter() ReceiptFormatter {
	return ReceiptFormatter{
		Title:   "RESUMEN DE PEDIDO",
		Contact: []string{"Gracias por tu compra 🙌", "Cualquier duda escríbenos por este medio."},
		Payment: []string{"Transferencia o depósito bancario", "Envía tu comprobante para confirmar el pedido."},
	}
}

// FormatReceipt renders the receipt with the default contact block.
func FormatReceipt(visible []Record, totals Totals, adj Adjustments, ts time.Time) string {
	return DefaultReceiptFormatter().Format(visible, totals, adj, ts)
}

// Format renders visible, totals and adj as the fixed-layout receipt text.
// Money always carries two decimals; when the visible set has no shipping
// cost the shipping line reads GRATIS.
func (f ReceiptFormatter) Format(visible []Record, totals Totals, adj Adjustments, ts time.Time) string {
	adj = adj.Sanitized()
	if f.Location != nil {
		ts = ts.In(f.Location)
	}
	title := f.Title
	if title == "" {
		title = DefaultReceiptFormatter().Title
	}

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line("🧾 *" + title + "*")
	line("📅 Fecha: " + ts.Format("02/01/2006 15:04"))
	line(receiptDivider)
	line("")
	line("🛍️ *Productos:*")
	if len(visible) == 0 {
		line("(sin productos)")
	}
	for i, r := range visible {
		line(strconv.Itoa(i+1) + ". " + itemName(r))
		line("   💲 Costo: " + Money(r.Cost) + " | 🚚 Envío: " + Money(r.ShippingCost))
	}
	line(receiptDivider)
	line("")
	line("💰 Subtotal: " + Money(totals.SubtotalSales))
	line("➕ Comisión: " + Money(adj.Commission))
	line("🏛️ Impuestos: " + Money(adj.ImportTaxCustomer))
	if totals.TotalShipping <= 0 {
		line("🚚 Envío: GRATIS")
	} else {
		line("🚚 Envío: " + Money(totals.TotalShipping))
	}
	if adj.ShippingManual != 0 {
		line("📦 Envío adicional: " + Money(adj.ShippingManual))
	}
	line("➖ Anticipo: " + Money(-adj.Deposit))
	line("🏷️ Descuentos: " + Money(-adj.Discounts))
	line(receiptDivider)
	line("✅ *TOTAL A PAGAR: " + Money(totals.FinalTotal) + "*")
	line(receiptDivider)

	if len(f.Contact) > 0 {
		line("")
		line("📞 *Contacto:*")
		for _, c := range f.Contact {
			line(c)
		}
	}
	if len(f.Payment) > 0 {
		line("")
		line("💳 *Datos de pago:*")
		for _, p := range f.Payment {
			line(p)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func itemName(r Record) string {
	name := r.Description
	if name == "" {
		name = r.OrderLabel
	}
	if name == "" {
		name = "Producto"
	}
	if r.Store != "" {
		name += " - " + r.Store
	}
	return name
}

// Money renders v with a dollar sign and exactly two decimals, e.g. "$12.50"
// or "-$3.00".
func Money(v float64) string {
	d := decimal.NewFromFloat(finite(v)).Round(2)
	if d.IsNegative() && !d.IsZero() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// ShareURL builds the messaging link for text. phone may be empty, in which
// case the app lets the user pick the recipient.
func ShareURL(base, phone, text string) string {
	if base == "" {
		base = DefaultShareBaseURL
	}
	encoded := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	return base + digits + "?text=" + encoded
}
