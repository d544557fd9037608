// Package orderview turns a list of order records plus the adjustment inputs
// typed on the dashboard into filtered views, running totals, a proportional
// import-tax allocation and a shareable text receipt.
//
// Every function in this package is pure: results depend only on the
// arguments, inputs are never mutated and nothing returns an error. Bad
// numeric input degrades to zero.
package orderview

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Record is a normalized purchase order.
type Record struct {
	ID           string  `json:"id"`
	OrderLabel   string  `json:"pedido"`
	Customer     string  `json:"cliente"`
	Store        string  `json:"tienda"`
	Description  string  `json:"descripcion"`
	Status       string  `json:"estado"`
	Cost         float64 `json:"costo"`
	ShippingCost float64 `json:"envio"`
	PurchaseCost float64 `json:"costoCompra"`
}

// recordKeys lists the accepted keys per field; the first one is canonical.
var recordKeys = struct {
	id, label, customer, store, description, status, cost, shipping, purchase []string
}{
	id:          []string{"id", "_id", "ID"},
	label:       []string{"pedido", "orderLabel"},
	customer:    []string{"cliente", "customer"},
	store:       []string{"tienda", "store"},
	description: []string{"descripcion", "description"},
	status:      []string{"estado", "status"},
	cost:        []string{"costo", "cost"},
	shipping:    []string{"envio", "costoEnvio", "shippingCost"},
	purchase:    []string{"costoCompra", "purchaseCost"},
}

// Normalize builds a Record from a decoded JSON object. Monetary fields that
// are missing, unparsable, non-finite or negative become 0.
func Normalize(raw map[string]any) Record {
	return Record{
		ID:           text(lookup(raw, recordKeys.id)),
		OrderLabel:   text(lookup(raw, recordKeys.label)),
		Customer:     text(lookup(raw, recordKeys.customer)),
		Store:        text(lookup(raw, recordKeys.store)),
		Description:  text(lookup(raw, recordKeys.description)),
		Status:       text(lookup(raw, recordKeys.status)),
		Cost:         nonNegative(Amount(lookup(raw, recordKeys.cost))),
		ShippingCost: nonNegative(Amount(lookup(raw, recordKeys.shipping))),
		PurchaseCost: nonNegative(Amount(lookup(raw, recordKeys.purchase))),
	}
}

// NormalizeAll normalizes every raw object in order.
func NormalizeAll(raws []map[string]any) []Record {
	records := make([]Record, 0, len(raws))
	for _, raw := range raws {
		records = append(records, Normalize(raw))
	}
	return records
}

// Sanitized returns a copy with monetary fields forced finite and non-negative.
func (r Record) Sanitized() Record {
	r.Cost = nonNegative(r.Cost)
	r.ShippingCost = nonNegative(r.ShippingCost)
	r.PurchaseCost = nonNegative(r.PurchaseCost)
	return r
}

// leadingNumber matches the numeric prefix a lenient float parse accepts.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Amount coerces an arbitrary decoded JSON value into a finite float64.
// Strings are parsed by their numeric prefix ("12.5kg" is 12.5, "abc" is 0).
// The sign is preserved.
func Amount(v any) float64 {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		f = parseLenient(n.String())
	case string:
		f = parseLenient(n)
	default:
		return 0
	}
	return finite(f)
}

func parseLenient(s string) float64 {
	prefix := leadingNumber.FindString(strings.TrimSpace(s))
	if prefix == "" {
		return 0
	}
	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return 0
	}
	return f
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func nonNegative(f float64) float64 {
	f = finite(f)
	if f < 0 {
		return 0
	}
	return f
}

func lookup(raw map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}
