package orderview

import (
	"sort"
	"strings"
)

// Column identifies an order table column. The values match the JSON keys of
// Record so clients can send them back verbatim.
type Column string

const (
	ColumnOrderLabel   Column = "pedido"
	ColumnCustomer     Column = "cliente"
	ColumnStore        Column = "tienda"
	ColumnDescription  Column = "descripcion"
	ColumnStatus       Column = "estado"
	ColumnCost         Column = "costo"
	ColumnShipping     Column = "envio"
	ColumnPurchaseCost Column = "costoCompra"
)

// FilterableColumns are the only columns that accept a per-column filter.
var FilterableColumns = []Column{ColumnOrderLabel, ColumnCustomer, ColumnStore, ColumnStatus}

var columnAliases = map[string]Column{
	"pedido":       ColumnOrderLabel,
	"orderlabel":   ColumnOrderLabel,
	"cliente":      ColumnCustomer,
	"customer":     ColumnCustomer,
	"tienda":       ColumnStore,
	"store":        ColumnStore,
	"descripcion":  ColumnDescription,
	"description":  ColumnDescription,
	"estado":       ColumnStatus,
	"status":       ColumnStatus,
	"costo":        ColumnCost,
	"cost":         ColumnCost,
	"envio":        ColumnShipping,
	"shippingcost": ColumnShipping,
	"costocompra":  ColumnPurchaseCost,
	"purchasecost": ColumnPurchaseCost,
}

// ParseColumn resolves a column id, accepting the English field names too.
func ParseColumn(s string) (Column, bool) {
	c, ok := columnAliases[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// Filterable reports whether c accepts a per-column filter.
func (c Column) Filterable() bool {
	for _, f := range FilterableColumns {
		if f == c {
			return true
		}
	}
	return false
}

func (c Column) valid() bool {
	switch c {
	case ColumnOrderLabel, ColumnCustomer, ColumnStore, ColumnDescription, ColumnStatus,
		ColumnCost, ColumnShipping, ColumnPurchaseCost:
		return true
	}
	return false
}

func (c Column) numeric() bool {
	return c == ColumnCost || c == ColumnShipping || c == ColumnPurchaseCost
}

func (c Column) text(r Record) string {
	switch c {
	case ColumnOrderLabel:
		return r.OrderLabel
	case ColumnCustomer:
		return r.Customer
	case ColumnStore:
		return r.Store
	case ColumnDescription:
		return r.Description
	case ColumnStatus:
		return r.Status
	}
	return ""
}

func (c Column) amount(r Record) float64 {
	switch c {
	case ColumnCost:
		return r.Cost
	case ColumnShipping:
		return r.ShippingCost
	case ColumnPurchaseCost:
		return r.PurchaseCost
	}
	return 0
}

// Direction is a sort direction; the empty value means unsorted.
type Direction string

const (
	DirectionNone Direction = ""
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

// Sort is a single-column sort. The zero value leaves records in source order.
type Sort struct {
	Column    Column    `json:"column,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// Active reports whether s reorders anything.
func (s Sort) Active() bool {
	return s.Column.valid() && (s.Direction == DirectionAsc || s.Direction == DirectionDesc)
}

// Toggle cycles the sort of column: asc, desc, then unsorted. Toggling a
// different column than the current one starts again at asc.
func (s Sort) Toggle(column Column) Sort {
	if s.Column != column || !s.Active() {
		return Sort{Column: column, Direction: DirectionAsc}
	}
	if s.Direction == DirectionAsc {
		return Sort{Column: column, Direction: DirectionDesc}
	}
	return Sort{}
}

// Query carries the filter and sort parameters of one visible-set computation.
type Query struct {
	GlobalFilter  string
	ColumnFilters map[Column]string
	Sort          Sort
}

// Visible applies the global filter, the column filters and the sort to
// records and returns a new slice. records itself is left untouched.
func Visible(records []Record, q Query) []Record {
	global := strings.ToLower(q.GlobalFilter)
	if strings.TrimSpace(global) == "" {
		global = ""
	}
	filters := activeFilters(q.ColumnFilters)

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if global != "" && !matchesAnyField(r, global) {
			continue
		}
		if !matchesColumns(r, filters) {
			continue
		}
		out = append(out, r)
	}
	SortRecords(out, q.Sort)
	return out
}

// SortRecords stable-sorts records in place. Ties keep their relative order
// in both directions.
func SortRecords(records []Record, s Sort) {
	if !s.Active() {
		return
	}
	less := compareFunc(s.Column)
	if s.Direction == DirectionDesc {
		sort.SliceStable(records, func(i, j int) bool { return less(records[j], records[i]) })
		return
	}
	sort.SliceStable(records, func(i, j int) bool { return less(records[i], records[j]) })
}

func compareFunc(c Column) func(a, b Record) bool {
	if c.numeric() {
		return func(a, b Record) bool { return c.amount(a) < c.amount(b) }
	}
	return func(a, b Record) bool {
		return strings.ToLower(c.text(a)) < strings.ToLower(c.text(b))
	}
}

var textColumns = []Column{ColumnOrderLabel, ColumnCustomer, ColumnStore, ColumnDescription, ColumnStatus}

func matchesAnyField(r Record, needle string) bool {
	for _, c := range textColumns {
		if strings.Contains(strings.ToLower(c.text(r)), needle) {
			return true
		}
	}
	return false
}

type columnFilter struct {
	column Column
	needle string
}

func activeFilters(filters map[Column]string) []columnFilter {
	active := make([]columnFilter, 0, len(filters))
	for _, c := range FilterableColumns {
		if v := filters[c]; v != "" {
			active = append(active, columnFilter{column: c, needle: strings.ToLower(v)})
		}
	}
	return active
}

func matchesColumns(r Record, filters []columnFilter) bool {
	for _, f := range filters {
		if !strings.Contains(strings.ToLower(f.column.text(r)), f.needle) {
			return false
		}
	}
	return true
}
