package orderview

import (
	"encoding/binary"
	"math"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/sangkips/pedidos-api/pkg/pagination"
)

// View is the full derived state of the dashboard for one ViewState.
type View struct {
	Visible    []Record                            `json:"visibles"`
	Page       *pagination.PaginatedResult[Record] `json:"pagina"`
	Totals     Totals                              `json:"totales"`
	Allocation Allocation                          `json:"asignacion"`
}

// Page slices one page out of visible. pageIndex is zero-based and clamped
// into the existing pages; pageSize below 1 falls back to the default.
func Page(visible []Record, pageIndex, pageSize int) *pagination.PaginatedResult[Record] {
	if pageIndex < 0 {
		pageIndex = 0
	}
	return pagination.Slice(visible, pagination.PaginationParams{Page: pageIndex + 1, PerPage: pageSize})
}

// Compute runs filter, sort, aggregation and tax allocation in one pass.
// Totals and allocation cover the whole visible set, not only the page.
func Compute(records []Record, state ViewState) View {
	visible := Visible(records, state.Query())
	adj := state.Adjustments.Sanitized()
	return View{
		Visible:    visible,
		Page:       Page(visible, state.PageIndex, state.PageSize),
		Totals:     Aggregate(visible, adj),
		Allocation: AllocateTax(visible, adj.ImportTaxSupplier),
	}
}

// Fingerprint identifies the inputs of Compute. Two calls with equal records
// and equal state produce the same value, so it can key a memo cache.
func Fingerprint(records []Record, state ViewState) uint64 {
	d := xxhash.New()
	var buf [8]byte

	writeString := func(s string) {
		_, _ = d.WriteString(strconv.Itoa(len(s)))
		_, _ = d.WriteString(":")
		_, _ = d.WriteString(s)
	}
	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(finite(f)))
		_, _ = d.Write(buf[:])
	}
	writeInt := func(i int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(i)))
		_, _ = d.Write(buf[:])
	}

	writeInt(len(records))
	for _, r := range records {
		writeString(r.ID)
		writeString(r.OrderLabel)
		writeString(r.Customer)
		writeString(r.Store)
		writeString(r.Description)
		writeString(r.Status)
		writeFloat(r.Cost)
		writeFloat(r.ShippingCost)
		writeFloat(r.PurchaseCost)
	}

	writeString(state.GlobalFilter)
	columns := make([]string, 0, len(state.ColumnFilters))
	for c, v := range state.ColumnFilters {
		if v != "" {
			columns = append(columns, string(c))
		}
	}
	sort.Strings(columns)
	writeInt(len(columns))
	for _, c := range columns {
		writeString(c)
		writeString(state.ColumnFilters[Column(c)])
	}
	writeString(string(state.Sort.Column))
	writeString(string(state.Sort.Direction))

	adj := state.Adjustments
	for _, f := range []float64{adj.Commission, adj.ImportTaxCustomer, adj.ImportTaxSupplier, adj.ShippingManual, adj.Deposit, adj.Discounts} {
		writeFloat(f)
	}
	writeInt(state.PageIndex)
	writeInt(state.PageSize)

	return d.Sum64()
}
