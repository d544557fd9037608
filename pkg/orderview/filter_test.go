package orderview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	return []Record{
		{ID: "1", OrderLabel: "P-003", Customer: "Ana", Store: "Amazon", Description: "Audífonos", Status: "Pendiente", Cost: 50, PurchaseCost: 30},
		{ID: "2", OrderLabel: "P-001", Customer: "Bruno", Store: "Shein", Description: "Vestido", Status: "Entregado", Cost: 20, PurchaseCost: 12},
		{ID: "3", OrderLabel: "P-002", Customer: "ana", Store: "eBay", Description: "Reloj", Status: "Pendiente", Cost: 50, PurchaseCost: 40},
		{ID: "4", OrderLabel: "P-004", Customer: "Carla", Store: "Amazon", Description: "Funda", Status: "En camino", Cost: 5, PurchaseCost: 2},
	}
}

func ids(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestVisibleGlobalFilter(t *testing.T) {
	records := sampleRecords()

	assert.Equal(t, []string{"1", "3"}, ids(Visible(records, Query{GlobalFilter: "ANA"})))
	assert.Equal(t, []string{"1", "4"}, ids(Visible(records, Query{GlobalFilter: "amazon"})))
	assert.Equal(t, []string{"3"}, ids(Visible(records, Query{GlobalFilter: "reloj"})))
	assert.Empty(t, Visible(records, Query{GlobalFilter: "nada"}))
}

func TestVisibleEmptyFilterKeepsEverything(t *testing.T) {
	records := sampleRecords()

	assert.Equal(t, ids(records), ids(Visible(records, Query{})))
	assert.Equal(t, ids(records), ids(Visible(records, Query{GlobalFilter: "   "})))
}

func TestVisibleColumnFiltersAreAnded(t *testing.T) {
	records := sampleRecords()

	q := Query{ColumnFilters: map[Column]string{
		ColumnCustomer: "ana",
		ColumnStatus:   "pend",
	}}
	assert.Equal(t, []string{"1", "3"}, ids(Visible(records, q)))

	q.ColumnFilters[ColumnStore] = "ebay"
	assert.Equal(t, []string{"3"}, ids(Visible(records, q)))

	q.GlobalFilter = "audífonos"
	assert.Empty(t, Visible(records, q))
}

func TestVisibleIgnoresNonFilterableColumns(t *testing.T) {
	records := sampleRecords()

	q := Query{ColumnFilters: map[Column]string{ColumnDescription: "reloj"}}
	assert.Len(t, Visible(records, q), len(records))
}

func TestVisibleIsIdempotent(t *testing.T) {
	records := sampleRecords()
	q := Query{
		GlobalFilter:  "a",
		ColumnFilters: map[Column]string{ColumnStatus: "e"},
		Sort:          Sort{Column: ColumnCost, Direction: DirectionDesc},
	}

	once := Visible(records, q)
	twice := Visible(once, q)
	assert.Equal(t, once, twice)
}

func TestVisibleDoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	before := append([]Record(nil), records...)

	_ = Visible(records, Query{Sort: Sort{Column: ColumnOrderLabel, Direction: DirectionAsc}})
	assert.Equal(t, before, records)
}

func TestSortIsStable(t *testing.T) {
	records := sampleRecords()

	asc := Visible(records, Query{Sort: Sort{Column: ColumnCost, Direction: DirectionAsc}})
	assert.Equal(t, []string{"4", "2", "1", "3"}, ids(asc))

	desc := Visible(records, Query{Sort: Sort{Column: ColumnCost, Direction: DirectionDesc}})
	assert.Equal(t, []string{"1", "3", "2", "4"}, ids(desc))

	byStatus := Visible(records, Query{Sort: Sort{Column: ColumnStatus, Direction: DirectionAsc}})
	assert.Equal(t, []string{"4", "2", "1", "3"}, ids(byStatus))
}

func TestSortTextIsCaseInsensitive(t *testing.T) {
	records := sampleRecords()

	got := Visible(records, Query{Sort: Sort{Column: ColumnCustomer, Direction: DirectionAsc}})
	assert.Equal(t, []string{"1", "3", "2", "4"}, ids(got))
}

func TestSortToggleCycle(t *testing.T) {
	var s Sort

	s = s.Toggle(ColumnCost)
	assert.Equal(t, Sort{Column: ColumnCost, Direction: DirectionAsc}, s)
	s = s.Toggle(ColumnCost)
	assert.Equal(t, Sort{Column: ColumnCost, Direction: DirectionDesc}, s)
	s = s.Toggle(ColumnCost)
	assert.False(t, s.Active())

	s = s.Toggle(ColumnCost).Toggle(ColumnCustomer)
	assert.Equal(t, Sort{Column: ColumnCustomer, Direction: DirectionAsc}, s)
}

func TestParseColumn(t *testing.T) {
	c, ok := ParseColumn("costoCompra")
	require.True(t, ok)
	assert.Equal(t, ColumnPurchaseCost, c)

	c, ok = ParseColumn("customer")
	require.True(t, ok)
	assert.Equal(t, ColumnCustomer, c)

	_, ok = ParseColumn("precio")
	assert.False(t, ok)

	assert.True(t, ColumnStatus.Filterable())
	assert.False(t, ColumnCost.Filterable())
}
