package request

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sangkips/pedidos-api/pkg/orderview"
)

func TestDashboardRequestCanonicalColumnWins(t *testing.T) {
	req := DashboardRequest{ColumnFilters: map[string]string{
		"customer": "luis",
		"cliente":  "ana",
		"Store":    "shein",
		"costo":    "10",
	}}

	for i := 0; i < 20; i++ {
		state := req.State()
		assert.Equal(t, "ana", state.ColumnFilters[orderview.ColumnCustomer])
		assert.Equal(t, "shein", state.ColumnFilters[orderview.ColumnStore])
		assert.NotContains(t, state.ColumnFilters, orderview.ColumnCost)
	}
}

func TestDashboardRequestSortAndPage(t *testing.T) {
	req := DashboardRequest{
		Sort:      SortRequest{Column: "costo", Direction: "desc"},
		PageIndex: 2,
		PageSize:  5,
	}

	state := req.State()

	assert.Equal(t, orderview.Sort{Column: orderview.ColumnCost, Direction: orderview.DirectionDesc}, state.Sort)
	assert.Equal(t, 2, state.PageIndex)
	assert.Equal(t, 5, state.PageSize)

	req.Sort.Direction = "sideways"
	assert.False(t, req.State().Sort.Active())
}
