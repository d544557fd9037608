package request

import (
	"sort"

	"github.com/sangkips/pedidos-api/pkg/orderview"
)

// SortRequest is the requested single-column sort
type SortRequest struct {
	Column    string `json:"column"`
	Direction string `json:"direction"`
}

// DashboardRequest carries the view state typed on the dashboard. Adjustment
// values may be numbers or numeric strings.
type DashboardRequest struct {
	GlobalFilter  string            `json:"globalFilter"`
	ColumnFilters map[string]string `json:"columnFilters"`
	Sort          SortRequest       `json:"sort"`
	Adjustments   map[string]any    `json:"ajustes"`
	PageIndex     int               `json:"pageIndex"`
	PageSize      int               `json:"pageSize"`
}

// State converts the request into an engine view state. Unknown columns and
// directions are dropped.
func (r *DashboardRequest) State() orderview.ViewState {
	state := orderview.NewViewState().
		WithGlobalFilter(r.GlobalFilter).
		WithAdjustments(orderview.ParseAdjustments(r.Adjustments))

	for _, name := range columnFilterOrder(r.ColumnFilters) {
		if column, ok := orderview.ParseColumn(name); ok {
			state = state.WithColumnFilter(column, r.ColumnFilters[name])
		}
	}

	if column, ok := orderview.ParseColumn(r.Sort.Column); ok {
		switch dir := orderview.Direction(r.Sort.Direction); dir {
		case orderview.DirectionAsc, orderview.DirectionDesc:
			state.Sort = orderview.Sort{Column: column, Direction: dir}
		}
	}

	if r.PageSize > 0 {
		state = state.WithPageSize(r.PageSize)
	}
	return state.WithPage(r.PageIndex)
}

// columnFilterOrder sorts the filter keys so that, when one column arrives
// under several aliases, the canonical key is applied last and wins.
func columnFilterOrder(filters map[string]string) []string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	canonical := func(name string) bool {
		column, ok := orderview.ParseColumn(name)
		return ok && string(column) == name
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := canonical(names[i]), canonical(names[j])
		if ci != cj {
			return cj
		}
		return names[i] < names[j]
	})
	return names
}
