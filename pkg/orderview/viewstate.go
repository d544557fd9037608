package orderview

import (
	"github.com/sangkips/pedidos-api/pkg/pagination"
)

// ViewState is everything the dashboard needs besides the records to produce
// a View. Values are never mutated; every With method returns a copy.
type ViewState struct {
	GlobalFilter  string            `json:"globalFilter,omitempty"`
	ColumnFilters map[Column]string `json:"columnFilters,omitempty"`
	Sort          Sort              `json:"sort"`
	Adjustments   Adjustments       `json:"ajustes"`
	PageIndex     int               `json:"pageIndex"`
	PageSize      int               `json:"pageSize"`
}

// NewViewState returns the state of a freshly opened dashboard.
func NewViewState() ViewState {
	return ViewState{PageSize: pagination.DefaultPerPage}
}

// WithGlobalFilter replaces the global filter and goes back to the first page.
func (s ViewState) WithGlobalFilter(filter string) ViewState {
	s.GlobalFilter = filter
	s.PageIndex = 0
	return s
}

// WithColumnFilter sets the filter of one column; an empty value clears it.
// Columns that cannot be filtered are ignored.
func (s ViewState) WithColumnFilter(column Column, filter string) ViewState {
	if !column.Filterable() {
		return s
	}
	filters := make(map[Column]string, len(s.ColumnFilters)+1)
	for c, v := range s.ColumnFilters {
		filters[c] = v
	}
	if filter == "" {
		delete(filters, column)
	} else {
		filters[column] = filter
	}
	s.ColumnFilters = filters
	s.PageIndex = 0
	return s
}

// ToggleSort cycles the sort of column.
func (s ViewState) ToggleSort(column Column) ViewState {
	s.Sort = s.Sort.Toggle(column)
	return s
}

func (s ViewState) WithAdjustments(adj Adjustments) ViewState {
	s.Adjustments = adj.Sanitized()
	return s
}

func (s ViewState) WithPage(index int) ViewState {
	if index < 0 {
		index = 0
	}
	s.PageIndex = index
	return s
}

// WithPageSize changes the page size and returns to the first page.
func (s ViewState) WithPageSize(size int) ViewState {
	if size < 1 {
		size = pagination.DefaultPerPage
	}
	s.PageSize = size
	s.PageIndex = 0
	return s
}

// Query extracts the filter and sort parameters.
func (s ViewState) Query() Query {
	return Query{
		GlobalFilter:  s.GlobalFilter,
		ColumnFilters: s.ColumnFilters,
		Sort:          s.Sort,
	}
}
