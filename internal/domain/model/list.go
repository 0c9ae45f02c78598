package model

// SortOrder is the direction token understood by the simple REST list endpoints.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// ListQuery describes one page of a resource list.
// Start and End are inclusive row offsets; Filter is sent as a JSON object.
type ListQuery struct {
	SortField string
	Order     SortOrder
	Start     int
	End       int
	Filter    map[string]any
}

// PageQuery builds a ListQuery from limit/offset paging.
func PageQuery(sortField string, order SortOrder, limit, offset int) ListQuery {
	if limit <= 0 {
		limit = 1
	}
	return ListQuery{
		SortField: sortField,
		Order:     order,
		Start:     offset,
		End:       offset + limit - 1,
	}
}
