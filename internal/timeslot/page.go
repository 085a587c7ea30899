package timeslot

// Page describes one page of items.
type Page[T any] struct {
	Items    []T
	Page     int // 1-based page number
	PageSize int
	HasNext  bool
	HasPrev  bool
	Total    int
}

// Paginate returns the slice of items for the requested page plus metadata.
// Pages are numbered from 1; out-of-range or non-positive values fall back
// to defaults.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	const defaultPageSize = 20

	total := len(items)

	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}

	end := start + pageSize
	if end > total {
		end = total
	}

	return Page[T]{
		Items:    items[start:end],
		Page:     page,
		PageSize: pageSize,
		HasNext:  end < total,
		HasPrev:  page > 1,
		Total:    total,
	}
}
