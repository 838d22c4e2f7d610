package models

// SortDirection values accepted by the backend.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// PageQuery is the common list query: page, size, search, sortField and
// sortDirection. Zero values are left out of the request.
type PageQuery struct {
	Page          int    `validate:"gte=0"`
	Size          int    `validate:"gte=0,lte=200"`
	Search        string `validate:"max=200"`
	SortField     string `validate:"omitempty,alphanum"`
	SortDirection string `validate:"omitempty,oneof=asc desc ASC DESC"`
}

// Page is one page of a paginated list.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// HasNext reports whether a further page exists.
func (p Page[T]) HasNext() bool {
	return p.Number+1 < p.TotalPages
}
