// Package pagination provides the page/offset arithmetic and result shape
// shared by every repository that lists entities.
package pagination

// DefaultPageSize applies when a caller does not specify one.
const DefaultPageSize = 20

// Query carries normalized pagination input.
type Query struct {
	Page     int
	PageSize int
	Keyword  string
}

// Page is the paginated result returned to callers.
type Page[T any] struct {
	Data       []T   `json:"data"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// Normalize clamps page and pageSize to valid values.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	return q
}

// Offset returns the row offset for the query.
func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// NewPage assembles a page result, computing TotalPages as
// ceil(totalCount/pageSize). Data is never nil.
func NewPage[T any](data []T, totalCount int64, q Query) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: TotalPages(totalCount, q.PageSize),
	}
}

// TotalPages computes ceil(totalCount/pageSize).
func TotalPages(totalCount int64, pageSize int) int {
	if pageSize < 1 || totalCount <= 0 {
		return 0
	}
	return int((totalCount + int64(pageSize) - 1) / int64(pageSize))
}
