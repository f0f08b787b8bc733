package views

import "fmt"

const (
	DefaultPage     = 1
	DefaultPageSize = 3
)

type PageRequest struct {
	Page     int
	PageSize int
}

type PageResult[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// Label renders the "Page n of m" footer.
func (p PageResult[T]) Label() string {
	return fmt.Sprintf("Page %d of %d", p.Page, p.TotalPages)
}

func (p PageResult[T]) HasPrevious() bool { return p.Page > 1 }

func (p PageResult[T]) HasNext() bool { return p.Page < p.TotalPages }

// Paginate slices items client-side. The page is clamped into
// [1, TotalPages]; an empty list still reports page 1.
func Paginate[T any](items []T, req PageRequest) PageResult[T] {
	size := req.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	pages := (len(items) + size - 1) / size
	page := min(max(req.Page, DefaultPage), max(pages, DefaultPage))
	start := min((page-1)*size, len(items))
	end := min(start+size, len(items))
	return PageResult[T]{
		Items:      items[start:end],
		Page:       page,
		PageSize:   size,
		Total:      len(items),
		TotalPages: pages,
	}
}
