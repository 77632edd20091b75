package datasync

import (
	"sort"
	"strings"

	"github.com/lusoedu/sge-console/internal/models"
)

// Query drives the pure filter/sort/paginate projection of a canonical list.
// The zero value projects everything unpaginated in server order.
type Query[T any] struct {
	// Search is matched case-insensitively as a substring against every
	// string SearchFields yields.
	Search       string
	SearchFields func(T) []string

	// Match implements categorical (exact) filters. Nil matches all.
	Match func(T) bool

	// Less orders the filtered rows; nil keeps server order. Sorting is
	// stable so equal rows keep their relative order.
	Less func(a, b T) bool

	// Page is 1-based. PageSize <= 0 disables pagination.
	Page     int
	PageSize int
}

// Project derives the visible rows from the canonical list. It performs no
// I/O and never mutates its input: identical inputs always produce identical
// output. The pagination window is applied to the filtered and sorted list,
// so a page past the end yields an empty slice rather than an error.
func Project[T any](list []T, q Query[T]) ([]T, models.Pagination) {
	filtered := make([]T, 0, len(list))
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, item := range list {
		if q.Match != nil && !q.Match(item) {
			continue
		}
		if needle != "" {
			if q.SearchFields == nil || !matchSearch(q.SearchFields(item), needle) {
				continue
			}
		}
		filtered = append(filtered, item)
	}

	if q.Less != nil {
		sort.SliceStable(filtered, func(i, j int) bool { return q.Less(filtered[i], filtered[j]) })
	}

	total := len(filtered)
	page := q.Page
	if page < 1 {
		page = 1
	}
	if q.PageSize <= 0 {
		return filtered, models.Pagination{Page: 1, PageSize: total, TotalCount: total}
	}

	start := (page - 1) * q.PageSize
	end := start + q.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	window := make([]T, end-start)
	copy(window, filtered[start:end])
	return window, models.Pagination{Page: page, PageSize: q.PageSize, TotalCount: total}
}

func matchSearch(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
