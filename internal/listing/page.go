package listing

import "strings"

// TotalPages is ceil(n / perPage).
func TotalPages(n, perPage int) int {
	if perPage <= 0 || n <= 0 {
		return 0
	}
	return (n + perPage - 1) / perPage
}

// PageSlice returns the 1-based page of items. Out of range pages are empty.
func PageSlice[T any](items []T, page, perPage int) []T {
	if page < 1 || perPage <= 0 {
		return []T{}
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// Filter keeps the items where any of fields(item) contains term,
// case-insensitively. Whitespace in term is significant; only "" keeps
// everything.
func Filter[T any](items []T, term string, fields func(T) []string) []T {
	term = strings.ToLower(term)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if term == "" || fields == nil || matches(fields(it), term) {
			out = append(out, it)
		}
	}
	return out
}

func matches(fields []string, term string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// PageNumbers lists 1..total for pagination controls.
func PageNumbers(total int) []int {
	out := make([]int, 0, total)
	for i := 1; i <= total; i++ {
		out = append(out, i)
	}
	return out
}
