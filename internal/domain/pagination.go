package domain

import "fmt"

// SortOrder orders marathon listings by creation time.
type SortOrder string

// Supported sort orders.
const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// ParseSortOrder maps a query value to a SortOrder. Empty means newest.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "", SortNewest:
		return SortNewest, nil
	case SortOldest:
		return SortOldest, nil
	}
	return "", fmt.Errorf("%w: sort must be %q or %q", ErrInvalidInput, SortNewest, SortOldest)
}

// ListParams holds sorting and limiting for marathon listings.
// Limit 0 means no limit.
type ListParams struct {
	Sort  SortOrder
	Limit int
}
