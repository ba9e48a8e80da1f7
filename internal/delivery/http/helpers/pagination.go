package helpers

import (
	"fmt"
	"net/http"
	"strconv"

	"marathonhub/internal/domain"
)

// MaxListLimit is the largest accepted limit query parameter of marathon listings.
const MaxListLimit = 100

// ParseListParams reads sort and limit from the query string.
// sort defaults to newest; limit is optional and must be between 1 and MaxListLimit.
func ParseListParams(r *http.Request) (domain.ListParams, error) {
	q := r.URL.Query()
	sort, err := domain.ParseSortOrder(q.Get("sort"))
	if err != nil {
		return domain.ListParams{}, err
	}
	params := domain.ListParams{Sort: sort}
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > MaxListLimit {
			return domain.ListParams{}, fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrInvalidInput, MaxListLimit)
		}
		params.Limit = v
	}
	return params, nil
}
