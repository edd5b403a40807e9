package request

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultActivityPerPage is used when the perPage parameter is absent.
const DefaultActivityPerPage = 50

// ActivityPageParams holds the paging query of the activity history endpoint.
type ActivityPageParams struct {
	Page    int
	PerPage int
}

// ParseActivityPage extracts and validates paging parameters.
// Both are optional.
//
// Validation rules:
//   - page: zero-based, must be a non-negative number (defaults to 0)
//   - perPage: must be between 1 and 100 (defaults to 50)
func ParseActivityPage(pageParam, perPageParam string) (ActivityPageParams, error) {
	params := ActivityPageParams{PerPage: DefaultActivityPerPage}

	if pageParam = strings.TrimSpace(pageParam); pageParam != "" {
		page, err := strconv.Atoi(pageParam)
		if err != nil {
			return ActivityPageParams{}, fmt.Errorf("invalid page: must be a number")
		}
		if page < 0 {
			return ActivityPageParams{}, fmt.Errorf("invalid page: must not be negative")
		}
		params.Page = page
	}

	if perPageParam = strings.TrimSpace(perPageParam); perPageParam != "" {
		perPage, err := strconv.Atoi(perPageParam)
		if err != nil {
			return ActivityPageParams{}, fmt.Errorf("invalid perPage: must be a number")
		}
		if perPage < 1 || perPage > 100 {
			return ActivityPageParams{}, fmt.Errorf("invalid perPage: must be between 1 and 100")
		}
		params.PerPage = perPage
	}

	return params, nil
}
