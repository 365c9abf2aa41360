package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

const (
	// DefaultPage is used when a request carries no page parameter
	DefaultPage = 1
	// DefaultLimit is used when a request carries no limit parameter
	DefaultLimit = 12
)

// ErrInvalidQuery is returned for query parameters that are not well-formed
var ErrInvalidQuery = errors.New("invalid query parameter")

// ParseQuery reads categoryId, search, page and limit from URL parameters.
// Missing page and limit take the defaults; values that are present must be
// integers but are otherwise passed through unchanged.
func ParseQuery(values url.Values) (Query, error) {
	q := Query{
		Page:   DefaultPage,
		Limit:  DefaultLimit,
		Search: values.Get("search"),
	}

	if raw := values.Get("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Query{}, fmt.Errorf("%w: categoryId %q", ErrInvalidQuery, raw)
		}
		q.CategoryID = &id
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return Query{}, fmt.Errorf("%w: page %q", ErrInvalidQuery, raw)
		}
		q.Page = page
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return Query{}, fmt.Errorf("%w: limit %q", ErrInvalidQuery, raw)
		}
		q.Limit = limit
	}

	return q, nil
}
