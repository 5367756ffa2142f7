package common

import (
	"net/http"
	"strconv"

	pkgerrors "photoshare/pkg/errors"
)

// PageParams is the page/limit pair of a listing request
type PageParams struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ExtractPageParams reads ?page and ?limit, falling back to the defaults when
// a parameter is absent. A limit of zero or less means "no limit" and is kept
// as given; range checks on page belong to the use case.
func ExtractPageParams(r *http.Request, defaultPage, defaultLimit int) (PageParams, error) {
	params := PageParams{Page: defaultPage, Limit: defaultLimit}
	q := r.URL.Query()

	if raw := q.Get("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return params, pkgerrors.NewValidationError("page must be an integer")
		}
		params.Page = p
	}

	if raw := q.Get("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil {
			return params, pkgerrors.NewValidationError("limit must be an integer")
		}
		params.Limit = l
	}

	return params, nil
}

// Offset is the number of items skipped before the page starts
func (p PageParams) Offset() int {
	if p.Limit <= 0 || p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
