package shared

import (
	"net/http"
	"net/url"
	"strconv"
)

type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads 1-based ?page and ?limit, clamping limit to maxLimit.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	page := 1
	limit := defaultLimit
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			page = v
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return Pagination{Page: page, Limit: limit}
}

// Pages returns the page count for total items; a total of zero is one page.
func (p Pagination) Pages(total int) int {
	if p.Limit <= 0 || total <= 0 {
		return 1
	}
	return (total + p.Limit - 1) / p.Limit
}

// PageURL rewrites the request query to point at page, keeping filters.
func PageURL(r *http.Request, page int) string {
	query := url.Values{}
	for key, values := range r.URL.Query() {
		query[key] = values
	}
	query.Set("page", strconv.Itoa(page))
	return r.URL.Path + "?" + query.Encode()
}
