package shared

import (
	"net/http"
	"strconv"
)

// PageRequest is the page the manager dashboard was asked to show.
type PageRequest struct {
	Page    int
	Refresh bool
}

// ParsePage reads ?page=n&refresh=1. Missing or invalid pages fall back to
// fallback, which itself is clamped to 1.
func ParsePage(r *http.Request, fallback int) PageRequest {
	if fallback < 1 {
		fallback = 1
	}
	req := PageRequest{Page: fallback}
	query := r.URL.Query()
	if raw := query.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			req.Page = v
		}
	}
	if refresh, err := strconv.ParseBool(query.Get("refresh")); err == nil {
		req.Refresh = refresh
	}
	return req
}
