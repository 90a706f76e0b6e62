// Package paging turns caller supplied cursors into bounded storage queries
// and wraps the resulting rows in a page with continuation links.
package paging

import (
	"fmt"
	"net/url"
	"strconv"

	"podium/internal/config"
	"podium/internal/domain"
)

// ErrInvalidCursor is returned for malformed before/after/page parameters.
var ErrInvalidCursor = fmt.Errorf("invalid pagination cursor: %w", domain.ErrValidation)

// Links point at the neighbouring pages. Empty links are omitted.
type Links struct {
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
}

// Page is the wire envelope of every paginated listing.
type Page[T any] struct {
	Links *Links `json:"links,omitempty"`
	Data  []T    `json:"data"`
}

// Map converts the items of a page, keeping its links.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := Page[U]{Links: p.Links, Data: make([]U, 0, len(p.Data))}
	for _, item := range p.Data {
		out.Data = append(out.Data, fn(item))
	}
	return out
}

func newPage[T any](items []T, prev, next string) Page[T] {
	if items == nil {
		items = []T{}
	}
	page := Page[T]{Data: items}
	if prev != "" || next != "" {
		page.Links = &Links{Previous: prev, Next: next}
	}
	return page
}

// perPage reads per_page, falling back to the default and clamping to the max.
func perPage(values url.Values) int {
	n, err := strconv.Atoi(values.Get("per_page"))
	if err != nil || n < 1 {
		return config.DefaultPageSize
	}
	if n > config.MaxPageSize {
		return config.MaxPageSize
	}
	return n
}

// link rebuilds the request URL with the given cursor parameters replaced.
// Credentials never leak into links.
func link(base *url.URL, set map[string]string, drop ...string) string {
	q := base.Query()
	q.Del("access_token")
	for _, key := range drop {
		q.Del(key)
	}
	for key, value := range set {
		q.Set(key, value)
	}
	u := url.URL{Path: base.Path, RawQuery: q.Encode()}
	return u.String()
}
