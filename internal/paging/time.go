package paging

import (
	"net/url"
	"sort"
	"time"
)

// SortField names a whitelisted time column a TimeQuery may order by.
type SortField string

const (
	SortCreatedAt SortField = "created_at"
)

// Default decides which page is served when neither before nor after is given.
type Default int

const (
	// FromEpoch starts at EpochFloor and walks forward, oldest first.
	FromEpoch Default = iota
	// FromNow starts at the current time and walks backward, newest first.
	FromNow
)

// EpochFloor is the implicit after cursor of FromEpoch listings.
var EpochFloor = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// TimeQuery is the storage side of a time cursor. Bounds are exclusive and a
// zero bound is unset. Limit is one more than the page size so the pager can
// tell whether a next page exists.
type TimeQuery struct {
	Field  SortField
	Before time.Time
	After  time.Time
	Limit  int
}

// Ascending reports whether rows are read oldest first. Any after bound walks
// forward; a lone before bound walks backward.
func (q TimeQuery) Ascending() bool {
	return !q.After.IsZero()
}

// Includes reports whether t falls within the bounds.
func (q TimeQuery) Includes(t time.Time) bool {
	if !q.Before.IsZero() && !t.Before(q.Before) {
		return false
	}
	if !q.After.IsZero() && !t.After(q.After) {
		return false
	}
	return true
}

// TimePager reads before/after/per_page from a request URL.
type TimePager struct {
	base    *url.URL
	query   TimeQuery
	perPage int
}

// NewTimePager parses the cursor parameters of u. now anchors FromNow.
func NewTimePager(u *url.URL, field SortField, def Default, now time.Time) (*TimePager, error) {
	values := u.Query()
	p := &TimePager{
		base:    u,
		perPage: perPage(values),
		query:   TimeQuery{Field: field},
	}

	var err error
	if p.query.Before, err = parseTime(values.Get("before")); err != nil {
		return nil, err
	}
	if p.query.After, err = parseTime(values.Get("after")); err != nil {
		return nil, err
	}

	if p.query.Before.IsZero() && p.query.After.IsZero() {
		switch def {
		case FromNow:
			p.query.Before = now.UTC()
		default:
			p.query.After = EpochFloor
		}
	}

	p.query.Limit = p.perPage + 1
	return p, nil
}

// Query returns the storage query for the current page.
func (p *TimePager) Query() TimeQuery {
	return p.query
}

// PerPage returns the effective page size.
func (p *TimePager) PerPage() int {
	return p.perPage
}

// TimePage trims rows fetched with p.Query() to one page and derives links
// from the timestamps of its first and last item.
func TimePage[T any](p *TimePager, rows []T, stamp func(T) time.Time) Page[T] {
	hasMore := len(rows) > p.perPage
	if hasMore {
		rows = rows[:p.perPage]
	}
	if len(rows) == 0 {
		return newPage(rows, "", "")
	}

	first := stamp(rows[0]).UTC().Format(time.RFC3339Nano)
	last := stamp(rows[len(rows)-1]).UTC().Format(time.RFC3339Nano)

	var prev, next string
	if p.query.Ascending() {
		prev = link(p.base, map[string]string{"before": first}, "after")
		if hasMore {
			next = link(p.base, map[string]string{"after": last}, "before")
		}
	} else {
		prev = link(p.base, map[string]string{"after": first}, "before")
		if hasMore {
			next = link(p.base, map[string]string{"before": last}, "after")
		}
	}
	return newPage(rows, prev, next)
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, ErrInvalidCursor
	}
	return t.UTC(), nil
}

// Select applies q to an in-memory slice: it keeps rows within the bounds,
// orders them in the query direction and cuts at the limit.
func Select[T any](rows []T, q TimeQuery, stamp func(T) time.Time) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if q.Includes(stamp(row)) {
			out = append(out, row)
		}
	}

	asc := q.Ascending()
	sort.SliceStable(out, func(i, j int) bool {
		if asc {
			return stamp(out[i]).Before(stamp(out[j]))
		}
		return stamp(out[i]).After(stamp(out[j]))
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}
