package paging

import (
	"math"
	"net/url"
	"strconv"

	"podium/internal/config"
)

// maxPage keeps (page-1)*per_page inside a 32-bit offset.
const maxPage = math.MaxInt32/config.MaxPageSize + 1

// IndexQuery is an offset window. Limit is one more than the page size.
type IndexQuery struct {
	Offset int
	Limit  int
}

// IndexPager reads page/per_page from a request URL. Pages are 1-based.
type IndexPager struct {
	base    *url.URL
	page    int
	perPage int
}

// NewIndexPager parses the page parameters of u.
func NewIndexPager(u *url.URL) (*IndexPager, error) {
	values := u.Query()
	page := 1
	if raw := values.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPage {
			return nil, ErrInvalidCursor
		}
		page = n
	}
	return &IndexPager{base: u, page: page, perPage: perPage(values)}, nil
}

// Query returns the storage query for the current page.
func (p *IndexPager) Query() IndexQuery {
	return IndexQuery{Offset: (p.page - 1) * p.perPage, Limit: p.perPage + 1}
}

// IndexPage trims rows fetched with p.Query() to one page and links its neighbours.
func IndexPage[T any](p *IndexPager, rows []T) Page[T] {
	hasMore := len(rows) > p.perPage
	if hasMore {
		rows = rows[:p.perPage]
	}

	var prev, next string
	if p.page > 1 {
		prev = link(p.base, map[string]string{"page": strconv.Itoa(p.page - 1)})
	}
	if hasMore {
		next = link(p.base, map[string]string{"page": strconv.Itoa(p.page + 1)})
	}
	return newPage(rows, prev, next)
}

// Window applies q to an in-memory slice that is already in order.
func Window[T any](rows []T, q IndexQuery) []T {
	if q.Offset < 0 || q.Offset >= len(rows) {
		return nil
	}
	end := len(rows)
	if q.Limit >= 0 && q.Limit < end-q.Offset {
		end = q.Offset + q.Limit
	}
	return rows[q.Offset:end]
}
