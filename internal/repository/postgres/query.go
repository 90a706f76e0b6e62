package postgres

import (
	"fmt"
	"strings"

	"podium/internal/paging"
)

// args accumulates positional query arguments.
type args []any

// add appends v and returns its placeholder.
func (a *args) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// sortColumns maps whitelisted sort fields to columns. Sort fields never
// reach SQL any other way.
var sortColumns = map[paging.SortField]string{
	paging.SortCreatedAt: "created_at",
}

// timeWindow renders the bounds, order and limit of q against table alias.
func timeWindow(alias string, q paging.TimeQuery, a *args) (where, tail string) {
	column, ok := sortColumns[q.Field]
	if !ok {
		column = sortColumns[paging.SortCreatedAt]
	}
	column = alias + "." + column

	var conds []string
	if !q.Before.IsZero() {
		conds = append(conds, column+" < "+a.add(q.Before))
	}
	if !q.After.IsZero() {
		conds = append(conds, column+" > "+a.add(q.After))
	}
	if len(conds) > 0 {
		where = " AND " + strings.Join(conds, " AND ")
	}

	dir := "DESC"
	if q.Ascending() {
		dir = "ASC"
	}
	tail = fmt.Sprintf(" ORDER BY %s %s, %s.id %s", column, dir, alias, dir)
	if q.Limit > 0 {
		tail += " LIMIT " + a.add(q.Limit)
	}
	return where, tail
}

// indexWindow renders the offset window of q.
func indexWindow(q paging.IndexQuery, a *args) string {
	tail := " OFFSET " + a.add(q.Offset)
	if q.Limit > 0 {
		tail += " LIMIT " + a.add(q.Limit)
	}
	return tail
}
