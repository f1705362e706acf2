package core

// projector.go derives the displayed rows from the canonical dataset.
//
// The projection is always rebuilt from scratch as
//
//	Project(rows, term, sort) = sort(filter(rows, term))
//
// so a filter change never loses the active sort and no step depends on the
// previous projection.

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Project filters rows by term and sorts the result by cfg.
// The returned slice is always freshly allocated; rows is not modified.
func Project(rows []Row, term string, cfg SortConfig) []Row {
	out := Filter(rows, term)
	SortRows(out, cfg)
	return out
}

// Filter returns the rows where any cell contains term, ignoring case.
// A blank term matches every row. Null cells never match.
func Filter(rows []Row, term string) []Row {
	term = strings.TrimSpace(term)
	if term == "" {
		return slices.Clone(rows)
	}

	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if rowMatches(r, needle, fold) {
			out = append(out, r)
		}
	}
	return out
}

func rowMatches(r Row, needle string, fold cases.Caser) bool {
	for _, v := range r.Cells {
		if v == nil {
			continue
		}
		if strings.Contains(fold.String(Display(v)), needle) {
			return true
		}
	}
	return false
}

// SortRows stable-sorts rows in place by cfg. A zero cfg leaves the order
// untouched.
func SortRows(rows []Row, cfg SortConfig) {
	if cfg.IsZero() {
		return
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		c := CompareValues(a.Get(cfg.Column), b.Get(cfg.Column))
		if cfg.Direction == Descending {
			return -c
		}
		return c
	})
}

// NextSort returns the sort that results from clicking the header of column.
// A new column sorts ascending; clicking the ascending column flips it to
// descending, and a descending column stays descending.
func NextSort(cur SortConfig, column string) SortConfig {
	if cur.Column != column {
		return SortConfig{Column: column, Direction: Ascending}
	}
	return SortConfig{Column: column, Direction: Descending}
}

// CompareValues orders two cell values.
//
// Every value falls into one of four ranks, compared in this order: blanks
// (nil or whitespace-only text), numbers (including numeric text), bools and
// other text. Values of different ranks never compare equal. Within a rank,
// numbers compare numerically, bools with false before true and text
// lexicographically.
func CompareValues(a, b Value) int {
	ra, rb := rankOf(a), rankOf(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case rankNumber:
		x, _ := toNumber(a)
		y, _ := toNumber(b)
		return cmp.Compare(x, y)
	case rankBool:
		return cmp.Compare(boolRank(a.(bool)), boolRank(b.(bool)))
	case rankText:
		return strings.Compare(Display(a), Display(b))
	}
	return 0
}

const (
	rankBlank = iota
	rankNumber
	rankBool
	rankText
)

func rankOf(v Value) int {
	switch val := v.(type) {
	case nil:
		return rankBlank
	case float64:
		return rankNumber
	case bool:
		return rankBool
	case string:
		if strings.TrimSpace(val) == "" {
			return rankBlank
		}
		if _, ok := toNumber(val); ok {
			return rankNumber
		}
	}
	return rankText
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
