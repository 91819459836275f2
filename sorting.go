package petrag

import (
	"fmt"
	"slices"
	"strings"
)

type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// RunSortableFields lists the run columns a listing can be ordered by.
var RunSortableFields = []string{"created", "quality_average", "rewrites"}

const maxListLimit = 100

type SortParams struct {
	Limit int
	By    string
	Order SortOrder
}

func (p SortParams) Empty() bool {
	return p.Limit == 0 && p.By == "" && p.Order == ""
}

func (p SortParams) Valid(sortableBy []string) bool {
	if p.Limit < 0 || p.Limit > maxListLimit {
		return false
	}

	if p.By != "" && !slices.Contains(sortableBy, p.By) {
		return false
	}

	switch p.Order {
	case "", SortOrderAsc, SortOrderDesc:
	default:
		return false
	}

	return true
}

// OrDefault returns newest first with the maximum page size when no sorting was requested.
func (p SortParams) OrDefault() SortParams {
	if p.Empty() {
		return SortParams{Limit: maxListLimit, By: "created", Order: SortOrderDesc}
	}
	if p.Limit == 0 {
		p.Limit = maxListLimit
	}
	return p
}

func (p SortParams) SQL() string {
	var s string

	if p.By != "" {
		s += fmt.Sprintf(" order by %s", p.By)
		if p.Order != "" {
			s += fmt.Sprintf(" %s", strings.ToLower(string(p.Order)))
		}
	}

	if p.Limit > 0 {
		s += fmt.Sprintf(" limit %d", p.Limit)
	}

	return s
}
