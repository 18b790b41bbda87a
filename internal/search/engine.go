package search

import (
	"context"
	"fmt"

	"coursehub-engine/internal/domain"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Catalog is the read side of the catalog store. Search runs the data pass
// under sort/limit/offset and a count pass over the same clause list; the
// two are not required to be transactionally atomic with each other, so
// total may be momentarily stale under concurrent ingestion.
type Catalog interface {
	Search(ctx context.Context, q Query) (rows []domain.CourseRecord, total int, err error)
}

// Page is the derived result page. Every field is computed from the query;
// none is independently mutable.
type Page struct {
	Data        []domain.CourseRecord `json:"data"`
	Total       int                   `json:"total"`
	Page        int                   `json:"page"`
	TotalPages  int                   `json:"totalPages"`
	HasNextPage bool                  `json:"hasNextPage"`
	HasPrevPage bool                  `json:"hasPrevPage"`
}

type Engine struct {
	Catalog Catalog
}

// Search runs the filter spec against the catalog. Upstream validation is
// someone else's job; out-of-range paging here is a caller bug and fails
// loudly instead of being silently clamped.
func (e *Engine) Search(ctx context.Context, f Filters) (Page, error) {
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.Page < 1 {
		return Page{}, fmt.Errorf("search: page %d out of range (must be >= 1)", f.Page)
	}
	if f.Limit < 1 || f.Limit > MaxLimit {
		return Page{}, fmt.Errorf("search: limit %d out of range (must be 1..%d)", f.Limit, MaxLimit)
	}

	key, desc := resolveSort(f)
	q := Query{
		Clauses:  BuildClauses(f),
		SortKey:  key,
		SortDesc: desc,
		Limit:    f.Limit,
		Offset:   (f.Page - 1) * f.Limit,
	}

	rows, total, err := e.Catalog.Search(ctx, q)
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}

	totalPages := (total + f.Limit - 1) / f.Limit
	return Page{
		Data:        rows,
		Total:       total,
		Page:        f.Page,
		TotalPages:  totalPages,
		HasNextPage: f.Page < totalPages,
		HasPrevPage: f.Page > 1,
	}, nil
}
