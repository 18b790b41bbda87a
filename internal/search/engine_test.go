package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursehub-engine/internal/domain"
)

type fakeCatalog struct {
	lastQuery Query
	rows      []domain.CourseRecord
	total     int
}

func (f *fakeCatalog) Search(_ context.Context, q Query) ([]domain.CourseRecord, int, error) {
	f.lastQuery = q
	n := q.Limit
	if q.Offset >= len(f.rows) {
		return nil, f.total, nil
	}
	if q.Offset+n > len(f.rows) {
		n = len(f.rows) - q.Offset
	}
	return f.rows[q.Offset : q.Offset+n], f.total, nil
}

func mkRows(n int) []domain.CourseRecord {
	out := make([]domain.CourseRecord, n)
	for i := range out {
		out[i].ID = string(rune('a' + i))
	}
	return out
}

func TestBuildClausesOnlyProvidedFilters(t *testing.T) {
	min := 100.0
	cs := BuildClauses(Filters{
		Query:          "python",
		Provider:       "tech",
		MinPrice:       &min,
		Mode:           []string{domain.ModeOnline},
		Frequency:      []string{domain.FreqEvening, domain.FreqWeekend},
		AvailableSeats: true,
	})

	require.Len(t, cs, 6)
	byField := map[string]Clause{}
	for _, c := range cs {
		byField[c.Field] = c
	}
	assert.Equal(t, OpText, byField[FieldText].Op)
	assert.Equal(t, OpContains, byField[FieldProvider].Op)
	assert.Equal(t, OpGte, byField[FieldPriceAfter].Op)
	assert.Equal(t, []any{domain.FreqEvening, domain.FreqWeekend}, byField[FieldFrequency].Args)
	assert.Equal(t, OpIn, byField[FieldMode].Op)
	assert.Equal(t, OpGt, byField[FieldAvailableSeats].Op)

	assert.Empty(t, BuildClauses(Filters{}))
}

func TestSearchPageMath(t *testing.T) {
	cat := &fakeCatalog{rows: mkRows(5), total: 5}
	eng := &Engine{Catalog: cat}

	for p := 1; p <= 3; p++ {
		page, err := eng.Search(context.Background(), Filters{Page: p, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, 5, page.Total)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, p < 3, page.HasNextPage, "page %d", p)
		assert.Equal(t, p > 1, page.HasPrevPage, "page %d", p)
	}

	page, err := eng.Search(context.Background(), Filters{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 2, cat.lastQuery.Offset)
}

func TestSearchDefaultsPageAndLimit(t *testing.T) {
	cat := &fakeCatalog{rows: mkRows(3), total: 3}
	eng := &Engine{Catalog: cat}

	page, err := eng.Search(context.Background(), Filters{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultLimit, cat.lastQuery.Limit)
	assert.Equal(t, 0, cat.lastQuery.Offset)
}

func TestSearchRejectsOutOfRangePaging(t *testing.T) {
	eng := &Engine{Catalog: &fakeCatalog{}}

	_, err := eng.Search(context.Background(), Filters{Page: -1})
	assert.Error(t, err)

	_, err = eng.Search(context.Background(), Filters{Limit: 101})
	assert.Error(t, err)

	_, err = eng.Search(context.Background(), Filters{Limit: -5})
	assert.Error(t, err)
}

func TestSearchSortResolution(t *testing.T) {
	cat := &fakeCatalog{}
	eng := &Engine{Catalog: cat}

	_, err := eng.Search(context.Background(), Filters{SortBy: SortPopularity, SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, SortPopularity, cat.lastQuery.SortKey)
	assert.True(t, cat.lastQuery.SortDesc)

	// unknown sort key falls back to start date ascending
	_, err = eng.Search(context.Background(), Filters{SortBy: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, SortStartDate, cat.lastQuery.SortKey)
	assert.False(t, cat.lastQuery.SortDesc)
}

func TestSearchDateFilterClauses(t *testing.T) {
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 2, 0)
	cs := BuildClauses(Filters{StartDate: &from, EndDate: &to})
	require.Len(t, cs, 2)
	assert.Equal(t, FieldStartDate, cs[0].Field)
	assert.Equal(t, OpGte, cs[0].Op)
	assert.Equal(t, FieldEndDate, cs[1].Field)
	assert.Equal(t, OpLte, cs[1].Op)
}
