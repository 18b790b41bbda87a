// Package search turns a filter request into a typed, storage-agnostic
// predicate plus sort/pagination, and assembles the result page. The clause
// list is rendered to real query syntax by the storage layer; nothing here
// concatenates query strings.
package search

import (
	"time"
)

// Predicate fields. The storage layer whitelists these against columns.
const (
	FieldText           = "text" // title OR description
	FieldCategory       = "category"
	FieldSkillArea      = "skill_area"
	FieldProvider       = "provider"
	FieldPriceAfter     = "price_after_subsidy"
	FieldStartDate      = "start_date"
	FieldEndDate        = "end_date"
	FieldFrequency      = "frequency"
	FieldMode           = "mode"
	FieldLocation       = "location"
	FieldAvailableSeats = "available_seats"
)

// Clause operators.
type Op string

const (
	OpEq       Op = "eq"
	OpContains Op = "contains" // case-insensitive substring
	OpGte      Op = "gte"
	OpLte      Op = "lte"
	OpGt       Op = "gt"
	OpIn       Op = "in"
	OpText     Op = "text" // substring OR all-tokens match
)

// Clause is one typed predicate carrying its own parameters. Clauses combine
// with AND; set-valued filters (frequency, mode) are OR within their single
// IN clause.
type Clause struct {
	Field string
	Op    Op
	Args  []any
}

// Sort keys as requested by callers.
const (
	SortPrice      = "price"
	SortRating     = "rating"
	SortStartDate  = "startDate"
	SortPopularity = "popularity"
	SortSubsidy    = "subsidyPercentage"
)

// Query is what the catalog storage executes: the same clause list feeds
// both the data query (with sort/limit/offset) and the count query.
type Query struct {
	Clauses  []Clause
	SortKey  string
	SortDesc bool
	Limit    int
	Offset   int
}

// Filters is the per-request search specification. All filters are optional
// and conjunctive. Zero values mean "not provided".
type Filters struct {
	Query          string
	Category       string
	SkillArea      string
	Provider       string
	MinPrice       *float64
	MaxPrice       *float64
	StartDate      *time.Time
	EndDate        *time.Time
	Frequency      []string
	Mode           []string
	Location       string
	AvailableSeats bool

	SortBy    string
	SortOrder string // asc | desc
	Page      int    // >= 1
	Limit     int    // 1..100
}

// BuildClauses maps provided filters onto the clause list.
func BuildClauses(f Filters) []Clause {
	var cs []Clause
	add := func(field string, op Op, args ...any) {
		cs = append(cs, Clause{Field: field, Op: op, Args: args})
	}

	if f.Query != "" {
		add(FieldText, OpText, f.Query)
	}
	if f.Category != "" {
		add(FieldCategory, OpEq, f.Category)
	}
	if f.SkillArea != "" {
		add(FieldSkillArea, OpEq, f.SkillArea)
	}
	if f.Provider != "" {
		add(FieldProvider, OpContains, f.Provider)
	}
	if f.MinPrice != nil {
		add(FieldPriceAfter, OpGte, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add(FieldPriceAfter, OpLte, *f.MaxPrice)
	}
	if f.StartDate != nil {
		add(FieldStartDate, OpGte, *f.StartDate)
	}
	if f.EndDate != nil {
		add(FieldEndDate, OpLte, *f.EndDate)
	}
	if len(f.Frequency) > 0 {
		add(FieldFrequency, OpIn, toAny(f.Frequency)...)
	}
	if len(f.Mode) > 0 {
		add(FieldMode, OpIn, toAny(f.Mode)...)
	}
	if f.Location != "" {
		add(FieldLocation, OpContains, f.Location)
	}
	if f.AvailableSeats {
		add(FieldAvailableSeats, OpGt, 0)
	}
	return cs
}

// resolveSort maps the requested key onto a known one; anything unknown or
// empty sorts by start date, ascending unless desc was asked for.
func resolveSort(f Filters) (key string, desc bool) {
	switch f.SortBy {
	case SortPrice, SortRating, SortStartDate, SortPopularity, SortSubsidy:
		key = f.SortBy
	default:
		key = SortStartDate
	}
	return key, f.SortOrder == "desc"
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
