package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coursehub-engine/internal/domain"
	"coursehub-engine/internal/search"
)

// whitelisted predicate columns (prevents SQL injection); the text field is
// rendered specially.
var clauseColumns = map[string]string{
	search.FieldCategory:       "category",
	search.FieldSkillArea:      "skill_area",
	search.FieldProvider:       "provider",
	search.FieldPriceAfter:     "price_after_subsidy",
	search.FieldStartDate:      "start_date",
	search.FieldEndDate:        "end_date",
	search.FieldFrequency:      "frequency",
	search.FieldMode:           "mode",
	search.FieldLocation:       "location",
	search.FieldAvailableSeats: "available_seats",
}

// whitelisted sort expressions; rating and popularity are derived from the
// review and save side tables rather than stored on the course row.
var sortExprs = map[string]string{
	search.SortPrice:      "price_after_subsidy",
	search.SortStartDate:  "start_date",
	search.SortSubsidy:    "subsidy_percentage",
	search.SortRating:     "(SELECT COALESCE(AVG(r.rating), 0) FROM reviews r WHERE r.course_id = courses.id)",
	search.SortPopularity: "(SELECT COUNT(*) FROM saved_courses sc WHERE sc.course_id = courses.id)",
}

// Search runs the data and count passes for one query. Both passes render
// the same clause list; they are two statements, so the total can trail the
// page briefly under concurrent ingestion, which is accepted.
func (s *Store) Search(ctx context.Context, q search.Query) ([]domain.CourseRecord, int, error) {
	where, args, err := renderClauses(q.Clauses)
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM courses` + where + `;`
	if err := s.Pool.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	sortExpr := sortExprs[q.SortKey]
	if sortExpr == "" {
		sortExpr = sortExprs[search.SortStartDate]
	}
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}

	dataQuery := fmt.Sprintf(`SELECT %s FROM courses%s ORDER BY %s %s LIMIT ? OFFSET ?;`,
		courseColumns, where, sortExpr, dir)
	dataArgs := append(append([]any{}, args...), q.Limit, q.Offset)

	rows, err := s.Pool.QueryContext(ctx, dataQuery, dataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("search courses: %w", err)
	}
	defer rows.Close()

	var out []domain.CourseRecord
	for rows.Next() {
		rec, err := scanCourse(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// renderClauses turns the typed clause list into a WHERE fragment with
// placeholders. Every value travels as an argument; only whitelisted column
// names reach the SQL text.
func renderClauses(clauses []search.Clause) (where string, args []any, err error) {
	if len(clauses) == 0 {
		return "", nil, nil
	}

	var frags []string
	for _, c := range clauses {
		if c.Op == search.OpText {
			frag, a, err := renderTextClause(c)
			if err != nil {
				return "", nil, err
			}
			frags = append(frags, frag)
			args = append(args, a...)
			continue
		}

		col := clauseColumns[c.Field]
		if col == "" {
			return "", nil, fmt.Errorf("render clause: unknown field %q", c.Field)
		}
		if len(c.Args) == 0 {
			return "", nil, fmt.Errorf("render clause: %s has no arguments", c.Field)
		}

		switch c.Op {
		case search.OpEq:
			frags = append(frags, col+" = ?")
			args = append(args, bindArg(c.Args[0]))
		case search.OpGte:
			frags = append(frags, col+" >= ?")
			args = append(args, bindArg(c.Args[0]))
		case search.OpLte:
			frags = append(frags, col+" <= ?")
			args = append(args, bindArg(c.Args[0]))
		case search.OpGt:
			frags = append(frags, col+" > ?")
			args = append(args, bindArg(c.Args[0]))
		case search.OpContains:
			frags = append(frags, col+" LIKE ?")
			args = append(args, like(c.Args[0]))
		case search.OpIn:
			ph := strings.TrimSuffix(strings.Repeat("?,", len(c.Args)), ",")
			frags = append(frags, col+" IN ("+ph+")")
			for _, a := range c.Args {
				args = append(args, bindArg(a))
			}
		default:
			return "", nil, fmt.Errorf("render clause: unsupported op %q on %s", c.Op, c.Field)
		}
	}

	return " WHERE " + strings.Join(frags, " AND "), args, nil
}

// renderTextClause matches the free-text query against title/description:
// a plain substring hit on either, or every token appearing somewhere in the
// combined text.
func renderTextClause(c search.Clause) (string, []any, error) {
	if len(c.Args) != 1 {
		return "", nil, fmt.Errorf("render clause: text query wants 1 argument, got %d", len(c.Args))
	}
	q, ok := c.Args[0].(string)
	if !ok || strings.TrimSpace(q) == "" {
		return "", nil, fmt.Errorf("render clause: text query must be a non-empty string")
	}

	frag := "(title LIKE ? OR description LIKE ?"
	args := []any{like(q), like(q)}

	if tokens := strings.Fields(q); len(tokens) > 1 {
		var tokFrags []string
		for _, tok := range tokens {
			tokFrags = append(tokFrags, "(title || ' ' || description) LIKE ?")
			args = append(args, like(tok))
		}
		frag += " OR (" + strings.Join(tokFrags, " AND ") + ")"
	}
	return frag + ")", args, nil
}

func like(v any) string {
	return "%" + fmt.Sprint(v) + "%"
}

// bindArg converts clause values to their stored representation.
func bindArg(v any) any {
	if t, ok := v.(time.Time); ok {
		return fmtTime(t)
	}
	return v
}
