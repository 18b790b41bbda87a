package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"coursehub-engine/internal/domain"
	"coursehub-engine/internal/search"
	"coursehub-engine/internal/store"
)

type CoursesHandler struct {
	Engine *search.Engine
	Store  *store.Store
}

// Search maps query parameters onto the filter spec and returns one result
// page. Bad parameter values are 400s; the engine's own range checks come
// back as 400s too.
func (h CoursesHandler) Search(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	page, err := h.Engine.Search(r.Context(), f)
	if err != nil {
		if strings.Contains(err.Error(), "out of range") {
			WriteError(w, r, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		WriteError(w, r, http.StatusInternalServerError, "search_failed", err.Error())
		return
	}
	if page.Data == nil {
		page.Data = []domain.CourseRecord{} // never serialize null
	}
	writeJSON(w, page)
}

func (h CoursesHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/courses/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "course id required")
		return
	}

	rec, err := h.Store.FindCourseByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, "not_found", "course not found")
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "lookup_failed", err.Error())
		return
	}
	writeJSON(w, rec)
}

func parseFilters(r *http.Request) (search.Filters, error) {
	q := r.URL.Query()
	f := search.Filters{
		Query:     q.Get("q"),
		Category:  q.Get("category"),
		SkillArea: q.Get("skillArea"),
		Provider:  q.Get("provider"),
		Location:  q.Get("location"),
		Frequency: splitCSV(q.Get("frequency")),
		Mode:      splitCSV(q.Get("mode")),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	var err error
	if f.MinPrice, err = parseFloatParam(q.Get("minPrice"), "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parseFloatParam(q.Get("maxPrice"), "maxPrice"); err != nil {
		return f, err
	}
	if f.StartDate, err = parseDateParam(q.Get("startDate"), "startDate"); err != nil {
		return f, err
	}
	if f.EndDate, err = parseDateParam(q.Get("endDate"), "endDate"); err != nil {
		return f, err
	}
	if f.Page, err = parseIntParam(q.Get("page"), "page"); err != nil {
		return f, err
	}
	if f.Limit, err = parseIntParam(q.Get("limit"), "limit"); err != nil {
		return f, err
	}
	f.AvailableSeats = q.Get("availableSeats") == "true"
	return f, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloatParam(s, name string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errInvalidParam(name, s)
	}
	return &v, nil
}

func parseIntParam(s, name string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errInvalidParam(name, s)
	}
	return v, nil
}

func errInvalidParam(name, val string) error {
	return fmt.Errorf("invalid %s value %q", name, val)
}

func parseDateParam(s, name string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, errInvalidParam(name, s)
}
