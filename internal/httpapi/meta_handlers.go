package httpapi

import (
	"net/http"

	"coursehub-engine/internal/store"
)

type MetaHandler struct {
	Store  *store.Store
	Runner Runner
}

func (h MetaHandler) Categories(w http.ResponseWriter, r *http.Request) {
	h.distinct(w, r, "category")
}

func (h MetaHandler) SkillAreas(w http.ResponseWriter, r *http.Request) {
	h.distinct(w, r, "skill_area")
}

func (h MetaHandler) Providers(w http.ResponseWriter, r *http.Request) {
	h.distinct(w, r, "provider")
}

func (h MetaHandler) Sources(w http.ResponseWriter, r *http.Request) {
	names := h.Runner.SourceNames()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, map[string]any{"sources": names})
}

func (h MetaHandler) distinct(w http.ResponseWriter, r *http.Request, field string) {
	vals, err := h.Store.DistinctValues(r.Context(), field)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "meta_failed", err.Error())
		return
	}
	if vals == nil {
		vals = []string{}
	}
	writeJSON(w, map[string]any{"values": vals})
}
