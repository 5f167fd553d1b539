package api

import (
	"net/http"

	"github.com/mtlprog/portfoliosync/internal/domain"
	"github.com/mtlprog/portfoliosync/internal/tag"
)

// ListTags handles GET /api/v1/tags, optionally filtered by ?ids= or ?category=.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	var (
		tags []domain.Tag
		err  error
	)
	q := r.URL.Query()
	switch {
	case q.Get("ids") != "":
		tags, err = h.tags.GetMany(r.Context(), splitList(q.Get("ids")))
	case q.Get("category") != "":
		category := domain.TagCategory(q.Get("category"))
		if !category.IsValid() {
			writeError(w, http.StatusBadRequest, "unknown tag category")
			return
		}
		tags, err = h.tags.ListByCategory(r.Context(), category)
	default:
		tags, err = h.tags.List(r.Context())
	}
	if err != nil {
		writeServiceError(w, "list tags", err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// GetTag handles GET /api/v1/tags/{tagID}.
func (h *Handler) GetTag(w http.ResponseWriter, r *http.Request) {
	t, err := h.tags.Get(r.Context(), r.PathValue("tagID"))
	if err != nil {
		writeServiceError(w, "get tag", err)
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "tag not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// CreateTag handles POST /api/v1/tags.
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var in tag.NewTag
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := h.tags.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, "create tag", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// UpdateTag handles PATCH /api/v1/tags/{tagID}.
func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var u tag.Update
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, err := h.tags.Update(r.Context(), r.PathValue("tagID"), u)
	if err != nil {
		writeServiceError(w, "update tag", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTag handles DELETE /api/v1/tags/{tagID}. Custom tags are archived.
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.tags.Delete(r.Context(), r.PathValue("tagID")); err != nil {
		writeServiceError(w, "delete tag", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SuggestTags handles POST /api/v1/tags/suggest.
func (h *Handler) SuggestTags(w http.ResponseWriter, r *http.Request) {
	var d tag.Draft
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tags, err := h.tags.Suggest(r.Context(), d)
	if err != nil {
		writeServiceError(w, "suggest tags", err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}
