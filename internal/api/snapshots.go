package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mtlprog/portfoliosync/internal/snapshot"
)

// GetLatestSnapshot handles GET /api/v1/portfolios/{id}/snapshots/latest.
func (h *Handler) GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	s, err := h.snapshots.GetLatest(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no snapshots found")
			return
		}
		slog.Error("failed to get latest snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// GetSnapshotByDate handles GET /api/v1/portfolios/{id}/snapshots/{date}.
func (h *Handler) GetSnapshotByDate(w http.ResponseWriter, r *http.Request) {
	dateStr := r.PathValue("date")
	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	s, err := h.snapshots.GetByDate(r.Context(), r.PathValue("id"), date)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			writeError(w, http.StatusNotFound, "snapshot not found for date")
			return
		}
		slog.Error("failed to get snapshot by date", "date", dateStr, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// ListSnapshots handles GET /api/v1/portfolios/{id}/snapshots.
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.snapshots.List(r.Context(), r.PathValue("id"), queryLimit(r, 30, 365))
	if err != nil {
		slog.Error("failed to list snapshots", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, snapshots)
}

// GetTimeline handles GET /api/v1/portfolios/{id}/timeline.
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	points, err := h.snapshots.Timeline(r.Context(), r.PathValue("id"), queryLimit(r, 90, 1825))
	if err != nil {
		writeServiceError(w, "timeline", err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// GetGrowth handles GET /api/v1/portfolios/{id}/growth?since=YYYY-MM-DD.
func (h *Handler) GetGrowth(w http.ResponseWriter, r *http.Request) {
	since, err := time.Parse(time.DateOnly, r.URL.Query().Get("since"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid since date, expected YYYY-MM-DD")
		return
	}
	g, err := h.snapshots.GrowthSince(r.Context(), r.PathValue("id"), since)
	if err != nil {
		writeServiceError(w, "growth", err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// GetRisk handles GET /api/v1/portfolios/{id}/risk?limit=N.
func (h *Handler) GetRisk(w http.ResponseWriter, r *http.Request) {
	m, err := h.snapshots.Risk(r.Context(), r.PathValue("id"), queryLimit(r, 365, 1825))
	if err != nil {
		writeServiceError(w, "risk", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GenerateSnapshot handles POST /api/v1/portfolios/{id}/snapshots/generate.
func (h *Handler) GenerateSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := h.snapshots.Generate(r.Context(), r.PathValue("id"), time.Now().UTC())
	if err != nil {
		slog.Error("failed to generate snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate snapshot")
		return
	}
	writeJSON(w, http.StatusOK, data)
}
