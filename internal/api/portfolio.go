package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mtlprog/portfoliosync/internal/benchmark"
	"github.com/mtlprog/portfoliosync/internal/domain"
	"github.com/mtlprog/portfoliosync/internal/export"
	"github.com/mtlprog/portfoliosync/internal/tag"
)

// GetReport handles GET /api/v1/portfolios/{id}/report.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reports.Build(r.Context(), r.PathValue("id"), r.URL.Query().Get("benchmark"))
	if err != nil {
		writeServiceError(w, "build report", err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

type summaryResponse struct {
	Summary     domain.PortfolioSummary `json:"summary"`
	Composition domain.Composition      `json:"composition"`
	Warnings    []string                `json:"warnings,omitempty"`
}

// GetSummary handles GET /api/v1/portfolios/{id}/summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reports.Build(r.Context(), r.PathValue("id"), "")
	if err != nil {
		writeServiceError(w, "build summary", err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Summary:     rep.Summary,
		Composition: rep.Composition,
		Warnings:    rep.Warnings,
	})
}

// GetTagSummaries handles GET /api/v1/portfolios/{id}/tags.
func (h *Handler) GetTagSummaries(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reports.Build(r.Context(), r.PathValue("id"), "")
	if err != nil {
		writeServiceError(w, "build tag summaries", err)
		return
	}
	writeJSON(w, http.StatusOK, rep.TagSummaries)
}

// GetComparisons handles GET /api/v1/portfolios/{id}/comparisons.
// With ?period= it compares one period; otherwise it returns the key periods.
func (h *Handler) GetComparisons(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	symbol := r.URL.Query().Get("benchmark")

	p := r.URL.Query().Get("period")
	if p == "" {
		rep, err := h.reports.Build(r.Context(), id, symbol)
		if err != nil {
			writeServiceError(w, "compare", err)
			return
		}
		writeJSON(w, http.StatusOK, rep.Comparisons)
		return
	}

	period, err := benchmark.ParsePeriod(p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if symbol == "" {
		symbol = benchmark.SymbolASX200
	}
	perf, err := h.reports.Compare(r.Context(), id, symbol, period)
	if err != nil {
		writeServiceError(w, "compare", err)
		return
	}
	if perf == nil {
		writeError(w, http.StatusNotFound, "unknown benchmark")
		return
	}
	writeJSON(w, http.StatusOK, perf)
}

// GetHoldings handles GET /api/v1/portfolios/{id}/holdings?tags=a,b&match=all.
// Without match=all a holding carrying any of the tags is kept.
func (h *Handler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	hs, warnings, err := h.reports.Holdings(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, "load holdings", err)
		return
	}
	if raw := r.URL.Query().Get("tags"); raw != "" {
		ids := splitList(raw)
		matchAll := r.URL.Query().Get("match") == "all"
		hs = domain.Holdings{
			Stocks:     tag.FilterByTags(hs.Stocks, ids, matchAll),
			ETFs:       tag.FilterByTags(hs.ETFs, ids, matchAll),
			Properties: tag.FilterByTags(hs.Properties, ids, matchAll),
		}
	}
	writeJSON(w, http.StatusOK, struct {
		domain.Holdings
		Warnings []string `json:"warnings,omitempty"`
	}{hs, warnings})
}

// Export handles GET /api/v1/portfolios/{id}/export?kind=&format=.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind, err := export.ParseKind(valueOr(q.Get("kind"), string(export.KindAll)))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	format, err := export.ParseFormat(valueOr(q.Get("format"), string(export.FormatJSON)))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hs, _, err := h.reports.Holdings(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, "export", err)
		return
	}

	now := time.Now()
	var buf bytes.Buffer
	if err := export.Render(&buf, format, kind, hs, now, export.Options{}); err != nil {
		if errors.Is(err, export.ErrUnsupported) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeServiceError(w, "export", err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(kind, format, now)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
