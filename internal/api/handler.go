package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/mtlprog/portfoliosync/internal/benchmark"
	"github.com/mtlprog/portfoliosync/internal/domain"
	"github.com/mtlprog/portfoliosync/internal/holdings"
	"github.com/mtlprog/portfoliosync/internal/quote"
	"github.com/mtlprog/portfoliosync/internal/report"
	"github.com/mtlprog/portfoliosync/internal/snapshot"
	"github.com/mtlprog/portfoliosync/internal/tag"
)

// Services groups the application services exposed over HTTP.
// Snapshots and Quotes are optional; their routes are not registered without them.
// Levels is optional; without it benchmarks are listed without index levels.
type Services struct {
	Reports   *report.Service
	Tags      *tag.Service
	Holdings  *holdings.Loader
	Snapshots *snapshot.Service
	Quotes    *quote.Service
	Registry  *benchmark.Registry
	Levels    benchmark.LevelSource
}

// Handler provides HTTP endpoints for the portfolio API.
type Handler struct {
	reports   *report.Service
	tags      *tag.Service
	holdings  *holdings.Loader
	snapshots *snapshot.Service
	quotes    *quote.Service
	registry  *benchmark.Registry
	levels    benchmark.LevelSource
}

// NewHandler creates a new API handler.
func NewHandler(svc Services) *Handler {
	if svc.Reports == nil || svc.Tags == nil || svc.Holdings == nil || svc.Registry == nil {
		panic("api.NewHandler: reports, tags, holdings and registry are required")
	}
	return &Handler{
		reports:   svc.Reports,
		tags:      svc.Tags,
		holdings:  svc.Holdings,
		snapshots: svc.Snapshots,
		quotes:    svc.Quotes,
		registry:  svc.Registry,
		levels:    svc.Levels,
	}
}

type benchmarkListing struct {
	domain.BenchmarkIndex
	Latest *domain.IndexPoint `json:"latest,omitempty"`
}

// ListBenchmarks handles GET /api/v1/benchmarks.
// Last-Modified carries the time the index levels were last refreshed.
func (h *Handler) ListBenchmarks(w http.ResponseWriter, _ *http.Request) {
	listings := lo.Map(h.registry.Indices(), func(idx domain.BenchmarkIndex, _ int) benchmarkListing {
		l := benchmarkListing{BenchmarkIndex: idx}
		if h.levels != nil {
			if p, ok := h.levels.Latest(idx.Symbol); ok {
				l.Latest = &p
			}
		}
		return l
	})
	if h.levels != nil {
		if t := h.levels.UpdatedAt(); !t.IsZero() {
			w.Header().Set("Last-Modified", t.UTC().Format(http.TimeFormat))
		}
	}
	writeJSON(w, http.StatusOK, listings)
}

// ListQuotes handles GET /api/v1/quotes.
func (h *Handler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quotes.Quotes(r.Context())
	if err != nil {
		writeServiceError(w, "list quotes", err)
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

// RefreshQuotes handles POST /api/v1/quotes/refresh.
func (h *Handler) RefreshQuotes(w http.ResponseWriter, r *http.Request) {
	if err := h.quotes.FetchAndStoreQuotes(r.Context()); err != nil {
		slog.Error("failed to refresh quotes", "error", err)
		writeError(w, http.StatusBadGateway, "failed to refresh quotes")
		return
	}
	h.ListQuotes(w, r)
}

// splitList parses a comma-separated query value, dropping blanks.
func splitList(raw string) []string {
	return lo.Compact(lo.Map(strings.Split(raw, ","), func(s string, _ int) string { return strings.TrimSpace(s) }))
}

func queryLimit(r *http.Request, def, max int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			return min(n, max)
		}
	}
	return def
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeServiceError maps domain errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, snapshot.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidOperation):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
