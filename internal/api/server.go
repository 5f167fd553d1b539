package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

// NewServer creates an HTTP server with all routes configured.
func NewServer(port string, svc Services, adminAPIKey string) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      NewMux(svc, adminAPIKey),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewMux registers the API routes. Mutations require the admin key when one is set.
func NewMux(svc Services, adminAPIKey string) *http.ServeMux {
	handler := NewHandler(svc)
	protect := func(h http.HandlerFunc) http.Handler {
		if adminAPIKey == "" {
			return h
		}
		return requireAuth(adminAPIKey, h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/benchmarks", handler.ListBenchmarks)

	mux.HandleFunc("GET /api/v1/portfolios/{id}/report", handler.GetReport)
	mux.HandleFunc("GET /api/v1/portfolios/{id}/summary", handler.GetSummary)
	mux.HandleFunc("GET /api/v1/portfolios/{id}/tags", handler.GetTagSummaries)
	mux.HandleFunc("GET /api/v1/portfolios/{id}/comparisons", handler.GetComparisons)
	mux.HandleFunc("GET /api/v1/portfolios/{id}/holdings", handler.GetHoldings)
	mux.HandleFunc("GET /api/v1/portfolios/{id}/export", handler.Export)

	registerHoldingRoutes(mux, "stocks", svc.Holdings.Stocks(), protect)
	registerHoldingRoutes(mux, "etfs", svc.Holdings.ETFs(), protect)
	registerHoldingRoutes(mux, "properties", svc.Holdings.Properties(), protect)

	mux.HandleFunc("GET /api/v1/tags", handler.ListTags)
	mux.HandleFunc("GET /api/v1/tags/{tagID}", handler.GetTag)
	mux.HandleFunc("POST /api/v1/tags/suggest", handler.SuggestTags)
	mux.Handle("POST /api/v1/tags", protect(handler.CreateTag))
	mux.Handle("PATCH /api/v1/tags/{tagID}", protect(handler.UpdateTag))
	mux.Handle("DELETE /api/v1/tags/{tagID}", protect(handler.DeleteTag))

	if svc.Snapshots != nil {
		mux.HandleFunc("GET /api/v1/portfolios/{id}/snapshots/latest", handler.GetLatestSnapshot)
		mux.HandleFunc("GET /api/v1/portfolios/{id}/snapshots/{date}", handler.GetSnapshotByDate)
		mux.HandleFunc("GET /api/v1/portfolios/{id}/snapshots", handler.ListSnapshots)
		mux.HandleFunc("GET /api/v1/portfolios/{id}/timeline", handler.GetTimeline)
		mux.HandleFunc("GET /api/v1/portfolios/{id}/growth", handler.GetGrowth)
		mux.HandleFunc("GET /api/v1/portfolios/{id}/risk", handler.GetRisk)
		mux.Handle("POST /api/v1/portfolios/{id}/snapshots/generate", protect(handler.GenerateSnapshot))
	}

	if svc.Quotes != nil {
		mux.HandleFunc("GET /api/v1/quotes", handler.ListQuotes)
		mux.Handle("POST /api/v1/quotes/refresh", protect(handler.RefreshQuotes))
	}

	return mux
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
