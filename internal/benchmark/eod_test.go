package benchmark

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestEODFetchSeries(t *testing.T) {
	var gotPath, gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("api_token")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"date":"2024-01-02","open":7490,"close":7500.5,"volume":1},
			{"date":"2024-01-03","open":7500,"close":"7510.25","volume":1},
			{"date":"bad","close":1}
		]`))
	}))
	defer server.Close()

	client := NewEODClient(server.URL, "key", 100, 0, 0)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points, err := client.FetchSeries(context.Background(), SymbolASX200, from, from.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/eod/AXJO.INDX" {
		t.Errorf("path = %q, want /eod/AXJO.INDX", gotPath)
	}
	if gotToken != "key" {
		t.Errorf("api_token = %q, want key", gotToken)
	}
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2", len(points))
	}
	if !points[0].Value.Equal(dec("7500.5")) || !points[1].Value.Equal(dec("7510.25")) {
		t.Errorf("values = %s, %s", points[0].Value, points[1].Value)
	}
}

func TestEODRetryOn429(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[{"date":"2024-01-02","close":100}]`))
	}))
	defer server.Close()

	client := NewEODClient(server.URL, "key", 100, 10*time.Millisecond, 2)
	points, err := client.FetchSeries(context.Background(), SymbolSP500, time.Now(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if attempts != 2 || len(points) != 1 {
		t.Errorf("attempts = %d, points = %d, want 2 and 1", attempts, len(points))
	}
}

func TestEODRateLimitedExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewEODClient(server.URL, "key", 100, time.Millisecond, 1)
	_, err := client.FetchSeries(context.Background(), SymbolSP500, time.Now(), time.Now())
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("err = %v, want rate limited error", err)
	}
}

func TestEODServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewEODClient(server.URL, "key", 100, 0, 3)
	if _, err := client.FetchSeries(context.Background(), "^DJI", time.Now(), time.Now()); err == nil {
		t.Error("expected error for HTTP 500")
	}
}

func TestParseEODSeriesRejectsObject(t *testing.T) {
	if _, err := parseEODSeries([]byte(`{"error":"x"}`)); err == nil {
		t.Error("expected error for non-array payload")
	}
}

func TestEODTransportErrorHidesToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewEODClient(server.URL, "secret-token", 100, 0, 0)
	_, err := client.FetchTicker(context.Background(), "CBA.AU", time.Now(), time.Now())
	if err == nil {
		t.Fatal("expected transport error")
	}
	if strings.Contains(err.Error(), "secret-token") {
		t.Errorf("error leaks token: %v", err)
	}
	if !strings.Contains(err.Error(), "api_token=REDACTED") {
		t.Errorf("error = %v, want redacted URL", err)
	}
}

func TestEODNegativeRetriesStillRequestOnce(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewEODClient(server.URL, "key", 100, 0, -3)
	_, err := client.FetchTicker(context.Background(), "CBA.AU", time.Now(), time.Now())
	if err == nil {
		t.Fatal("expected rate limit error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}
