package benchmark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/mtlprog/portfoliosync/internal/domain"
)

const (
	DefaultEODBaseURL   = "https://eodhd.com/api"
	DefaultEODRateLimit = 5 // requests per second
)

// indexTickers maps index symbols to EOD feed tickers.
var indexTickers = map[string]string{
	SymbolASX200: "AXJO.INDX",
	"^AORD":      "AORD.INDX",
	SymbolSP500:  "GSPC.INDX",
	"^IXIC":      "IXIC.INDX",
	"^DJI":       "DJI.INDX",
	"^FTSE":      "FTSE.INDX",
}

// EODClient fetches daily index closes from an EOD HTTP API.
type EODClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	delay      time.Duration
	maxRetries int
}

// NewEODClient creates a rate-limited EOD client. Rate-limited responses are retried
// up to maxRetries times with exponential backoff starting at delay.
func NewEODClient(baseURL, apiKey string, requestsPerSecond int, delay time.Duration, maxRetries int) *EODClient {
	if baseURL == "" {
		baseURL = DefaultEODBaseURL
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = DefaultEODRateLimit
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &EODClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		delay:      delay,
		maxRetries: maxRetries,
	}
}

// FetchSeries returns the closing levels of the index symbol between from and to, inclusive.
func (c *EODClient) FetchSeries(ctx context.Context, symbol string, from, to time.Time) ([]domain.IndexPoint, error) {
	ticker, ok := indexTickers[symbol]
	if !ok {
		ticker = strings.TrimPrefix(symbol, "^") + ".INDX"
	}
	return c.FetchTicker(ctx, ticker, from, to)
}

// FetchTicker returns the daily closes of an exchange ticker ("CBA.AU", "AAPL.US")
// between from and to, inclusive.
func (c *EODClient) FetchTicker(ctx context.Context, ticker string, from, to time.Time) ([]domain.IndexPoint, error) {
	params := url.Values{}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")
	params.Set("period", "d")
	params.Set("from", from.Format(time.DateOnly))
	params.Set("to", to.Format(time.DateOnly))
	reqURL := fmt.Sprintf("%s/eod/%s?%s", c.baseURL, url.PathEscape(ticker), params.Encode())

	body, err := c.fetchWithRetry(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("fetching %s series: %w", ticker, err)
	}

	points, err := parseEODSeries(body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s series: %w", ticker, err)
	}
	return points, nil
}

// parseEODSeries extracts date and close from a payload of the form
// [{"date":"2024-01-02","open":..,"close":7500.1,..}, ...].
func parseEODSeries(body []byte) ([]domain.IndexPoint, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	if _, ok := doc.([]any); !ok {
		return nil, fmt.Errorf("expected an array payload, got %T", doc)
	}

	dates, err := jsonList("$[*].date", doc)
	if err != nil {
		return nil, err
	}
	closes, err := jsonList("$[*].close", doc)
	if err != nil {
		return nil, err
	}
	if len(dates) != len(closes) {
		return nil, fmt.Errorf("mismatched series: %d dates, %d closes", len(dates), len(closes))
	}

	points := make([]domain.IndexPoint, 0, len(dates))
	for i := range dates {
		ds, ok := dates[i].(string)
		if !ok {
			continue
		}
		date, err := time.Parse(time.DateOnly, ds)
		if err != nil {
			continue
		}
		var value decimal.Decimal
		switch v := closes[i].(type) {
		case float64:
			value = decimal.NewFromFloat(v)
		case string:
			value = domain.SafeParse(v)
		default:
			continue
		}
		points = append(points, domain.IndexPoint{Date: date, Value: value})
	}
	return points, nil
}

func jsonList(path string, doc any) ([]any, error) {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", path, err)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("evaluating %s: expected a list, got %T", path, v)
	}
	return list, nil
}

func (c *EODClient) fetchWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	for attempt := range c.maxRetries + 1 {
		if attempt > 0 {
			baseDelay := c.delay
			if baseDelay == 0 {
				baseDelay = 2 * time.Second
			}
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating EOD request: %w", redactToken(err))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("EOD request failed: %w", redactToken(err))
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading EOD response: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			return body, nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("EOD rate limited (attempt %d/%d)", attempt+1, c.maxRetries+1)
			continue
		}

		return nil, fmt.Errorf("EOD HTTP %d: %s", resp.StatusCode, string(body))
	}

	return nil, lastErr
}

var apiTokenParam = regexp.MustCompile(`api_token=[^&]*`)

// redactToken removes the API token from the URL that *url.Error carries into messages.
func redactToken(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = apiTokenParam.ReplaceAllString(uerr.URL, "api_token=REDACTED")
	}
	return err
}
