// Package fx resolves historical daily exchange rates and converts
// monetary amounts between currencies. Rates are looked up per expense
// date (not at a single "today" rate) so older expenses keep their
// historically accurate conversions.
package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"outgo/internal/currency"
	apperrors "outgo/internal/errors"
)

// Converter fetches daily exchange rates from a frankfurter-compatible
// source and memoizes them in a RateCache. A single instance is shared
// across all aggregations in the process.
type Converter struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	cache      RateCache
}

// rateResponse is the daily-rate source's response shape:
// GET /{date}?from=USD&to=EUR -> {"rates": {"EUR": 0.9}, ...}.
type rateResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// NewConverter creates a Converter against the given base URL. A nil
// cache gets a fresh in-memory one.
func NewConverter(httpClient *http.Client, baseURL string, cache RateCache) *Converter {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Converter{httpClient: httpClient, baseURL: baseURL, cache: cache}
}

// GetRate resolves the exchange rate from one currency to another for a
// given date ("YYYY-MM-DD"). Identity pairs return 1 without any I/O.
// Otherwise the cache is consulted first; on a miss the upstream source
// is queried and the validated rate is cached. Failures wrap ErrFxLookup.
func (c *Converter) GetRate(ctx context.Context, date, from, to string) (float64, error) {
	f := currency.Normalize(from)
	t := currency.Normalize(to)
	if f == t {
		return 1, nil
	}

	key := CacheKey(date, f, t)
	if rate, ok := c.cache.Get(key); ok {
		return rate, nil
	}

	rate, err := c.fetchRate(ctx, date, f, t)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrFxLookup, err)
	}

	c.cache.Set(key, rate)
	return rate, nil
}

// Convert converts an amount between currencies at the given date's rate.
// Non-finite amounts convert to 0 (defensive no-op, not an error) and
// identity pairs return the amount unchanged.
func (c *Converter) Convert(ctx context.Context, date string, amount float64, from, to string) (float64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, nil
	}

	f := currency.Normalize(from)
	t := currency.Normalize(to)
	if f == t {
		return amount, nil
	}

	rate, err := c.GetRate(ctx, date, f, t)
	if err != nil {
		return 0, err
	}
	return amount * rate, nil
}

// fetchRate queries the daily-rate source for a single currency pair.
func (c *Converter) fetchRate(ctx context.Context, date, from, to string) (float64, error) {
	u := fmt.Sprintf("%s/%s?from=%s&to=%s", c.baseURL, date, url.QueryEscape(from), url.QueryEscape(to))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("building rate request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rate request for %s %s->%s: %w", date, from, to, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate request for %s %s->%s: unexpected status %d", date, from, to, resp.StatusCode)
	}

	var rr rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return 0, fmt.Errorf("decoding rate response for %s %s->%s: %w", date, from, to, err)
	}

	rate, ok := rr.Rates[to]
	if !ok {
		return 0, fmt.Errorf("rate for %s missing in response for %s", to, date)
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return 0, fmt.Errorf("invalid rate for %s %s->%s: %f", date, from, to, rate)
	}

	return rate, nil
}
