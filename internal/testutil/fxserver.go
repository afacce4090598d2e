package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
)

// NewFxStubServer creates a test server imitating the daily-rate source.
// rates maps "date|FROM|TO" to the rate value; failDates lists dates that
// respond with HTTP 500 to simulate an unreachable source for that lookup.
func NewFxStubServer(rates map[string]float64, failDates ...string) *httptest.Server {
	failing := make(map[string]bool, len(failDates))
	for _, d := range failDates {
		failing[d] = true
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		date := strings.TrimPrefix(r.URL.Path, "/")
		if failing[date] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")

		out := map[string]float64{}
		if rate, ok := rates[date+"|"+from+"|"+to]; ok {
			out[to] = rate
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"base":  from,
			"date":  date,
			"rates": out,
		})
	}))
}
