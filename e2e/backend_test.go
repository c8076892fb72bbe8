//go:build e2e && unix

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeBackend stands in for the suggestion, insights and reverse geocode endpoints
type fakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	lookups  []string
	failCity string
}

var suggestionFixtures = map[string][]string{
	"hy":  {"Hyderabad"},
	"hyd": {"Hyderabad", "Hyderabad Deccan"},
	"pu":  {"Pune", "Puducherry"},
	"pun": {"Pune"},
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{}
	mux := http.NewServeMux()

	mux.HandleFunc("/city_suggestions/", func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimPrefix(r.URL.Path, "/city_suggestions/")
		writeJSON(w, map[string]any{"results": suggestionFixtures[q]})
	})

	mux.HandleFunc("/insights/", func(w http.ResponseWriter, r *http.Request) {
		city := strings.TrimPrefix(r.URL.Path, "/insights/")
		b.mu.Lock()
		b.lookups = append(b.lookups, city)
		fail := city == b.failCity
		b.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, map[string]any{
			"city": city,
			"insights": []map[string]any{{
				"title": "Must-try food in " + city,
				"url":   "https://reddit.com/r/" + city,
				"score": 128,
				"summary": map[string]any{
					"city_overview": "Locals swear by the street food.",
					"top_recommendations": []map[string]string{{
						"restaurant_name": "Paradise",
						"popular_dish":    "Biryani",
						"reason":          "a local institution",
					}},
				},
			}},
		})
	})

	mux.HandleFunc("/reverse-geocode", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"city": "", "locality": "Hyderabad", "principalSubdivision": "Telangana"})
	})

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

func (b *fakeBackend) Lookups() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.lookups...)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
