package search

import (
	"context"

	"cityeats/internal/domain"
	"cityeats/internal/location"
)

// InsightsFetcher performs the remote lookup a commit triggers
type InsightsFetcher interface {
	Insights(ctx context.Context, city string) (domain.SearchResult, error)
}

// LocationDetector resolves the device position into a city name
type LocationDetector interface {
	Detect(ctx context.Context) location.Result
}

// History is the recent-cities list
type History interface {
	Record(city string) []string
	Entries() []string
}

// Collaborator renders state and carries out navigation to the results view
type Collaborator interface {
	Render(Snapshot)
	Navigate(result domain.SearchResult)
	Advise(message string)
}

// State holds search state
type State struct {
	Query    string
	Loading  domain.LoadingFlags
	inflight int // insights lookups not yet settled
}

// Snapshot is everything the render surface needs
type Snapshot struct {
	Query          string
	Suggestions    []string
	Queried        bool
	HighlightIndex int
	WindowStart    int
	WindowEnd      int
	Loading        domain.LoadingFlags
	Recent         []string
	Trending       []string
}

// ResultMsg carries a settled insights lookup back into the event loop
type ResultMsg struct {
	ID     string
	City   string
	Result domain.SearchResult
	Err    error
}

// DetectMsg carries a settled location detection back into the event loop
type DetectMsg struct {
	Result location.Result
}
