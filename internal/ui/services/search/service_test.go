package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cityeats/internal/api"
	"cityeats/internal/domain"
	"cityeats/internal/eventbus"
	"cityeats/internal/history"
	"cityeats/internal/location"
	"cityeats/internal/storage"
	"cityeats/internal/ui/services/suggestions"
)

type fakeSuggester map[string][]string

func (f fakeSuggester) Suggestions(_ context.Context, text string) ([]string, error) {
	return f[text], nil
}

type fakeInsights struct {
	mu     sync.Mutex
	cities []string
	err    error
}

func (f *fakeInsights) Insights(_ context.Context, city string) (domain.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cities = append(f.cities, city)
	if f.err != nil {
		return domain.SearchResult{}, f.err
	}
	return domain.SearchResult{City: api.Normalize(city), Insights: []domain.Insight{{Title: "t"}}}, nil
}

func newInsightsServer(t *testing.T, requestID *atomic.Value) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID.Store(r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{"city":"jaipur","insights":[]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

type detectorFunc func(ctx context.Context) location.Result

func (f detectorFunc) Detect(ctx context.Context) location.Result { return f(ctx) }

type recorder struct {
	renders   []Snapshot
	navigated []domain.SearchResult
	advised   []string
}

func (r *recorder) Render(s Snapshot)                   { r.renders = append(r.renders, s) }
func (r *recorder) Navigate(result domain.SearchResult) { r.navigated = append(r.navigated, result) }
func (r *recorder) Advise(message string)               { r.advised = append(r.advised, message) }

type fixture struct {
	svc      *Service
	insights *fakeInsights
	history  *history.Store
	view     *recorder
}

func newFixture(t *testing.T, detector LocationDetector) *fixture {
	t.Helper()
	f := &fixture{
		insights: &fakeInsights{},
		history:  history.NewStore(history.NewKVRepository(storage.NewMemoryStore()), history.DefaultLimit, nil),
		view:     &recorder{},
	}
	ids := 0
	f.svc = NewService(Deps{
		Suggestions: suggestions.NewService(fakeSuggester{
			"hyd": {"Hyderabad", "Hyderabad Deccan"},
		}, suggestions.Options{Debounce: time.Millisecond}),
		Insights:     f.insights,
		Detector:     detector,
		History:      f.history,
		Trending:     domain.DefaultTrendingCities,
		Collaborator: f.view,
		NewID: func() string {
			ids++
			return fmt.Sprintf("commit-%d", ids)
		},
	})
	return f
}

// run executes cmd and feeds results back until the chain ends
func (f *fixture) run(cmd tea.Cmd) {
	for cmd != nil {
		cmd, _ = f.svc.Update(cmd())
	}
}

func TestTypeHighlightAndCommitSuggestion(t *testing.T) {
	f := newFixture(t, nil)

	f.run(f.svc.SetQuery("hyd"))
	snap := f.svc.Snapshot()
	require.Equal(t, []string{"Hyderabad", "Hyderabad Deccan"}, snap.Suggestions)
	assert.Equal(t, -1, snap.HighlightIndex)

	f.svc.Down()
	assert.Equal(t, 0, f.svc.Snapshot().HighlightIndex)

	cmd := f.svc.Enter()
	require.NotNil(t, cmd)
	snap = f.svc.Snapshot()
	assert.True(t, snap.Loading.Searching)
	assert.Empty(t, snap.Suggestions)
	assert.Equal(t, "Hyderabad", snap.Query)

	f.run(cmd)

	assert.Equal(t, []string{"Hyderabad"}, f.insights.cities)
	assert.Equal(t, []string{"Hyderabad"}, f.history.Entries())
	require.Len(t, f.view.navigated, 1)
	assert.Equal(t, "hyderabad", f.view.navigated[0].City)
	assert.False(t, f.svc.Loading().Searching)
}

func TestEnterWithoutHighlightCommitsTypedText(t *testing.T) {
	f := newFixture(t, nil)

	f.run(f.svc.SetQuery("hyd"))
	f.run(f.svc.Enter())

	assert.Equal(t, []string{"hyd"}, f.insights.cities)
	assert.Equal(t, []string{"hyd"}, f.history.Entries())
}

func TestCommitBlankIsNoop(t *testing.T) {
	f := newFixture(t, nil)
	f.svc.SetQuery("   ")
	renders := len(f.view.renders)

	assert.Nil(t, f.svc.Commit(""))
	assert.Nil(t, f.svc.Commit("  "))

	assert.Empty(t, f.insights.cities)
	assert.False(t, f.svc.Loading().Searching)
	assert.Len(t, f.view.renders, renders)
}

func TestCommitFailureDoesNotNavigate(t *testing.T) {
	f := newFixture(t, nil)
	f.insights.err = errors.New("502 from backend")

	f.run(f.svc.Commit("Pune"))

	assert.False(t, f.svc.Loading().Searching)
	assert.Empty(t, f.view.navigated)
	assert.Empty(t, f.history.Entries())
}

func TestOverlappingCommitsClearSearchingOnlyWhenAllSettle(t *testing.T) {
	f := newFixture(t, nil)

	first := f.svc.Commit("Delhi")
	second := f.svc.Commit("Mumbai")

	f.svc.Update(second())
	assert.True(t, f.svc.Loading().Searching)
	f.svc.Update(first())
	assert.False(t, f.svc.Loading().Searching)

	// last response to arrive wins the navigation
	require.Len(t, f.view.navigated, 2)
	assert.Equal(t, "delhi", f.view.navigated[1].City)
	assert.Equal(t, []string{"Delhi", "Mumbai"}, f.history.Entries())
}

func TestSelectChipBypassesDebounce(t *testing.T) {
	f := newFixture(t, nil)

	f.run(f.svc.Select("Goa"))

	assert.Equal(t, []string{"Goa"}, f.insights.cities)
	assert.Equal(t, "Goa", f.svc.Snapshot().Query)
	assert.Len(t, f.view.navigated, 1)
}

func TestCommitSendsCommitIDAsRequestID(t *testing.T) {
	var got atomic.Value
	srv := newInsightsServer(t, &got)

	f := newFixture(t, nil)
	f.svc.insights = api.New(api.Options{BaseURL: srv.URL})
	f.run(f.svc.Commit("Jaipur"))

	assert.Equal(t, "commit-1", got.Load())
	require.Len(t, f.view.navigated, 1)
	assert.Equal(t, "jaipur", f.view.navigated[0].City)
}

func TestDetectLocationFillsQuery(t *testing.T) {
	f := newFixture(t, detectorFunc(func(context.Context) location.Result {
		return location.Result{Outcome: location.Success, City: "hyd"}
	}))

	cmd := f.svc.DetectLocation()
	require.NotNil(t, cmd)
	assert.True(t, f.svc.Loading().Detecting)
	assert.Nil(t, f.svc.DetectLocation(), "rejected while detecting")

	f.run(cmd)

	snap := f.svc.Snapshot()
	assert.False(t, snap.Loading.Detecting)
	assert.Equal(t, "hyd", snap.Query)
	assert.Equal(t, []string{"Hyderabad", "Hyderabad Deccan"}, snap.Suggestions)
	assert.Empty(t, f.insights.cities, "detection does not commit")
	assert.Empty(t, f.view.advised)
}

func TestDetectLocationAdvisories(t *testing.T) {
	cases := []struct {
		outcome location.Outcome
		want    []string
	}{
		{location.Denied, []string{"Please allow location access to auto-detect your city."}},
		{location.Timeout, []string{"Please allow location access to auto-detect your city."}},
		{location.Unavailable, []string{"Geolocation is not supported on this device."}},
		{location.Undetermined, []string{"Could not detect city accurately."}},
		{location.Failed, nil},
	}
	for _, tc := range cases {
		t.Run(tc.outcome.String(), func(t *testing.T) {
			f := newFixture(t, detectorFunc(func(context.Context) location.Result {
				return location.Result{Outcome: tc.outcome}
			}))
			f.run(f.svc.DetectLocation())

			assert.False(t, f.svc.Loading().Detecting)
			assert.Equal(t, tc.want, f.view.advised)
			assert.Empty(t, f.svc.Snapshot().Query)
		})
	}
}

func TestDetectWithoutDetectorIsUnavailable(t *testing.T) {
	f := newFixture(t, nil)
	f.run(f.svc.DetectLocation())

	assert.Equal(t, []string{"Geolocation is not supported on this device."}, f.view.advised)
	assert.False(t, f.svc.Loading().Detecting)
}

func TestCloseSuggestions(t *testing.T) {
	f := newFixture(t, nil)
	f.run(f.svc.SetQuery("hyd"))
	f.svc.Down()

	assert.True(t, f.svc.CloseSuggestions())
	snap := f.svc.Snapshot()
	assert.Empty(t, snap.Suggestions)
	assert.Equal(t, -1, snap.HighlightIndex)
	assert.False(t, f.svc.CloseSuggestions())
}

func TestSuccessfulCommitPublishesEvents(t *testing.T) {
	bus := eventbus.New(nil)
	defer bus.Close()

	var navigations, histories atomic.Int32
	bus.Subscribe(domain.EventNavigateToResults, func(eventbus.DomainEvent) { navigations.Add(1) })
	bus.Subscribe(domain.EventHistoryChanged, func(eventbus.DomainEvent) { histories.Add(1) })

	f := newFixture(t, nil)
	f.svc.bus = bus
	f.run(f.svc.Commit("Kolkata"))

	require.Eventually(t, func() bool {
		return navigations.Load() == 1 && histories.Load() == 1
	}, time.Second, 5*time.Millisecond)
}
