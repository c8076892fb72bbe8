package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"cityeats/internal/domain"
)

const (
	suggestionsPath = "/city_suggestions/"
	insightsPath    = "/insights/"
	userAgent       = "cityeats/1.0"
	maxBodyBytes    = 8 << 20
)

// ErrStatus matches any non-2xx response
var ErrStatus = errors.New("unexpected status")

// StatusError is returned when the endpoint answers with a non-2xx status
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d", e.URL, e.Code)
}

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// Options configures a Client
type Options struct {
	BaseURL            string
	Timeout            time.Duration
	SuggestionCacheTTL time.Duration // zero disables caching
	HTTPClient         *http.Client
	Logger             *slog.Logger
}

// Client talks to the suggestion and insights endpoints
type Client struct {
	baseURL     string
	http        *http.Client
	suggestions *cache.Cache
	inflight    singleflight.Group
	tracer      trace.Tracer
	logger      *slog.Logger
}

// New creates a client
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
		tracer:  otel.Tracer("cityeats/api"),
		logger:  logger.With(slog.String("component", "api")),
	}
	if opts.SuggestionCacheTTL > 0 {
		c.suggestions = cache.New(opts.SuggestionCacheTTL, 2*opts.SuggestionCacheTTL)
	}
	return c
}

// Normalize is the canonical form sent to every endpoint: trimmed and lowercased
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

type requestIDKey struct{}

// WithRequestID attaches a correlation ID that is sent as X-Request-ID
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

type suggestionsResponse struct {
	Results []string `json:"results"`
}

// Suggestions returns the city names the endpoint suggests for text, in response order.
// A response without "results" yields an empty, non-nil list.
func (c *Client) Suggestions(ctx context.Context, text string) ([]string, error) {
	query := Normalize(text)

	ctx, span := c.tracer.Start(ctx, "Suggestions", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	if c.suggestions != nil {
		if cached, ok := c.suggestions.Get(query); ok {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return clone(cached.([]string)), nil
		}
	}

	body, err := c.get(ctx, suggestionsPath+url.PathEscape(query))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "suggestion lookup failed")
		return nil, err
	}

	var resp suggestionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid suggestion payload")
		return nil, fmt.Errorf("failed to decode suggestions: %w", err)
	}
	results := resp.Results
	if results == nil {
		results = []string{}
	}

	if c.suggestions != nil {
		c.suggestions.Set(query, clone(results), cache.DefaultExpiration)
	}
	span.SetAttributes(attribute.Int("results", len(results)))
	return results, nil
}

// Insights fetches the insights payload for city.
// Concurrent lookups for the same normalised city share one request.
func (c *Client) Insights(ctx context.Context, city string) (domain.SearchResult, error) {
	name := Normalize(city)

	ctx, span := c.tracer.Start(ctx, "Insights", trace.WithAttributes(
		attribute.String("city", name),
	))
	defer span.End()

	v, err, shared := c.inflight.Do(name, func() (interface{}, error) {
		body, err := c.get(ctx, insightsPath+url.PathEscape(name))
		if err != nil {
			return domain.SearchResult{}, err
		}

		// Only city and the insights list are strict; each insight decodes leniently
		var result domain.SearchResult
		if err := json.Unmarshal(body, &result); err != nil {
			return domain.SearchResult{}, fmt.Errorf("failed to decode insights: %w", err)
		}
		if result.City == "" {
			result.City = name
		}
		result.Raw = json.RawMessage(body)
		return result, nil
	})
	span.SetAttributes(attribute.Bool("shared", shared))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insights lookup failed")
		return domain.SearchResult{}, err
	}

	result := v.(domain.SearchResult)
	span.SetAttributes(attribute.Int("insights", len(result.Insights)))
	return result, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID(ctx))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("remote call",
		slog.String("url", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{Code: resp.StatusCode, URL: endpoint}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", endpoint, err)
	}
	return body, nil
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
