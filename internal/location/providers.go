package location

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"cityeats/internal/domain"
)

// StaticProvider reports a fixed position, e.g. from configuration
type StaticProvider struct {
	At domain.Coordinates
}

func (p StaticProvider) Locate(ctx context.Context) (domain.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return p.At, nil
}

// IPProvider estimates the position from an IP geolocation endpoint.
// Both {"latitude","longitude"} and {"lat","lon"} response shapes are accepted.
type IPProvider struct {
	URL    string
	Client *http.Client
}

type ipResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
}

func (p IPProvider) Locate(ctx context.Context) (domain.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient(p.Client).Do(req)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("ip lookup: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusTooManyRequests:
		return domain.Coordinates{}, fmt.Errorf("%w: ip lookup returned %d", ErrDenied, resp.StatusCode)
	case resp.StatusCode == http.StatusGatewayTimeout:
		return domain.Coordinates{}, fmt.Errorf("%w: ip lookup returned %d", ErrTimeout, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return domain.Coordinates{}, fmt.Errorf("ip lookup returned %d", resp.StatusCode)
	}

	var body ipResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return domain.Coordinates{}, fmt.Errorf("ip lookup: decode: %w", err)
	}
	switch {
	case body.Latitude != nil && body.Longitude != nil:
		return domain.Coordinates{Latitude: *body.Latitude, Longitude: *body.Longitude}, nil
	case body.Lat != nil && body.Lon != nil:
		return domain.Coordinates{Latitude: *body.Lat, Longitude: *body.Lon}, nil
	default:
		return domain.Coordinates{}, fmt.Errorf("%w: ip lookup returned no coordinates", ErrUnavailable)
	}
}

// BigDataCloud reverse geocodes with the reverse-geocode-client endpoint
type BigDataCloud struct {
	URL      string
	Language string
	Client   *http.Client
}

func (g BigDataCloud) ReverseGeocode(ctx context.Context, at domain.Coordinates) (Place, error) {
	u, err := url.Parse(g.URL)
	if err != nil {
		return Place{}, fmt.Errorf("invalid reverse geocode url: %w", err)
	}
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(at.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(at.Longitude, 'f', -1, 64))
	lang := g.Language
	if lang == "" {
		lang = "en"
	}
	q.Set("localityLanguage", lang)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Place{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient(g.Client).Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Place{}, fmt.Errorf("reverse geocode returned %d", resp.StatusCode)
	}

	var place Place
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&place); err != nil {
		return Place{}, fmt.Errorf("reverse geocode: decode: %w", err)
	}
	return place, nil
}

func httpClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return http.DefaultClient
}
