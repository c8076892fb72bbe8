package location

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"cityeats/internal/domain"
)

// Errors a Provider reports
var (
	ErrUnavailable = errors.New("geolocation unavailable")
	ErrDenied      = errors.New("geolocation denied")
	ErrTimeout     = errors.New("geolocation timed out")
)

// Outcome tags how a detection settled
type Outcome int

const (
	Success Outcome = iota
	Unavailable
	Denied
	Timeout
	Undetermined
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Unavailable:
		return "unavailable"
	case Denied:
		return "denied"
	case Timeout:
		return "timeout"
	case Undetermined:
		return "undetermined"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the single value a detection produces
type Result struct {
	Outcome     Outcome
	City        string
	Coordinates domain.Coordinates
	Err         error
}

// Advisory is the one-time notice shown to the user, empty when none applies
func (r Result) Advisory() string {
	switch r.Outcome {
	case Unavailable:
		return "Geolocation is not supported on this device."
	case Denied, Timeout:
		return "Please allow location access to auto-detect your city."
	case Undetermined:
		return "Could not detect city accurately."
	default:
		return ""
	}
}

// Provider yields the device position
type Provider interface {
	Locate(ctx context.Context) (domain.Coordinates, error)
}

// ReverseGeocoder turns coordinates into a place description
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, at domain.Coordinates) (Place, error)
}

// Place holds the name fields a reverse geocode may return
type Place struct {
	City                 string `json:"city"`
	Locality             string `json:"locality"`
	PrincipalSubdivision string `json:"principalSubdivision"`
}

// CityName picks city, then locality, then principal subdivision; first non-empty wins
func (p Place) CityName() string {
	for _, name := range []string{p.City, p.Locality, p.PrincipalSubdivision} {
		if s := strings.TrimSpace(name); s != "" {
			return s
		}
	}
	return ""
}

// Detector runs one detection per Detect call.
// Mutual exclusion of overlapping calls is the caller's concern.
type Detector struct {
	provider Provider
	geocoder ReverseGeocoder
	timeout  time.Duration
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewDetector creates a detector. A nil provider means the platform has no location capability.
func NewDetector(provider Provider, geocoder ReverseGeocoder, timeout time.Duration, logger *slog.Logger) *Detector {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		provider: provider,
		geocoder: geocoder,
		timeout:  timeout,
		tracer:   otel.Tracer("cityeats/location"),
		logger:   logger.With(slog.String("component", "location")),
	}
}

// Detect acquires coordinates and reverse geocodes them into a city name
func (d *Detector) Detect(ctx context.Context) Result {
	ctx, span := d.tracer.Start(ctx, "Detect")
	defer span.End()

	res := d.detect(ctx)
	span.SetAttributes(attribute.String("outcome", res.Outcome.String()))
	if res.Err != nil {
		span.RecordError(res.Err)
	}
	return res
}

func (d *Detector) detect(ctx context.Context) Result {
	if d.provider == nil {
		return Result{Outcome: Unavailable, Err: ErrUnavailable}
	}

	locateCtx, cancel := context.WithTimeout(ctx, d.timeout)
	coords, err := d.provider.Locate(locateCtx)
	cancel()
	if err != nil {
		outcome := classify(err)
		d.logger.Warn("location access failed", slog.String("outcome", outcome.String()), slog.Any("error", err))
		return Result{Outcome: outcome, Err: err}
	}

	if d.geocoder == nil {
		return Result{Outcome: Undetermined, Coordinates: coords}
	}

	geoCtx, cancel := context.WithTimeout(ctx, d.timeout)
	place, err := d.geocoder.ReverseGeocode(geoCtx, coords)
	cancel()
	if err != nil {
		d.logger.Warn("reverse geocode failed", slog.Any("error", err))
		return Result{Outcome: Failed, Coordinates: coords, Err: err}
	}

	city := place.CityName()
	if city == "" {
		d.logger.Info("reverse geocode returned no usable name",
			slog.Float64("lat", coords.Latitude), slog.Float64("lon", coords.Longitude))
		return Result{Outcome: Undetermined, Coordinates: coords}
	}

	d.logger.Info("detected city", slog.String("city", city))
	return Result{Outcome: Success, City: city, Coordinates: coords}
}

func classify(err error) Outcome {
	switch {
	case errors.Is(err, ErrUnavailable):
		return Unavailable
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return Timeout
	case errors.Is(err, ErrDenied):
		return Denied
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return Timeout
	}
	return Denied
}
