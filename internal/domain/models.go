package domain

import "encoding/json"

// SearchResult is the payload returned by the insights endpoint for a committed city.
// Raw holds the exact response body so it can be forwarded unchanged.
type SearchResult struct {
	City     string          `json:"city"`
	Insights []Insight       `json:"insights"`
	Raw      json.RawMessage `json:"-"`
}

// Insight is one analysed discussion thread
type Insight struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Score   int     `json:"score,omitempty"`
	Summary Summary `json:"summary"`
}

// Summary is the generated overview of a thread
type Summary struct {
	CityOverview       string           `json:"city_overview"`
	TopRecommendations []Recommendation `json:"top_recommendations,omitempty"`
}

// Recommendation is a single restaurant pick
type Recommendation struct {
	RestaurantName string `json:"restaurant_name"`
	PopularDish    string `json:"popular_dish"`
	Reason         string `json:"reason"`
}

// LoadingFlags tracks the two independent in-flight operations
type LoadingFlags struct {
	Searching bool
	Detecting bool
}

// Coordinates is a device position in decimal degrees
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Theme is the display theme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// MaxRecentCities bounds the recent searches list
const MaxRecentCities = 5

// DefaultTrendingCities is the fixed list offered before any search
var DefaultTrendingCities = []string{
	"Delhi",
	"Mumbai",
	"Bangalore",
	"Hyderabad",
	"Chennai",
	"Pune",
	"Kolkata",
	"Ahmedabad",
	"Jaipur",
	"Goa",
}
