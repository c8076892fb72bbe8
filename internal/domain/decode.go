package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// The fields below an insight are generated text and do not always keep their
// declared types. A field of the wrong shape degrades to its closest text form
// instead of failing the whole payload.

func (i *Insight) UnmarshalJSON(b []byte) error {
	fields, ok := objectFields(b)
	if !ok {
		*i = Insight{Title: text(b)}
		return nil
	}

	out := Insight{
		Title: text(fields["title"]),
		URL:   text(fields["url"]),
		Score: integer(fields["score"]),
	}
	if raw, ok := fields["summary"]; ok {
		_ = out.Summary.UnmarshalJSON(raw)
	}
	*i = out
	return nil
}

func (s *Summary) UnmarshalJSON(b []byte) error {
	fields, ok := objectFields(b)
	if !ok {
		*s = Summary{CityOverview: text(b)}
		return nil
	}

	out := Summary{CityOverview: text(fields["city_overview"])}
	for _, raw := range elements(fields["top_recommendations"]) {
		var rec Recommendation
		_ = rec.UnmarshalJSON(raw)
		if rec != (Recommendation{}) {
			out.TopRecommendations = append(out.TopRecommendations, rec)
		}
	}
	*s = out
	return nil
}

func (r *Recommendation) UnmarshalJSON(b []byte) error {
	fields, ok := objectFields(b)
	if !ok {
		*r = Recommendation{RestaurantName: text(b)}
		return nil
	}
	*r = Recommendation{
		RestaurantName: text(fields["restaurant_name"]),
		PopularDish:    text(fields["popular_dish"]),
		Reason:         text(fields["reason"]),
	}
	return nil
}

func objectFields(b []byte) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

// elements treats a single value as a one element list
func elements(raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	if string(raw) == "null" {
		return nil
	}
	return []json.RawMessage{raw}
}

// text renders a scalar as a string and a list as its items joined with ", ".
// Objects and null yield "".
func text(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch v := v.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range elements(raw) {
			if s := text(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

func integer(raw json.RawMessage) int {
	f, err := strconv.ParseFloat(text(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}
