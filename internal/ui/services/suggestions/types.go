package suggestions

import "context"

// Suggester returns the city names suggested for a partial query
type Suggester interface {
	Suggestions(ctx context.Context, text string) ([]string, error)
}

// State holds suggestion state
type State struct {
	Items      []string
	Queried    bool   // false until a response has been applied since the last clear
	Generation uint64 // bumped on every text change; only the latest may write Items
}

// DebounceMsg fires when the quiet period for a text change has elapsed
type DebounceMsg struct {
	Generation uint64
	Text       string
}

// ResultMsg carries a finished suggestion query back into the event loop
type ResultMsg struct {
	Generation uint64
	Text       string
	Items      []string
	Err        error
}
