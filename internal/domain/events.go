package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSearchStarted     EventType = "SearchStarted"
	EventSearchCompleted   EventType = "SearchCompleted"
	EventSearchFailed      EventType = "SearchFailed"
	EventNavigateToResults EventType = "NavigateToResults"
	EventLocationDetected  EventType = "LocationDetected"
	EventHistoryChanged    EventType = "HistoryChanged"
	EventThemeChanged      EventType = "ThemeChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SearchStartedEvent is emitted when a commit issues an insights lookup
type SearchStartedEvent struct {
	ID   string
	City string
}

func (e SearchStartedEvent) Type() EventType { return EventSearchStarted }

// SearchCompletedEvent is emitted when an insights lookup succeeds
type SearchCompletedEvent struct {
	ID       string
	City     string
	Insights int
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when an insights lookup fails
type SearchFailedEvent struct {
	ID   string
	City string
	Err  error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// NavigateToResultsEvent is emitted once per successful commit
type NavigateToResultsEvent struct {
	City   string
	Result SearchResult
}

func (e NavigateToResultsEvent) Type() EventType { return EventNavigateToResults }

// LocationDetectedEvent is emitted when a detection settles, whatever the outcome
type LocationDetectedEvent struct {
	Outcome string
	City    string
}

func (e LocationDetectedEvent) Type() EventType { return EventLocationDetected }

// HistoryChangedEvent is emitted after the recent list is persisted
type HistoryChangedEvent struct {
	Entries []string
}

func (e HistoryChangedEvent) Type() EventType { return EventHistoryChanged }

// ThemeChangedEvent is emitted when the display theme is toggled
type ThemeChangedEvent struct {
	Theme Theme
}

func (e ThemeChangedEvent) Type() EventType { return EventThemeChanged }
