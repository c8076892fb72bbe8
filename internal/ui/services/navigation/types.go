package navigation

// State holds the highlight over the suggestion list
type State struct {
	Items          []string
	Index          int // -1 when nothing is highlighted
	ViewportOffset int
	ViewportHeight int
}

// Direction represents movement directions
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)
