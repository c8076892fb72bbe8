package navigation

// DefaultViewportHeight is how many suggestions are visible at once
const DefaultViewportHeight = 8

// Service moves a highlight over the suggestion list with wraparound
type Service struct {
	state *State
}

// NewService creates a new navigation service
func NewService() *Service {
	return &Service{
		state: &State{
			Index:          -1,
			ViewportHeight: DefaultViewportHeight,
		},
	}
}

// SetItems replaces the list and clears the highlight
func (s *Service) SetItems(items []string) {
	s.state.Items = items
	s.Reset()
}

// Reset clears the highlight
func (s *Service) Reset() {
	s.state.Index = -1
	s.state.ViewportOffset = 0
}

// Items returns the list being navigated
func (s *Service) Items() []string {
	return s.state.Items
}

// Index returns the highlighted position, -1 when none
func (s *Service) Index() int {
	return s.state.Index
}

// Active reports whether there is anything to navigate
func (s *Service) Active() bool {
	return len(s.state.Items) > 0
}

// Highlighted returns the highlighted item
func (s *Service) Highlighted() (string, bool) {
	if s.state.Index < 0 || s.state.Index >= len(s.state.Items) {
		return "", false
	}
	return s.state.Items[s.state.Index], true
}

// Navigate handles navigation in a direction. An empty list ignores it.
func (s *Service) Navigate(direction Direction) {
	if !s.Active() {
		return
	}

	switch direction {
	case DirectionUp:
		s.moveUp()
	case DirectionDown:
		s.moveDown()
	}
	s.ensureVisible()
}

// Down moves the highlight forward, wrapping from last to first
func (s *Service) Down() { s.Navigate(DirectionDown) }

// Up moves the highlight back, wrapping from first to last
func (s *Service) Up() { s.Navigate(DirectionUp) }

// Commit resolves what Enter selects: the highlighted item, or the raw query when
// nothing is highlighted. fromList is true only for the former.
func (s *Service) Commit(query string) (city string, fromList bool) {
	if item, ok := s.Highlighted(); ok {
		return item, true
	}
	return query, false
}

// SetViewportHeight updates how many rows the list may occupy
func (s *Service) SetViewportHeight(height int) {
	if height < 1 {
		height = 1
	}
	s.state.ViewportHeight = height
	s.ensureVisible()
}

// Window returns the visible slice bounds [start, end)
func (s *Service) Window() (int, int) {
	start := s.state.ViewportOffset
	end := start + s.state.ViewportHeight
	if end > len(s.state.Items) {
		end = len(s.state.Items)
	}
	if start > end {
		start = end
	}
	return start, end
}

func (s *Service) moveDown() {
	s.state.Index = (s.state.Index + 1) % len(s.state.Items)
}

func (s *Service) moveUp() {
	if s.state.Index <= 0 {
		s.state.Index = len(s.state.Items) - 1
		return
	}
	s.state.Index--
}

func (s *Service) ensureVisible() {
	if s.state.Index < 0 {
		return
	}
	if s.state.Index < s.state.ViewportOffset {
		s.state.ViewportOffset = s.state.Index
	} else if s.state.Index >= s.state.ViewportOffset+s.state.ViewportHeight {
		s.state.ViewportOffset = s.state.Index - s.state.ViewportHeight + 1
	}
}
