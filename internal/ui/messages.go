package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"cityeats/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// ForwardEvents delivers events of the given types to send as EventMsg.
// send is called on the bus dispatcher, so events arrive in publish order.
// The returned func stops forwarding.
func ForwardEvents(bus eventbus.EventBus, send func(tea.Msg), types ...eventbus.EventType) func() {
	forward := func(e eventbus.DomainEvent) { send(EventMsg{Event: e}) }
	unsubs := make([]func(), 0, len(types))
	for _, t := range types {
		unsubs = append(unsubs, bus.Subscribe(t, forward))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	err error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
