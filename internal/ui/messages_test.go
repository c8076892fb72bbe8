package ui

import (
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cityeats/internal/domain"
	"cityeats/internal/eventbus"
)

func TestForwardEventsKeepsPublishOrder(t *testing.T) {
	bus := eventbus.New(nil)
	defer bus.Close()

	var mu sync.Mutex
	var got []string
	send := func(msg tea.Msg) {
		ev := msg.(EventMsg).Event.(domain.HistoryChangedEvent)
		mu.Lock()
		got = append(got, ev.Entries[0])
		mu.Unlock()
	}
	stop := ForwardEvents(bus, send, domain.EventHistoryChanged, domain.EventThemeChanged)

	want := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		city := fmt.Sprintf("City%d", i)
		want = append(want, city)
		bus.Publish(domain.HistoryChangedEvent{Entries: []string{city}})
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == len(want)
	}, time.Second, 5*time.Millisecond)
	mu.Lock()
	assert.Equal(t, want, got)
	mu.Unlock()

	stop()
	done := make(chan struct{})
	bus.Subscribe(domain.EventHistoryChanged, func(eventbus.DomainEvent) { close(done) })
	bus.Publish(domain.HistoryChangedEvent{Entries: []string{"late"}})
	<-done
	mu.Lock()
	assert.Len(t, got, len(want))
	mu.Unlock()
}
