package broadcast

import (
	"testing"
	"time"

	"tresraya/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, ch <-chan models.Event) models.Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return models.Event{}
	}
}

func collect(sub *Subscription, t models.EventType) <-chan models.Event {
	ch := make(chan models.Event, 8)
	sub.On(t, func(ev models.Event) { ch <- ev })
	return ch
}

func TestPublishReachesOtherSubscribers(t *testing.T) {
	hub := NewHub()
	a := hub.Connect("room1", "p1")
	b := hub.Connect("room1", "p2")
	defer a.Close()
	defer b.Close()

	got := collect(b, models.EventMove)

	board := models.Board{}
	board[0] = models.SymbolX
	hub.Publish(a, models.Event{
		Type:          models.EventMove,
		Board:         &board,
		CurrentPlayer: models.SymbolO,
	})

	ev := waitFor(t, got)
	assert.Equal(t, models.EventMove, ev.Type)
	assert.Equal(t, "room1", ev.RoomID)
	require.NotNil(t, ev.Board)
	assert.Equal(t, models.SymbolX, ev.Board[0])
	assert.Equal(t, models.SymbolO, ev.CurrentPlayer)
}

func TestPublishExcludesSender(t *testing.T) {
	hub := NewHub()
	a := hub.Connect("room1", "p1")
	b := hub.Connect("room1", "p2")
	defer a.Close()
	defer b.Close()

	echo := collect(a, EventAny)
	got := collect(b, EventAny)

	hub.Publish(a, models.Event{Type: models.EventGameReset})

	waitFor(t, got)
	select {
	case <-echo:
		t.Fatal("sender received its own event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishScopedToRoom(t *testing.T) {
	hub := NewHub()
	a := hub.Connect("room1", "p1")
	other := hub.Connect("room2", "p9")
	defer a.Close()
	defer other.Close()

	leaked := collect(other, EventAny)

	hub.Publish(a, models.Event{Type: models.EventGameReset})

	select {
	case <-leaked:
		t.Fatal("event leaked across rooms")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastIncludesEveryone(t *testing.T) {
	hub := NewHub()
	a := hub.Connect("room1", "p1")
	b := hub.Connect("room1", "p2")
	defer a.Close()
	defer b.Close()

	gotA := collect(a, models.EventPlayerJoined)
	gotB := collect(b, models.EventPlayerJoined)

	hub.Broadcast("room1", models.Event{
		Type:     models.EventPlayerJoined,
		PlayerID: "p2",
		Symbol:   models.SymbolO,
	})

	assert.Equal(t, "p2", waitFor(t, gotA).PlayerID)
	assert.Equal(t, "p2", waitFor(t, gotB).PlayerID)
}

func TestOffDeregistersHandlers(t *testing.T) {
	hub := NewHub()
	a := hub.Connect("room1", "p1")
	b := hub.Connect("room1", "p2")
	defer a.Close()
	defer b.Close()

	got := collect(b, models.EventMove)
	b.Off(models.EventMove)

	hub.Publish(a, models.Event{Type: models.EventMove})

	select {
	case <-got:
		t.Fatal("handler fired after Off")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	hub := NewHub()
	a := hub.Connect("room1", "p1")
	a.Close()
	a.Close()

	// Publishing after disconnect reaches nobody and does not panic.
	hub.Broadcast("room1", models.Event{Type: models.EventGameReset})
}
