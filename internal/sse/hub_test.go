package sse

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/QuotaPit_Go/internal/event"
	"github.com/osse101/QuotaPit_Go/internal/testing/leaktest"
)

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, time.Second, 5*time.Millisecond)
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case evt, ok := <-c.EventChannel:
		require.True(t, ok, "client channel closed")
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case evt := <-c.EventChannel:
		t.Fatalf("unexpected event %s for game %q", evt.Type, evt.GameID)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestHub_FiltersByGameAndType(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	hub := NewHub()
	hub.Start()

	all := hub.Register("", nil)
	gameA := hub.Register("a", nil)
	spinsOnly := hub.Register("", []string{string(event.SpinResolved), " "})
	waitForClients(t, hub, 3)

	hub.Broadcast(string(event.Deposited), "a", map[string]int{"amount": 5})

	evt := receive(t, all)
	assert.Equal(t, string(event.Deposited), evt.Type)
	assert.Equal(t, "a", evt.GameID)
	assert.NotEmpty(t, evt.ID)

	evt = receive(t, gameA)
	assert.Equal(t, "a", evt.GameID)
	assertNoEvent(t, spinsOnly)

	hub.Broadcast(string(event.SpinResolved), "b", nil)

	assert.Equal(t, "b", receive(t, all).GameID)
	assert.Equal(t, string(event.SpinResolved), receive(t, spinsOnly).Type)
	assertNoEvent(t, gameA)

	hub.Unregister(gameA.ID)
	waitForClients(t, hub, 2)
	_, open := <-gameA.EventChannel
	assert.False(t, open)

	hub.Stop()
	hub.Stop()
	assert.Zero(t, hub.ClientCount())

	_, open = <-all.EventChannel
	assert.False(t, open)

	checker.Check(0)
}

func TestHub_SlowClientDoesNotBlock(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	slow := hub.Register("", nil)
	waitForClients(t, hub, 1)

	for i := 0; i < ClientEventBuffer*2; i++ {
		hub.Broadcast("tick", "", i)
	}

	require.Eventually(t, func() bool { return len(slow.EventChannel) == ClientEventBuffer }, time.Second, 5*time.Millisecond)
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "1", Type: "game.deposit", GameID: "g", Timestamp: 10, Payload: map[string]int{"amount": 3}})
	require.NoError(t, err)

	lines := strings.Split(string(msg), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "id: 1", lines[0])
	assert.Equal(t, "event: game.deposit", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "data: "))
	assert.Empty(t, lines[3])

	var decoded Event
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(lines[2], "data: ")), &decoded))
	assert.Equal(t, "g", decoded.GameID)

	keepalive, err := FormatSSEMessage(Event{Type: EventTypeKeepalive})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(keepalive), "event: keepalive\n"))
}

func TestSubscriber_ForwardsGameEvents(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	bus := event.NewMemoryBus()
	NewSubscriber(hub, bus).Subscribe()

	client := hub.Register("g-1", nil)
	waitForClients(t, hub, 1)

	require.NoError(t, bus.Publish(context.Background(), event.NewDepositEvent("g-1", 4, 4, 20)))
	require.NoError(t, bus.Publish(context.Background(), event.NewDepositEvent("g-2", 9, 9, 20)))

	evt := receive(t, client)
	assert.Equal(t, string(event.Deposited), evt.Type)
	payload, ok := evt.Payload.(event.DepositPayloadV1)
	require.True(t, ok)
	assert.Equal(t, 4, payload.Amount)
	assertNoEvent(t, client)
}
