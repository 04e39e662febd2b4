// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package websocket

import (
	"context"
	"errors"
	"testing"
	"time"
)

// startHub runs the hub in the background and returns a stop function
func startHub(t *testing.T, hub *Hub) func() {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	return func() {
		cancel()
		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("hub did not stop after context cancellation")
		}
	}
}

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.GetClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d clients, got %d", want, hub.GetClientCount())
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	stop := startHub(t, hub)
	defer stop()

	client := NewClient(hub, nil)
	hub.Register <- client
	waitForCount(t, hub, 1)

	hub.Unregister <- client
	waitForCount(t, hub, 0)

	// The send channel must be closed on unregister
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Error("send channel was not closed")
	}
}

func TestHub_BroadcastJSON(t *testing.T) {
	hub := NewHub()
	stop := startHub(t, hub)
	defer stop()

	first := NewClient(hub, nil)
	second := NewClient(hub, nil)
	hub.Register <- first
	hub.Register <- second
	waitForCount(t, hub, 2)

	hub.BroadcastJSON(MessageTypeFiresUpdate, map[string]int{"total": 42})

	for _, client := range []*Client{first, second} {
		select {
		case msg := <-client.send:
			if msg.Type != MessageTypeFiresUpdate {
				t.Errorf("expected fires_update, got %q", msg.Type)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := NewHub()
	stop := startHub(t, hub)
	defer stop()

	client := NewClient(hub, nil)
	hub.Register <- client
	waitForCount(t, hub, 1)

	// Fill the client's send buffer and then some; nobody is draining it
	for i := 0; i < cap(client.send)+10; i++ {
		hub.BroadcastJSON(MessageTypeFiresUpdate, i)
	}

	waitForCount(t, hub, 0)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	client := NewClient(hub, nil)
	hub.Register <- client
	waitForCount(t, hub, 1)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	if hub.GetClientCount() != 0 {
		t.Errorf("expected 0 clients after shutdown, got %d", hub.GetClientCount())
	}
}

func TestHub_BroadcastStatsUpdate(t *testing.T) {
	hub := NewHub()
	stop := startHub(t, hub)
	defer stop()

	client := NewClient(hub, nil)
	hub.Register <- client
	waitForCount(t, hub, 1)

	hub.BroadcastStatsUpdate(7, "2025-10-06T12:10:00Z")

	select {
	case msg := <-client.send:
		if msg.Type != MessageTypeStatsUpdate {
			t.Errorf("expected stats_update, got %q", msg.Type)
		}
		data, ok := msg.Data.(StatsUpdateData)
		if !ok {
			t.Fatalf("unexpected data type %T", msg.Data)
		}
		if data.TotalFires != 7 {
			t.Errorf("expected 7 fires, got %d", data.TotalFires)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("client did not receive stats update")
	}
}

func TestClient_UniqueIDs(t *testing.T) {
	hub := NewHub()
	a := NewClient(hub, nil)
	b := NewClient(hub, nil)
	if a.ID() == b.ID() {
		t.Error("expected distinct client IDs")
	}
	if b.ID() <= a.ID() {
		t.Error("expected monotonically increasing IDs")
	}
}
