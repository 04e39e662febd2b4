// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

// Package websocket pushes live fire-data updates to connected map
// clients. The hub fans broadcasts out to every client; slow clients
// are dropped rather than allowed to back up the hub.
package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/focomapa/focomapa/internal/logging"
	"github.com/focomapa/focomapa/internal/metrics"
)

// Message types for WebSocket communication
const (
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
	MessageTypeFiresUpdate = "fires_update"
	MessageTypeStatsUpdate = "stats_update"
)

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext runs the hub until the context is canceled, at which
// point all connected clients are closed and ctx.Err() is returned.
// Designed for suture supervision: a restart starts from a clean
// client set with no orphaned connections.
//
// Lifecycle events take priority over broadcasts so client state is
// always consistent before a message fans out.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Shutdown first, non-blocking
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		// Lifecycle events next, non-blocking
		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()

		case client := <-h.Register:
			h.register(client)

		case client := <-h.Unregister:
			h.unregister(client)

		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (h *Hub) String() string {
	return "websocket-hub"
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketConnections.Set(float64(total))
	logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

// shutdown closes every client and logs the reason. Context
// cancellation is expected during graceful shutdown, so it is not
// logged as an error.
func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	count := len(h.clients)
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.mu.Unlock()

	metrics.WebSocketConnections.Set(0)

	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", reason).
		Int("clients_closed", count).
		Msg("websocket hub stopped")
}

// broadcastToClients fans a message out to all clients in a stable
// order. Clients whose send buffer is full are dropped; a stalled map
// client must not delay the rest.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
			metrics.WebSocketMessagesSent.Inc()
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
	if len(toRemove) > 0 {
		logging.Warn().Int("dropped_clients", len(toRemove)).Msg("dropped slow websocket clients")
	}
}

// BroadcastJSON sends a typed message to all connected clients.
// Non-blocking; the message is dropped when the broadcast buffer is
// full.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	message := Message{
		Type: messageType,
		Data: data,
	}

	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// StatsUpdateData is the payload for stats_update messages.
type StatsUpdateData struct {
	Timestamp  string `json:"timestamp"`
	TotalFires int    `json:"total_fires"`
	LastUpdate string `json:"last_update,omitempty"`
}

// BroadcastStatsUpdate notifies all clients that snapshot statistics changed
func (h *Hub) BroadcastStatsUpdate(totalFires int, lastUpdate string) {
	h.BroadcastJSON(MessageTypeStatsUpdate, StatsUpdateData{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		TotalFires: totalFires,
		LastUpdate: lastUpdate,
	})
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
