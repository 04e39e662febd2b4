// Focomapa - Wildfire Hotspot Monitoring and Map Visualization
// Copyright 2026 Rafael T. (rafaeltp)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/focomapa/focomapa

package services

import "context"

// HubRunner matches the websocket hub's context-aware run loop.
type HubRunner interface {
	RunWithContext(ctx context.Context) error
}

// WebSocketHubService runs the websocket hub under supervision.
type WebSocketHubService struct {
	hub  HubRunner
	name string
}

// NewWebSocketHubService wraps a hub as a supervised service.
func NewWebSocketHubService(hub HubRunner) *WebSocketHubService {
	return &WebSocketHubService{
		hub:  hub,
		name: "websocket-hub",
	}
}

// Serve implements suture.Service.
func (s *WebSocketHubService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

// String implements fmt.Stringer for supervisor logging.
func (s *WebSocketHubService) String() string {
	return s.name
}
