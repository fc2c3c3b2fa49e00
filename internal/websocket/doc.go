// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

/*
Package websocket pushes live catalog and refresh events to dashboard
clients.

Key Components:

  - Hub: registers clients and fans broadcasts out to them
  - Client: one connection with a read and a write goroutine
  - Message: {"type": ..., "data": ...}
  - Hub.ItemDone: refresh.Observer, one refresh_item per finished series

Architecture:

	 API handlers        refresh.Orchestrator
	      |                      |
	 series_changed     refresh_item / refresh_completed
	      \                      /
	       +------> Hub <-------+
	                 |
	      +----------+----------+
	      |          |          |
	   Client1    Client2    Client3

Message Types:

  - series_changed: a series was created, updated, deleted or refreshed
  - refresh_item: one series finished in a refresh run (refreshed, failed,
    skipped or claim_error)
  - refresh_completed: a run finished, with its RunStats
  - ping / pong: application-level keepalive requested by the client

Broadcasts never block the caller: when the hub's queue is full the message
is dropped and logged. A client whose send buffer is full is disconnected.

Usage Example:

	hub := websocket.NewHub()
	tree.AddMessagingService(services.NewWebSocketService(hub))

	r.Get("/ws", hub.ServeWS(websocket.Upgrader(cfg.Security.CORSOrigins)))

	orch := refresh.New(claims, target, refresh.Options{Observer: hub})

Configuration:

  - writeWait: 10 seconds (time allowed to write message)
  - pongWait: 60 seconds (time allowed to read pong)
  - pingPeriod: 54 seconds (ping interval, must be < pongWait)
  - maxMessageSize: 64 KB (largest client message)
*/
package websocket
