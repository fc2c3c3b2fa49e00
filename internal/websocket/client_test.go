// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dialHub starts an httptest server serving hub.ServeWS and connects to it.
func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(hub.ServeWS(Upgrader(nil)))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for hub.GetClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients, have %d", n, hub.GetClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServeWS_ReceivesBroadcast(t *testing.T) {
	t.Parallel()

	hub, _ := startHub(t)
	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	hub.BroadcastSeriesChanged(ActionRefreshed, 5, nil)

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var msg struct {
		Type string            `json:"type"`
		Data SeriesChangedData `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if msg.Type != MessageTypeSeriesChanged || msg.Data.SeriesID != 5 || msg.Data.Action != ActionRefreshed {
		t.Errorf("Unexpected message %+v", msg)
	}
}

func TestServeWS_PingPong(t *testing.T) {
	t.Parallel()

	hub, _ := startHub(t)
	conn := dialHub(t, hub)

	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatal(err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if msg.Type != MessageTypePong {
		t.Errorf("Expected pong, got %q", msg.Type)
	}
}

func TestServeWS_ClientDisconnectUnregisters(t *testing.T) {
	t.Parallel()

	hub, _ := startHub(t)
	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	_ = conn.Close()
	waitForClients(t, hub, 0)
}

func TestServeWS_HubStoppedClosesConnection(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	conn := dialHub(t, hub)
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected the connection to be closed by a stopped hub")
	}
}

func TestOriginAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origin  string
		host    string
		allowed []string
		want    bool
	}{
		{"no origin header", "", "api:8000", []string{"https://a.example"}, true},
		{"wildcard", "https://evil.example", "api:8000", []string{"*"}, true},
		{"listed", "https://a.example", "api:8000", []string{"https://a.example"}, true},
		{"not listed", "https://b.example", "api:8000", []string{"https://a.example"}, false},
		{"same host without list", "http://api:8000", "api:8000", nil, true},
		{"other host without list", "http://evil:8000", "api:8000", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := originAllowed(tt.origin, tt.host, tt.allowed); got != tt.want {
				t.Errorf("originAllowed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpgraderRejectsForeignOrigin(t *testing.T) {
	t.Parallel()

	hub, _ := startHub(t)
	server := httptest.NewServer(hub.ServeWS(Upgrader([]string{"https://a.example"})))
	t.Cleanup(server.Close)

	header := http.Header{}
	header.Set("Origin", "https://b.example")
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err == nil {
		_ = conn.Close()
		t.Fatal("Expected handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403, got %v", resp)
	}
}

func TestClientConstants(t *testing.T) {
	t.Parallel()

	if pingPeriod >= pongWait {
		t.Errorf("pingPeriod %v must be shorter than pongWait %v", pingPeriod, pongWait)
	}
}
