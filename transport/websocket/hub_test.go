package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/wricardo/letterboxed/game/service"
)

func newTestHub() *Hub {
	return NewHub(zerolog.Nop())
}

func TestNewHub(t *testing.T) {
	hub := newTestHub()

	if hub.dates == nil {
		t.Error("Hub dates map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels not initialized")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := newTestHub()

	client := &Client{
		hub:  hub,
		date: "2024-01-01",
		send: make(chan []byte, 256),
	}
	hub.registerClient(client)

	if !hub.dates["2024-01-01"][client] {
		t.Error("Client was not registered for its date")
	}
	if len(hub.dates["2024-01-01"]) != 1 {
		t.Errorf("Expected 1 client for date, got %d", len(hub.dates["2024-01-01"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := newTestHub()

	client := &Client{
		hub:  hub,
		date: "2024-01-01",
		send: make(chan []byte, 256),
	}
	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.dates["2024-01-01"]; exists {
		t.Error("Date group should be cleaned up after last client unregistered")
	}
}

func TestHubMultipleClientsPerDate(t *testing.T) {
	hub := newTestHub()

	client1 := &Client{hub: hub, date: "2024-01-01", send: make(chan []byte, 256)}
	client2 := &Client{hub: hub, date: "2024-01-01", send: make(chan []byte, 256)}
	hub.registerClient(client1)
	hub.registerClient(client2)

	if len(hub.dates["2024-01-01"]) != 2 {
		t.Errorf("Expected 2 clients, got %d", len(hub.dates["2024-01-01"]))
	}

	hub.unregisterClient(client1)
	if len(hub.dates["2024-01-01"]) != 1 {
		t.Errorf("Expected 1 client remaining, got %d", len(hub.dates["2024-01-01"]))
	}
	if !hub.dates["2024-01-01"][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastMessage_DateIsolation(t *testing.T) {
	hub := newTestHub()

	subscribed := &Client{hub: hub, date: "2024-01-01", send: make(chan []byte, 256)}
	other := &Client{hub: hub, date: "2024-01-02", send: make(chan []byte, 256)}
	hub.registerClient(subscribed)
	hub.registerClient(other)

	hub.broadcastMessage(&Message{
		Date:  "2024-01-01",
		Event: "state_update",
		State: &service.StateInfo{Date: "2024-01-01", CurrentWord: "OP"},
	})

	select {
	case data := <-subscribed.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.Date != "2024-01-01" || message.Event != "state_update" {
			t.Errorf("Unexpected message envelope: %+v", message)
		}
		if message.State == nil || message.State.CurrentWord != "OP" {
			t.Errorf("State not correctly transmitted: %+v", message.State)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No message received within timeout")
	}

	select {
	case <-other.send:
		t.Error("Client for another date must not receive the broadcast")
	default:
	}
}

func newWSTestServer(hub *Hub) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			date = "2024-01-01"
		}
		hub.ServeWS(w, r, date)
	}))
}

func TestWebSocketUpgradeAndCleanup(t *testing.T) {
	hub := newTestHub()
	go hub.Run()

	server := newWSTestServer(hub)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?date=2024-01-01"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if len(hub.dates["2024-01-01"]) != 1 {
		t.Errorf("Expected 1 client registered, got %d", len(hub.dates["2024-01-01"]))
	}

	conn.Close()
	time.Sleep(50 * time.Millisecond)
	if _, exists := hub.dates["2024-01-01"]; exists {
		t.Error("Date group should be cleaned up after WebSocket close")
	}
}

func TestWebSocketReceivesStateBroadcast(t *testing.T) {
	hub := newTestHub()
	go hub.Run()

	server := newWSTestServer(hub)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?date=2024-01-01"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)
	hub.BroadcastState("2024-01-01", &service.StateInfo{
		Date:           "2024-01-01",
		CompletedWords: []string{"OP"},
		CurrentWord:    "P",
	})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, messageData, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var message Message
	if err := json.Unmarshal(messageData, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if message.Date != "2024-01-01" {
		t.Errorf("Expected date 2024-01-01, got %s", message.Date)
	}
	if message.State == nil || message.State.CurrentWord != "P" || len(message.State.CompletedWords) != 1 {
		t.Errorf("State not correctly received: %+v", message.State)
	}
}
