// Package websocket pushes analysis lifecycle events to connected dashboard
// clients. The hub owns the client set; clients talk to it only through its
// channels.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"assesscli/internal/infrastructure"
)

// Message types pushed to clients
const (
	TypeConnection       = "connection"
	TypeAnalysisStarted  = "analysis:started"
	TypeAnalysisComplete = "analysis:complete"
	TypeAnalysisError    = "analysis:error"
	TypeExportComplete   = "export:complete"
)

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger

	totalConnections  int64
	activeConnections int64
	messagesSent      int64

	quit    chan struct{}
	running bool
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
	}
}

// Run processes register/unregister/broadcast events until Stop is called.
// Call it in its own goroutine.
func (h *Hub) Run() {
	h.mu.Lock()
	h.running = true
	h.mu.Unlock()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.totalConnections++
			h.activeConnections++
			h.mu.Unlock()
			h.logger.Info("websocket client connected",
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.activeConnections--
			}
			h.mu.Unlock()
			h.logger.Info("websocket client disconnected",
				slog.String("client_id", client.id))

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.messagesSent++
				default:
					// Slow client, drop it rather than block the hub
					delete(h.clients, client)
					close(client.send)
					h.activeConnections--
				}
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.activeConnections = 0
			h.running = false
			h.mu.Unlock()
			return
		}
	}
}

// Stop shuts down the hub and disconnects all clients
func (h *Hub) Stop() {
	h.mu.RLock()
	running := h.running
	h.mu.RUnlock()
	if running {
		close(h.quit)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a typed message with a payload to all clients
func (h *Hub) Broadcast(messageType string, data interface{}) {
	h.broadcastJSON(map[string]interface{}{
		"type":      messageType,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// BroadcastAnalysisStarted announces that an analysis run began
func (h *Hub) BroadcastAnalysisStarted(training, schedule, category string) {
	h.Broadcast(TypeAnalysisStarted, map[string]interface{}{
		"training": training,
		"schedule": schedule,
		"category": category,
	})
}

// BroadcastAnalysisComplete announces a finished analysis with its snapshot ID
func (h *Hub) BroadcastAnalysisComplete(training, schedule, category, snapshotID string) {
	h.Broadcast(TypeAnalysisComplete, map[string]interface{}{
		"training":    training,
		"schedule":    schedule,
		"category":    category,
		"snapshot_id": snapshotID,
	})
}

// BroadcastAnalysisError announces a failed analysis run
func (h *Hub) BroadcastAnalysisError(training, schedule, category, message string) {
	h.Broadcast(TypeAnalysisError, map[string]interface{}{
		"training": training,
		"schedule": schedule,
		"category": category,
		"message":  message,
	})
}

// broadcastJSON encodes and queues a message for every client
func (h *Hub) broadcastJSON(message map[string]interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to encode broadcast message",
			slog.String("error", err.Error()))
		return
	}
	select {
	case h.broadcast <- data:
	case <-time.After(time.Second):
		h.logger.Warn("broadcast queue full, message dropped",
			slog.String("type", toString(message["type"])))
	}
}

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}
