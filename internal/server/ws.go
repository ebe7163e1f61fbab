package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/handpong/internal/detector"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LandmarksMessage is one broadcast of the cached tracking state.
type LandmarksMessage struct {
	Hands      []detector.HandLandmarks `json:"hands"`
	HandSeen   bool                     `json:"hand_seen"`
	LastSeenMs int64                    `json:"last_seen_ms"`
	Timestamp  int64                    `json:"timestamp"`
}

// LandmarksHandler broadcasts cached hand landmarks via WebSocket.
type LandmarksHandler struct {
	source   Source
	interval time.Duration
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
}

// NewLandmarksHandler creates a LandmarksHandler. Broadcasting starts
// with Run.
func NewLandmarksHandler(source Source, interval time.Duration) *LandmarksHandler {
	return &LandmarksHandler{
		source:   source,
		interval: interval,
		clients:  make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LandmarksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *LandmarksHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run sends the cached landmarks to all clients every interval until ctx
// is cancelled.
func (h *LandmarksHandler) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.broadcast()
		}
	}
}

func (h *LandmarksHandler) broadcast() {
	if h.Clients() == 0 {
		return
	}

	result, lastSeen, seen := h.source.Snapshot()
	msg, err := json.Marshal(LandmarksMessage{
		Hands:      result.Hands,
		HandSeen:   seen,
		LastSeenMs: lastSeen,
		Timestamp:  time.Now().UnixMilli(),
	})
	if err != nil {
		log.Printf("Error encoding landmarks: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
