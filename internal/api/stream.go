package api

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// SessionEvent describes websocket payloads emitted as sessions advance.
type SessionEvent struct {
	Type      string     `json:"type"`
	SessionID string     `json:"session_id"`
	Completed int        `json:"completed,omitempty"`
	Total     int        `json:"total,omitempty"`
	Phase     string     `json:"phase,omitempty"`
	RiskLabel string     `json:"risk_label,omitempty"`
	Result    *ResultDTO `json:"result,omitempty"`
	Message   string     `json:"message,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// wsClient wraps a websocket connection with write locking.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// SessionNotifier keeps track of active websocket clients and broadcasts session events.
type SessionNotifier struct {
	mu         sync.Mutex
	clients    map[*wsClient]struct{}
	lastStatus *SessionEvent
}

// NewSessionNotifier constructs a notifier instance.
func NewSessionNotifier() *SessionNotifier {
	return &SessionNotifier{clients: make(map[*wsClient]struct{})}
}

// Register attaches a websocket connection and returns a client handle.
func (n *SessionNotifier) Register(conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn}
	n.mu.Lock()
	n.clients[client] = struct{}{}
	status := n.lastStatus
	n.mu.Unlock()

	if status != nil {
		_ = client.writeJSON(*status)
	}
	return client
}

// Unregister removes the websocket client from the notifier and closes the socket.
func (n *SessionNotifier) Unregister(client *wsClient) {
	if client == nil {
		return
	}
	n.mu.Lock()
	delete(n.clients, client)
	n.mu.Unlock()
	_ = client.conn.Close()
}

// Broadcast sends the supplied event to all registered websocket clients.
func (n *SessionNotifier) Broadcast(event SessionEvent) {
	event.Timestamp = time.Now().UTC()

	n.mu.Lock()
	if event.Type == "started" || event.Type == "progress" || event.Type == "completed" {
		snapshot := event
		if snapshot.Result != nil {
			snapshot.Result = nil
		}
		n.lastStatus = &snapshot
	}

	for client := range n.clients {
		if err := client.writeJSON(event); err != nil {
			delete(n.clients, client)
			_ = client.conn.Close()
		}
	}
	n.mu.Unlock()
}

func (c *wsClient) writeJSON(payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(payload)
}

func (n *SessionNotifier) LastStatus() *SessionEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.lastStatus == nil {
		return nil
	}
	copy := *n.lastStatus
	return &copy
}
