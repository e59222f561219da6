// Package server provides WebSocket support for live token streams.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gizbox-lang/gizbox/gizbox"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Clients may send whole
	// sources to scan.
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local dev tool
	},
}

// Client represents a WebSocket client.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// Files the client follows
	subscriptions map[string]bool
	mu            sync.RWMutex
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:            uuid.NewString(),
		hub:           hub,
		conn:          conn,
		send:          make(chan []byte, 256),
		subscriptions: make(map[string]bool),
	}
}

// ID returns the client's unique id.
func (c *Client) ID() string { return c.id }

// Hub maintains the set of active clients and broadcasts messages.
type Hub struct {
	// Registered clients, owned by Run
	clients map[*Client]bool

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// File subscriptions: path -> clients
	fileSubs map[string]map[*Client]bool
	mu       sync.RWMutex

	// scan handles "scan" requests from clients
	scan   func(filename, source string) *gizbox.ScanResult
	logger *slog.Logger
	done   chan struct{}
}

// NewHub creates a new Hub. scan serves client scan requests.
func NewHub(scan func(filename, source string) *gizbox.ScanResult, logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		fileSubs:   make(map[string]map[*Client]bool),
		scan:       scan,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("ws.connect", "client", client.id)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)

				// Remove from all subscriptions
				for _, clients := range h.fileSubs {
					delete(clients, client)
				}
			}
			h.mu.Unlock()
			h.logger.Debug("ws.disconnect", "client", client.id)

		case <-h.done:
			return
		}
	}
}

// Stop ends Run.
func (h *Hub) Stop() {
	close(h.done)
}

// Subscribe adds a client to a file subscription.
func (h *Hub) Subscribe(client *Client, file string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.fileSubs[file] == nil {
		h.fileSubs[file] = make(map[*Client]bool)
	}
	h.fileSubs[file][client] = true

	client.mu.Lock()
	client.subscriptions[file] = true
	client.mu.Unlock()

	h.logger.Debug("ws.subscribe", "client", client.id, "file", file, "subscribers", len(h.fileSubs[file]))
}

// Unsubscribe removes a client from a file subscription.
func (h *Hub) Unsubscribe(client *Client, file string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.fileSubs[file]; ok {
		delete(clients, client)
	}

	client.mu.Lock()
	delete(client.subscriptions, file)
	client.mu.Unlock()
}

// Message represents a WebSocket message.
type Message struct {
	Type   string      `json:"type"` // subscribe, unsubscribe, scan, tokens, error, ack, welcome
	File   string      `json:"file,omitempty"`
	Source string      `json:"source,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// PublishResult sends a scan result to every client following its file, and
// to every client when the result has no subscribers.
func (h *Hub) PublishResult(result *gizbox.ScanResult) {
	msg := Message{Type: "tokens", File: result.Filename, Data: result}
	if result.HasErrors {
		msg.Type = "error"
		if len(result.Diagnostics) > 0 {
			msg.Error = result.Diagnostics[0].String()
		}
	}

	msgBytes, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("ws.marshal", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	targets := h.fileSubs[result.Filename]
	if len(targets) == 0 {
		targets = h.clients
	}

	sent := 0
	for client := range targets {
		select {
		case client.send <- msgBytes:
			sent++
		default:
			h.logger.Warn("ws.buffer_full", "client", client.id)
		}
	}
	h.logger.Debug("ws.publish", "file", result.Filename, "type", msg.Type, "clients", sent)
}

// BroadcastToAll sends a message to all connected clients.
func (h *Hub) BroadcastToAll(msgType string, data interface{}) {
	msgBytes, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		h.logger.Error("ws.marshal", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- msgBytes:
		default:
			// Client buffer full, skip
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SubscriptionCounts returns the number of subscribers per file.
func (h *Hub) SubscriptionCounts() map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	counts := make(map[string]int)
	for file, clients := range h.fileSubs {
		counts[file] = len(clients)
	}
	return counts
}

// handle processes one message from a client.
func (c *Client) handle(msg Message) {
	switch msg.Type {
	case "subscribe":
		if msg.File != "" {
			c.hub.Subscribe(c, msg.File)
			c.reply(Message{Type: "ack", File: msg.File, Data: "subscribed"})
		}

	case "unsubscribe":
		if msg.File != "" {
			c.hub.Unsubscribe(c, msg.File)
			c.reply(Message{Type: "ack", File: msg.File, Data: "unsubscribed"})
		}

	case "scan":
		result := c.hub.scan(msg.File, msg.Source)
		reply := Message{Type: "tokens", File: msg.File, Data: result}
		if result.HasErrors {
			reply.Type = "error"
			reply.Error = result.Diagnostics[0].String()
		}
		c.reply(reply)

	default:
		c.reply(Message{Type: "error", Error: "unknown message type"})
	}
}

// readPump pumps messages from the WebSocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("ws.read", "client", c.id, "error", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			c.reply(Message{Type: "error", Error: "invalid message format"})
			continue
		}
		c.handle(msg)
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) reply(msg Message) {
	if msgBytes, err := json.Marshal(msg); err == nil {
		select {
		case c.send <- msgBytes:
		default:
		}
	}
}

// ServeWs handles WebSocket requests from the peer.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Error("ws.upgrade", "error", err)
		return
	}

	client := newClient(hub, conn)
	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}
	client.reply(Message{Type: "welcome", Data: map[string]string{"client_id": client.id, "version": gizbox.Version}})

	go client.writePump()
	go client.readPump()
}
