package websocket

import (
	"encoding/json"
	"sync"

	"github.com/vellalasercare/storefront-gateway/internal/app/model"
	"github.com/vellalasercare/storefront-gateway/pkg/logger"
)

const sendBufferSize = 16

// CartEvent is what subscribers receive after every cart change
type CartEvent struct {
	Type string             `json:"type"` // always "cart"
	Cart model.CartSnapshot `json:"cart"`
}

// Client is one websocket subscriber of a cart session
type Client struct {
	Hub       *Hub
	Conn      *Conn
	SessionID string
	Send      chan []byte
}

func NewClient(hub *Hub, conn *Conn, sessionID string) *Client {
	return &Client{
		Hub:       hub,
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, sendBufferSize),
	}
}

type broadcastMessage struct {
	SessionID string
	Message   []byte
}

// Hub fans cart snapshots out to every open tab of a session
type Hub struct {
	// session id -> subscribers (one per tab)
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMessage
	done       chan struct{}
	stopOnce   sync.Once

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *broadcastMessage, 1024),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until Stop is called
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			count := len(h.clients[client.SessionID])
			h.mu.Unlock()
			logger.Debug("WebSocket client registered", logger.Fields{
				"session_id":  client.SessionID,
				"subscribers": count,
			})

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients[message.SessionID] {
				select {
				case client.Send <- message.Message:
				default:
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", logger.Fields{
						"session_id": message.SessionID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list, ok := h.clients[client.SessionID]
	if !ok {
		return
	}

	kept := make([]*Client, 0, len(list))
	found := false
	for _, c := range list {
		if c == client {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return
	}

	if len(kept) == 0 {
		delete(h.clients, client.SessionID)
	} else {
		h.clients[client.SessionID] = kept
	}
	close(client.Send)

	logger.Debug("WebSocket client unregistered", logger.Fields{
		"session_id":  client.SessionID,
		"subscribers": len(kept),
	})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	// registrations queued before Stop
	for {
		select {
		case client := <-h.register:
			close(client.Send)
			continue
		default:
		}
		break
	}
	for id, list := range h.clients {
		for _, client := range list {
			close(client.Send)
		}
		delete(h.clients, id)
	}
}

// Publish queues a cart snapshot for the session's subscribers. Snapshots
// for sessions nobody watches are dropped.
func (h *Hub) Publish(sessionID string, snapshot model.CartSnapshot) {
	if h.Subscribers(sessionID) == 0 {
		return
	}

	data, err := EncodeCartEvent(snapshot)
	if err != nil {
		logger.Error("Failed to marshal cart event", err)
		return
	}

	select {
	case h.broadcast <- &broadcastMessage{SessionID: sessionID, Message: data}:
	default:
		logger.Warn("Broadcast channel full, cart event dropped", logger.Fields{
			"session_id": sessionID,
		})
	}
}

// EncodeCartEvent renders the frame sent for snapshot
func EncodeCartEvent(snapshot model.CartSnapshot) ([]byte, error) {
	return json.Marshal(CartEvent{Type: "cart", Cart: snapshot})
}

// Register subscribes client. After Stop the client is closed instead.
func (h *Hub) Register(client *Client) {
	select {
	case <-h.done:
		close(client.Send)
		return
	default:
	}

	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Stop ends Run and closes every subscriber
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Subscribers returns how many connections watch the session
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}
