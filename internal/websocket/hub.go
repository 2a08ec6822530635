package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"hemp-commons/internal/models"
)

var log = logrus.WithField("component", "websocket")

const directQueueSize = 256

// MessageToSend defines the structure for sending a message to a specific user.
type MessageToSend struct {
	TargetUserID string
	Payload      []byte
}

// Envelope is the frame written to clients.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and fans notifications out to them.
type Hub struct {
	// Maps user ID to the user's open connections.
	Clients map[string]map[*Client]bool

	SendDirect chan *MessageToSend
	Register   chan *Client
	Unregister chan *Client

	done chan struct{}
	mu   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		SendDirect: make(chan *MessageToSend, directQueueSize),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Clients:    make(map[string]map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Run processes hub traffic until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	log.Info("WebSocket hub started")
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			log.Info("WebSocket hub stopped")
			return

		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.Clients[client.UserID]; !ok {
				h.Clients[client.UserID] = make(map[*Client]bool)
			}
			h.Clients[client.UserID][client] = true
			log.WithField("user", client.UserID).WithField("connections", len(h.Clients[client.UserID])).Debug("Client registered")
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if userClients, ok := h.Clients[client.UserID]; ok {
				if _, present := userClients[client]; present {
					delete(userClients, client)
					close(client.Send)
					if len(userClients) == 0 {
						delete(h.Clients, client.UserID)
					}
					log.WithField("user", client.UserID).Debug("Client unregistered")
				}
			}
			h.mu.Unlock()

		case direct := <-h.SendDirect:
			h.mu.RLock()
			userClients := h.Clients[direct.TargetUserID]
			for client := range userClients {
				h.enqueue(client, direct.Payload)
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) enqueue(client *Client, payload []byte) {
	select {
	case client.Send <- payload:
	default:
		log.WithField("user", client.UserID).Warn("Send buffer full, message dropped")
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, userClients := range h.Clients {
		for client := range userClients {
			close(client.Send)
		}
		delete(h.Clients, userID)
	}
}

// RegisterClient adds c to the hub. It reports false once the hub has
// stopped, in which case the caller owns closing the connection.
func (h *Hub) RegisterClient(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

// ConnectionCount returns the number of open connections for a user.
func (h *Hub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.Clients[userID])
}

// SendDirectMessage queues payload for a user's connections. It never blocks;
// when the queue is full the message is dropped.
func (h *Hub) SendDirectMessage(targetUserID string, payload []byte) {
	select {
	case h.SendDirect <- &MessageToSend{TargetUserID: targetUserID, Payload: payload}:
	default:
		log.WithField("user", targetUserID).Warn("Hub queue full, direct message dropped")
	}
}

// Publish pushes a stored notification to its recipient's open connections.
func (h *Hub) Publish(n models.Notification) {
	payload, err := json.Marshal(Envelope{Type: "notification", Data: n})
	if err != nil {
		log.WithError(err).Error("Failed to encode notification")
		return
	}
	h.SendDirectMessage(n.UserID, payload)
}
