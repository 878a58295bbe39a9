// Package websocket pushes booking events to connected users in real time.
package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types pushed over the socket
const (
	EventConnected     = "connected"
	EventBookingNew    = "booking_request"
	EventBookingStatus = "booking_status"
)

// Event is a message sent over WebSocket
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Client is one connected user socket
type Client struct {
	UserID primitive.ObjectID
	Conn   *websocket.Conn

	writeMu sync.Mutex
}

// WriteEvent serializes writes so hub pushes and the welcome message don't
// interleave on the wire
func (c *Client) WriteEvent(event Event) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(event)
}

// Hub tracks connected clients by user and routes events to them
type Hub struct {
	clients    map[primitive.ObjectID][]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			conns := h.clients[client.UserID]
			for i, c := range conns {
				if c == client {
					h.clients[client.UserID] = append(conns[:i], conns[i+1:]...)
					break
				}
			}
			if len(h.clients[client.UserID]) == 0 {
				delete(h.clients, client.UserID)
			}
			h.mu.Unlock()
			client.Conn.Close()
		}
	}
}

// SendToUser delivers an event to every open connection of a user
func (h *Hub) SendToUser(userID primitive.ObjectID, event Event) error {
	h.mu.RLock()
	conns := append([]*Client(nil), h.clients[userID]...)
	h.mu.RUnlock()

	if len(conns) == 0 {
		return fmt.Errorf("user not connected")
	}

	var lastErr error
	for _, client := range conns {
		if err := client.WriteEvent(event); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// NotifyBookingRequest tells a property owner a new booking request arrived
func (h *Hub) NotifyBookingRequest(ownerID primitive.ObjectID, bookingData interface{}) error {
	return h.SendToUser(ownerID, Event{
		Type:    EventBookingNew,
		Message: "New booking request received",
		Data:    bookingData,
	})
}

// NotifyBookingStatus tells a renter their booking status changed
func (h *Hub) NotifyBookingStatus(renterID primitive.ObjectID, bookingData interface{}) error {
	return h.SendToUser(renterID, Event{
		Type:    EventBookingStatus,
		Message: "Your booking status has been updated",
		Data:    bookingData,
	})
}
