// internal/websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"log"
)

const broadcastQueue = 64

// Message is the envelope every push uses.
type Message struct {
	Type    string      `json:"type"` // "history", "data" or "alert"
	Payload interface{} `json:"payload"`
}

// Hub maintains the set of active clients and broadcasts messages.
// All client bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, broadcastQueue),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			log.Printf("ws: client %s registered (%s)", client.ID, client.Conn.RemoteAddr())

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Printf("ws: client %s unregistered", client.ID)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					log.Printf("ws: client %s send buffer full, removing", client.ID)
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// RegisterClient hands a new client to the Run loop. It reports false once
// the hub has stopped.
func (h *Hub) RegisterClient(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Encode wraps payload in the push envelope.
func Encode(typ string, payload interface{}) ([]byte, error) {
	return json.Marshal(Message{Type: typ, Payload: payload})
}

// BroadcastData sends an applied reading to all clients.
func (h *Hub) BroadcastData(data interface{}) {
	h.publish(Message{Type: "data", Payload: data})
}

// BroadcastAlert sends an alert message to all clients.
func (h *Hub) BroadcastAlert(alert interface{}) {
	h.publish(Message{Type: "alert", Payload: alert})
}

// publish never blocks the caller; when the queue is full the message is dropped.
func (h *Hub) publish(msg Message) {
	messageBytes, err := Encode(msg.Type, msg.Payload)
	if err != nil {
		log.Printf("ws: error marshalling %s message: %v", msg.Type, err)
		return
	}
	select {
	case h.broadcast <- messageBytes:
	default:
		log.Printf("ws: broadcast queue full, dropping %s message", msg.Type)
	}
}
