// Package ws pushes ingest events to connected browsers. Each client sits
// in the room of the user it authenticated as; events for one user never
// reach another user's connections.
package ws

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

type envelope struct {
	userID uuid.UUID
	data   []byte
}

type Hub struct {
	rooms      map[uuid.UUID]map[*Client]bool
	publish    chan envelope
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		publish:    make(chan envelope, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			room, ok := h.rooms[client.userID]
			if !ok {
				room = make(map[*Client]bool)
				h.rooms[client.userID] = room
			}
			room[client] = true
			total := h.countLocked()
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS connected | user_id=%s total_clients=%d", client.userID, total)
			}

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			if room, ok := h.rooms[client.userID]; ok {
				if _, member := room[client]; member {
					delete(room, client)
					close(client.send)
				}
				if len(room) == 0 {
					delete(h.rooms, client.userID)
				}
			}
			total := h.countLocked()
			h.mutex.Unlock()
			if h.logger != nil {
				h.logger.Printf("WS disconnected | user_id=%s total_clients=%d", client.userID, total)
			}

		case evt := <-h.publish:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.rooms[evt.userID]))
			for c := range h.rooms[evt.userID] {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- evt.data:
				default:
					h.unregister <- client
				}
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// Publish queues a message for every connection of one user. A full queue
// drops the message rather than blocking the caller.
func (h *Hub) Publish(userID uuid.UUID, message []byte) {
	if h == nil {
		return
	}
	select {
	case h.publish <- envelope{userID: userID, data: message}:
	default:
		if h.logger != nil {
			h.logger.Printf("WS publish dropped | user_id=%s reason=buffer_full", userID)
		}
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.countLocked()
}

func (h *Hub) countLocked() int {
	total := 0
	for _, room := range h.rooms {
		total += len(room)
	}
	return total
}
