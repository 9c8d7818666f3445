// Package realtime fans discussion events out to connected websocket clients.
// Every message is persisted through the REST API first; the hub only relays
// already-stored records, so clients reconcile by the server-assigned message id.
package realtime

import (
	"encoding/json"
	"log"

	"journal-management-api/monitor"
)

// Client-to-server event types.
const (
	EventJoinDiscussion  = "join_discussion"
	EventLeaveDiscussion = "leave_discussion"
	EventNewMessage      = "new_message"
	EventTyping          = "typing"
)

// Event is the wire envelope for both directions of the websocket channel.
type Event struct {
	Type         string          `json:"type"`
	DiscussionID int             `json:"discussion_id"`
	UserID       int             `json:"user_id,omitempty"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

type joinRequest struct {
	client       *Client
	discussionID int
}

type broadcastRequest struct {
	discussionID int
	data         []byte
	exclude      *Client
}

// Hub tracks connected clients and their discussion room membership. All state
// is owned by the run loop; callers talk to it through channels only.
type Hub struct {
	rooms map[int]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	leave      chan joinRequest
	broadcast  chan broadcastRequest
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[int]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinRequest),
		leave:      make(chan joinRequest),
		broadcast:  make(chan broadcastRequest, 64),
	}
}

// Run owns the room state. Start it once from main.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			monitor.WebsocketConnections.Inc()
			log.Printf("Realtime client connected (user %d)", client.UserID)

		case client := <-h.unregister:
			h.dropClient(client)
			monitor.WebsocketConnections.Dec()
			log.Printf("Realtime client disconnected (user %d)", client.UserID)

		case req := <-h.join:
			room, ok := h.rooms[req.discussionID]
			if !ok {
				room = make(map[*Client]bool)
				h.rooms[req.discussionID] = room
			}
			room[req.client] = true

		case req := <-h.leave:
			if room, ok := h.rooms[req.discussionID]; ok {
				delete(room, req.client)
				if len(room) == 0 {
					delete(h.rooms, req.discussionID)
				}
			}

		case req := <-h.broadcast:
			for client := range h.rooms[req.discussionID] {
				if client == req.exclude {
					continue
				}
				select {
				case client.send <- req.data:
				default:
					// Slow consumer: drop it rather than stall the room.
					h.dropClient(client)
					close(client.send)
				}
			}
		}
	}
}

func (h *Hub) dropClient(client *Client) {
	for discussionID, room := range h.rooms {
		if room[client] {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, discussionID)
			}
		}
	}
}

// Join subscribes a client to a discussion room. The caller has already
// verified the user is a participant of the discussion.
func (h *Hub) Join(client *Client, discussionID int) {
	h.join <- joinRequest{client: client, discussionID: discussionID}
}

// Leave unsubscribes a client from a discussion room.
func (h *Hub) Leave(client *Client, discussionID int) {
	h.leave <- joinRequest{client: client, discussionID: discussionID}
}

// Broadcast sends an event to every client joined to the discussion room.
func (h *Hub) Broadcast(discussionID int, event Event) {
	h.broadcastEvent(discussionID, event, nil)
}

// BroadcastExcept sends an event to the room, skipping the originating client.
// Used for typing indicators, which the sender does not need echoed back.
func (h *Hub) BroadcastExcept(discussionID int, event Event, exclude *Client) {
	h.broadcastEvent(discussionID, event, exclude)
}

func (h *Hub) broadcastEvent(discussionID int, event Event, exclude *Client) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Warning: failed to marshal realtime event: %v", err)
		return
	}
	h.broadcast <- broadcastRequest{discussionID: discussionID, data: data, exclude: exclude}
}

// BroadcastNewMessage pushes a persisted discussion message to the room. The
// payload carries the full stored record including its message id.
func (h *Hub) BroadcastNewMessage(discussionID int, message interface{}) {
	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("Warning: failed to marshal message payload: %v", err)
		return
	}
	h.Broadcast(discussionID, Event{
		Type:         EventNewMessage,
		DiscussionID: discussionID,
		Payload:      payload,
	})
}
