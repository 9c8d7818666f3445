package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"journal-management-api/models"
)

func newTestClient(userID int, hub *Hub) *Client {
	return &Client{
		UserID: userID,
		hub:    hub,
		send:   make(chan []byte, 8),
	}
}

func receiveEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data := <-c.send:
		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("failed to decode event: %v", err)
		}
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected event delivered: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastReachesOnlyJoinedClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	joined := newTestClient(1, hub)
	other := newTestClient(2, hub)

	hub.Join(joined, 10)
	hub.Join(other, 99)

	hub.Broadcast(10, Event{Type: EventTyping, DiscussionID: 10, UserID: 1})

	event := receiveEvent(t, joined)
	if event.Type != EventTyping || event.DiscussionID != 10 {
		t.Fatalf("unexpected event: %+v", event)
	}

	assertNoEvent(t, other)
}

func TestLeaveStopsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(1, hub)
	hub.Join(client, 10)
	hub.Leave(client, 10)

	hub.Broadcast(10, Event{Type: EventTyping, DiscussionID: 10})
	assertNoEvent(t, client)
}

func TestBroadcastExceptSkipsOrigin(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	sender := newTestClient(1, hub)
	receiver := newTestClient(2, hub)

	hub.Join(sender, 10)
	hub.Join(receiver, 10)

	hub.BroadcastExcept(10, Event{Type: EventTyping, DiscussionID: 10, UserID: 1}, sender)

	event := receiveEvent(t, receiver)
	if event.UserID != 1 {
		t.Fatalf("expected typing event from user 1, got %+v", event)
	}
	assertNoEvent(t, sender)
}

func TestBroadcastNewMessageCarriesServerMessageID(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(3, hub)
	hub.Join(client, 42)

	message := models.DiscussionMessage{
		MessageID:    815,
		DiscussionID: 42,
		SenderID:     3,
		Content:      "Please see the revised figures.",
		SentAt:       time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
	}
	hub.BroadcastNewMessage(42, message)

	event := receiveEvent(t, client)
	if event.Type != EventNewMessage {
		t.Fatalf("expected %s event, got %s", EventNewMessage, event.Type)
	}
	if event.DiscussionID != 42 {
		t.Fatalf("expected discussion 42, got %d", event.DiscussionID)
	}

	var payload models.DiscussionMessage
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	// Clients reconcile pushed messages against fetched history by this id.
	if payload.MessageID != 815 {
		t.Fatalf("expected message id 815 in payload, got %d", payload.MessageID)
	}
	if payload.Content != message.Content {
		t.Fatalf("unexpected content: %q", payload.Content)
	}
}

func TestJoinIsIdempotentPerRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(1, hub)
	hub.Join(client, 10)
	hub.Join(client, 10)

	hub.Broadcast(10, Event{Type: EventTyping, DiscussionID: 10})

	receiveEvent(t, client)
	assertNoEvent(t, client)
}
