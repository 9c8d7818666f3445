package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"journal-management-api/config"
	"journal-management-api/middleware"
	"journal-management-api/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		allowed := os.Getenv("CORS_ALLOWED_ORIGIN")
		if allowed == "" || allowed == "*" {
			return true
		}
		return r.Header.Get("Origin") == allowed
	},
}

// Client is one websocket connection owned by an authenticated user.
type Client struct {
	UserID int

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// ServeWS upgrades the connection and runs the read/write pumps. Browsers
// cannot set an Authorization header on websocket dials, so the JWT arrives
// as a query parameter.
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		claims, err := middleware.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("Warning: websocket upgrade failed: %v", err)
			return
		}

		client := &Client{
			UserID: claims.UserID,
			hub:    hub,
			conn:   conn,
			send:   make(chan []byte, 32),
		}
		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Warning: websocket read error (user %d): %v", c.UserID, err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			continue
		}
		c.handleEvent(event)
	}
}

func (c *Client) handleEvent(event Event) {
	switch event.Type {
	case EventJoinDiscussion:
		if !c.isParticipant(event.DiscussionID) {
			return
		}
		c.hub.Join(c, event.DiscussionID)

	case EventLeaveDiscussion:
		c.hub.Leave(c, event.DiscussionID)

	case EventTyping:
		// Same gate as join: only participants may signal into a room.
		if !c.isParticipant(event.DiscussionID) {
			return
		}
		c.hub.BroadcastExcept(event.DiscussionID, Event{
			Type:         EventTyping,
			DiscussionID: event.DiscussionID,
			UserID:       c.UserID,
		}, c)
	}
	// EventNewMessage is not accepted over the socket. Messages go through the
	// REST endpoint, which persists them and broadcasts the stored record.
}

func (c *Client) isParticipant(discussionID int) bool {
	var count int64
	config.DB.Model(&models.DiscussionParticipant{}).
		Where("discussion_id = ? AND user_id = ?", discussionID, c.UserID).
		Count(&count)
	return count > 0
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
