package websocket

import (
	"encoding/json"
	"net/http"
	"sync"

	"projector/internal/middleware"
	"projector/internal/model"
	"projector/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are already restricted by CORS on the HTTP API
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const deliveryQueueSize = 64

// Event is the envelope pushed to clients
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type delivery struct {
	message    []byte
	recipients []uuid.UUID
}

// Client represents a single connected WebSocket client
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID uuid.UUID
}

// Hub maintains the set of active clients and routes events to them
type Hub struct {
	clients    map[*Client]bool
	deliveries chan delivery
	register   chan *Client
	unregister chan *Client
	log        logrus.FieldLogger
	mu         sync.Mutex
}

// NewHub initializes a new WS Hub instance
func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		deliveries: make(chan delivery, deliveryQueueSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		log:        log,
	}
}

// Run starts the core dispatch loop for WebSocket events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.WithField("user_id", client.UserID).Debug("websocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.log.WithField("user_id", client.UserID).Debug("websocket client disconnected")
			}
			h.mu.Unlock()
		case d := <-h.deliveries:
			h.dispatch(d)
		}
	}
}

func (h *Hub) dispatch(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if !addressedTo(client.UserID, d.recipients) {
			continue
		}
		select {
		case client.Send <- d.message:
		default:
			close(client.Send)
			delete(h.clients, client)
		}
	}
}

func addressedTo(userID uuid.UUID, recipients []uuid.UUID) bool {
	if len(recipients) == 0 {
		return true
	}
	for _, r := range recipients {
		if r == userID {
			return true
		}
	}
	return false
}

// Publish queues an event for the given users, or for every client when none are given.
// It never blocks the caller: when the queue is full the event is dropped and logged.
func (h *Hub) Publish(eventType string, payload interface{}, recipients ...uuid.UUID) {
	message, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		h.log.WithError(err).WithField("type", eventType).Error("failed to encode websocket event")
		return
	}

	select {
	case h.deliveries <- delivery{message: message, recipients: recipients}:
	default:
		h.log.WithFields(logrus.Fields{"type": eventType, "queued": len(h.deliveries)}).Warn("websocket queue full, event dropped")
	}
}

// writePump handles writing messages from the Hub to the WebSocket connection
func (c *Client) writePump() {
	defer func() {
		_ = c.Conn.Close()
	}()
	for message := range c.Send {
		w, err := c.Conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		_, _ = w.Write(message)

		// Fast track writing queued messages
		n := len(c.Send)
		for i := 0; i < n; i++ {
			_, _ = w.Write([]byte{'\n'})
			_, _ = w.Write(<-c.Send)
		}

		if err := w.Close(); err != nil {
			return
		}
	}
	_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump keeps the connection alive until the peer goes away
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		_ = c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.WithError(err).WithField("user_id", c.UserID).Warn("websocket read failed")
			}
			break
		}
	}
}

// ServeWs upgrades the request once the token resolves to a user whose role may read chat
func ServeWs(hub *Hub, c *gin.Context, tokens middleware.TokenParser, users middleware.UserLookup) {
	tokenString := c.Query("token")
	if tokenString == "" {
		hub.log.Debug("websocket connection rejected: missing token")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	userID, err := tokens.Parse(tokenString)
	if err != nil {
		hub.log.WithError(err).Debug("websocket connection rejected: invalid token")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	user, err := users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if err := rbac.Authorize(rbac.NewPrincipal(user), model.ResourceChat, model.ActionRead); err != nil {
		hub.log.WithField("user_id", userID).Debug("websocket connection rejected: " + err.Error())
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	client := &Client{Hub: hub, Conn: conn, Send: make(chan []byte, 256), UserID: userID}
	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}
