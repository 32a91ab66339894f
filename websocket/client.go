package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"snapgram/service"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 512
)

type TokenParser interface {
	ParseToken(token string) (*service.Claims, error)
}

type Client struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
	hub    *Hub
	// posts is owned by the hub goroutine.
	posts map[string]bool
}

type incoming struct {
	Type    string `json:"type"`
	Payload struct {
		PostID string `json:"postId"`
	} `json:"payload"`
}

// enqueue reports false when the client's buffer is full.
func (c *Client) enqueue(data []byte) bool {
	if data == nil {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// ServeWS upgrades a request carrying ?token=<jwt> and registers the client.
func ServeWS(hub *Hub, auth TokenParser, allowedOrigins []string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "token required", http.StatusUnauthorized)
			return
		}
		claims, err := auth.ParseToken(token)
		if err != nil {
			log.Printf("[WS] connection rejected: %v", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[WS] upgrade failed: %v", err)
			return
		}

		client := &Client{
			conn:   conn,
			userID: claims.UserID,
			send:   make(chan []byte, sendBuffer),
			hub:    hub,
			posts:  make(map[string]bool),
		}
		if !submit(hub, hub.register, client) {
			_ = conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

func (c *Client) readPump() {
	defer func() {
		submit(c.hub, c.hub.unregister, c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] ❌ read error: %v", err)
			}
			return
		}

		var msg incoming
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("[WS] ❌ message unmarshal error: %v", err)
			continue
		}

		switch msg.Type {
		case "subscribe_post":
			if msg.Payload.PostID != "" {
				submit(c.hub, c.hub.subscribe, subscription{client: c, postID: msg.Payload.PostID})
			}
		case "unsubscribe_post":
			if msg.Payload.PostID != "" {
				submit(c.hub, c.hub.unsubscribe, subscription{client: c, postID: msg.Payload.PostID})
			}
		case "ping":
			submit(c.hub, c.hub.direct, clientMessage{client: c, data: encode("pong", map[string]int64{"time": time.Now().Unix()})})
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
