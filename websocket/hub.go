// Package websocket pushes comment events to clients watching a post.
package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"snapgram/models"
)

const (
	sendBuffer      = 256
	broadcastBuffer = 256
)

// Message is the envelope for every frame sent to a client.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type subscription struct {
	client *Client
	postID string
}

type postMessage struct {
	postID string
	data   []byte
}

type clientMessage struct {
	client *Client
	data   []byte
}

// Hub owns the client set and the per-post subscriber lists. Only Run
// mutates them.
type Hub struct {
	clients     map[*Client]bool
	posts       map[string]map[*Client]bool
	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	unsubscribe chan subscription
	broadcast   chan postMessage
	direct      chan clientMessage
	done        chan struct{}
	mu          sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		posts:       make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		broadcast:   make(chan postMessage, broadcastBuffer),
		direct:      make(chan clientMessage),
		done:        make(chan struct{}),
	}
}

// Run processes hub events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				h.drop(client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] ✅ client registered for user %s. Total clients: %d", client.userID, total)
			client.enqueue(encode("connected", map[string]interface{}{
				"userId": client.userID,
				"time":   time.Now().Unix(),
			}))

		case client := <-h.unregister:
			h.mu.Lock()
			if h.clients[client] {
				h.drop(client)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] ❌ client unregistered. Total clients: %d", total)

		case sub := <-h.subscribe:
			h.mu.Lock()
			if h.clients[sub.client] {
				if h.posts[sub.postID] == nil {
					h.posts[sub.postID] = make(map[*Client]bool)
				}
				h.posts[sub.postID][sub.client] = true
				sub.client.posts[sub.postID] = true
				sub.client.enqueue(encode("post_subscribed", map[string]string{"postId": sub.postID}))
			}
			h.mu.Unlock()

		case sub := <-h.unsubscribe:
			h.mu.Lock()
			h.removeSubscription(sub.client, sub.postID)
			h.mu.Unlock()

		case msg := <-h.direct:
			h.mu.Lock()
			if h.clients[msg.client] {
				msg.client.enqueue(msg.data)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.posts[msg.postID] {
				if !client.enqueue(msg.data) {
					log.Printf("[WS] ⚠️  dropping slow client of user %s", client.userID)
					h.drop(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop must be called with mu held.
func (h *Hub) drop(client *Client) {
	for postID := range client.posts {
		h.removeSubscription(client, postID)
	}
	delete(h.clients, client)
	close(client.send)
}

func (h *Hub) removeSubscription(client *Client, postID string) {
	subs := h.posts[postID]
	delete(subs, client)
	if len(subs) == 0 {
		delete(h.posts, postID)
	}
	delete(client.posts, postID)
}

// submit hands an event to Run. It reports false once the hub has stopped.
func submit[T any](h *Hub, ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) CommentCreated(postID string, comment models.CommentResponse) {
	h.publish(postID, "comment_created", map[string]interface{}{
		"postId":  postID,
		"comment": comment,
	})
}

func (h *Hub) CommentDeleted(postID, commentID string) {
	h.publish(postID, "comment_deleted", map[string]string{
		"postId":    postID,
		"commentId": commentID,
	})
}

func (h *Hub) publish(postID, msgType string, payload interface{}) {
	data := encode(msgType, payload)
	if data == nil {
		return
	}
	select {
	case h.broadcast <- postMessage{postID: postID, data: data}:
	default:
		log.Printf("[WS] ⚠️  broadcast queue full, dropping %s for post %s", msgType, postID)
	}
}

func (h *Hub) ConnectedClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Subscribers(postID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.posts[postID])
}

func encode(msgType string, payload interface{}) []byte {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload})
	if err != nil {
		log.Printf("[WS] ❌ error marshaling %s: %v", msgType, err)
		return nil
	}
	return data
}
