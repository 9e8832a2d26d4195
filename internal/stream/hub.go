package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans chat events out to every websocket attached to a
// conversation, and mirrors them through redis so peers connected to
// other instances see them too.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	ChatID string
	Send   chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(chatID string) *Client {
	client := &Client{
		ChatID: chatID,
		Send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[chatID] == nil {
		h.clients[chatID] = map[*Client]struct{}{}
	}
	h.clients[chatID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if chatClients, ok := h.clients[client.ChatID]; ok {
		delete(chatClients, client)
		if len(chatClients) == 0 {
			delete(h.clients, client.ChatID)
		}
	}
	close(client.Send)
}

// Broadcast routes a message to every client of the conversation. With
// Redis configured the message goes through the channel and local
// clients are served by the subscribe loop like any other instance's,
// so each websocket sees it exactly once. Without Redis (or when the
// publish fails) delivery is local only.
func (h *Hub) Broadcast(chatID string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(chatID), payload).Err()
		if err == nil {
			return
		}
		log.Printf("redis publish error: %v", err)
	}
	h.deliver(chatID, payload)
}

func (h *Hub) deliver(chatID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[chatID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "chat:*:events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver(chatIDFromChannel(msg.Channel), []byte(msg.Payload))
	}
}

func redisChannel(chatID string) string {
	return "chat:" + chatID + ":events"
}

func chatIDFromChannel(ch string) string {
	// chat:{id}:events
	const prefix = "chat:"
	const suffix = ":events"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
