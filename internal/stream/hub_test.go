package stream

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("uidA_uidB")
	defer hub.Unregister(client)

	payload := []byte("hello")
	hub.Broadcast("uidA_uidB", payload)

	select {
	case msg := <-client.Send:
		if string(msg) != "hello" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for message")
	}
}

func TestHubHelpers(t *testing.T) {
	ch := redisChannel("uidA_uidB")
	if ch == "" {
		t.Fatalf("expected channel")
	}
	if chatIDFromChannel(ch) != "uidA_uidB" {
		t.Fatalf("unexpected chat id")
	}
	if chatIDFromChannel("bad") != "" {
		t.Fatalf("expected empty chat id")
	}
}

func TestUnregisterCloses(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("uidC_uidD")
	hub.Unregister(client)
	_, ok := <-client.Send
	if ok {
		t.Fatalf("expected channel closed")
	}
}

func TestHubRedisBroadcastAndSubscribe(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	hub := NewHub(client)
	ws := hub.Register("uidA_uidB")
	defer hub.Unregister(ws)

	time.Sleep(20 * time.Millisecond)
	hub.Broadcast("uidA_uidB", []byte("ping"))

	select {
	case msg := <-ws.Send:
		if string(msg) != "ping" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for broadcast")
	}

	peer := hub.Register("uidE_uidF")
	defer hub.Unregister(peer)

	if err := client.Publish(context.Background(), "chat:uidE_uidF:events", "pong").Err(); err != nil {
		t.Fatalf("publish error: %v", err)
	}

	select {
	case msg := <-peer.Send:
		if string(msg) != "pong" {
			t.Fatalf("unexpected message from redis")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for redis message")
	}
}

func TestHubRedisDeliversExactlyOnce(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	hub := NewHub(client)
	ws := hub.Register("uidA_uidB")
	defer hub.Unregister(ws)

	time.Sleep(20 * time.Millisecond)
	hub.Broadcast("uidA_uidB", []byte("once"))

	select {
	case msg := <-ws.Send:
		if string(msg) != "once" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for broadcast")
	}

	// The broadcasting instance must not echo its own publish back a
	// second time.
	select {
	case msg := <-ws.Send:
		t.Fatalf("duplicate delivery: %s", msg)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestHubRedisPublishError(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	server.Close()
	defer client.Close()

	hub := NewHub(client)
	clientNode := hub.Register("uidX_uidY")
	defer hub.Unregister(clientNode)

	hub.Broadcast("uidX_uidY", []byte("ping"))

	// Publish failure falls back to direct local delivery.
	select {
	case msg := <-clientNode.Send:
		if string(msg) != "ping" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for fallback delivery")
	}
}
