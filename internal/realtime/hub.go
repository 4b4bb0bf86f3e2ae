// Package realtime relays interview-room messages between websocket clients.
// The hub carries no authoritative state; it only fans messages out to the
// other members of the same session room.
package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/prep-ai/interview-service/internal/events"
)

// Client is one connected websocket peer subscribed to a session room.
type Client struct {
	ID     string
	RoomID string
	Send   chan []byte
}

type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]*Client
	logger *slog.Logger
}

func New(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[string]*Client),
		logger: logger,
	}
}

// Register adds a client to its room, creating the room on first join.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.RoomID]
	if !ok {
		room = make(map[string]*Client)
		h.rooms[client.RoomID] = room
	}
	room[client.ID] = client
}

// Unregister removes a client and closes its send channel. Empty rooms are
// dropped.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.RoomID]
	if !ok {
		return
	}
	if _, ok := room[client.ID]; !ok {
		return
	}
	delete(room, client.ID)
	close(client.Send)
	if len(room) == 0 {
		delete(h.rooms, client.RoomID)
	}
}

// Relay sends payload to every member of the room except the sender. Slow
// clients are skipped rather than blocking the relay.
func (h *Hub) Relay(roomID, senderID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, client := range h.rooms[roomID] {
		if id == senderID {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			h.logger.Warn("dropping message for slow client", "client_id", id, "room_id", roomID)
		}
	}
}

// Broadcast sends payload to every member of the room, including the sender.
func (h *Hub) Broadcast(roomID string, payload []byte) {
	h.Relay(roomID, "", payload)
}

// RoomSize returns the number of clients currently in a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// ConsumeSessionEvents forwards session lifecycle events from the event bus
// into the matching room until ctx is cancelled.
func (h *Hub) ConsumeSessionEvents(ctx context.Context, subscriber message.Subscriber) error {
	messages, err := subscriber.Subscribe(ctx, events.TopicSessions)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var event events.SessionEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				h.logger.Error("failed to decode session event", "error", err)
				msg.Ack()
				continue
			}

			h.Broadcast(RoomID(event.SessionID), msg.Payload)
			msg.Ack()
		}
	}()

	return nil
}

// RoomID derives the hub room name for a session.
func RoomID(sessionID uint) string {
	return "session:" + strconv.FormatUint(uint64(sessionID), 10)
}
