// Package realtime fans chat events out to websocket connections grouped in
// per-posting rooms.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

const (
	EventJoinChat       = "joinChat"
	EventSendMessage    = "sendMessage"
	EventReceiveMessage = "receiveMessage"
	EventMessageDeleted = "messageDeleted"
	EventError          = "error"
)

// RoomName is the room every participant of a posting's chat joins.
func RoomName(postingID uint) string {
	return fmt.Sprintf("chat_%d", postingID)
}

// Frame is the JSON envelope of every websocket message in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func encodeFrame(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: data})
}

// Backplane carries encoded frames to every process that may hold members of a room.
type Backplane interface {
	Publish(ctx context.Context, room string, frame []byte) error
}

// Hub tracks room membership for this process.
type Hub struct {
	log *slog.Logger

	mu        sync.RWMutex
	rooms     map[string]map[*Client]struct{}
	backplane Backplane
}

func NewHub(log *slog.Logger) *Hub {
	h := &Hub{log: log, rooms: make(map[string]map[*Client]struct{})}
	h.backplane = localBackplane{hub: h}
	return h
}

// SetBackplane replaces in-process delivery, e.g. with redis pub/sub.
func (h *Hub) SetBackplane(b Backplane) {
	h.mu.Lock()
	h.backplane = b
	h.mu.Unlock()
}

// UseLocal restores in-process delivery.
func (h *Hub) UseLocal() {
	h.SetBackplane(localBackplane{hub: h})
}

func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
}

func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

// Remove drops the client from every room it joined.
func (h *Hub) Remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range c.rooms {
		h.leaveLocked(c, room)
	}
}

func (h *Hub) leaveLocked(c *Client, room string) {
	delete(c.rooms, room)
	members := h.rooms[room]
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// Members reports how many local connections are in room.
func (h *Hub) Members(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Broadcast sends event to every connection in room, on every instance.
func (h *Hub) Broadcast(ctx context.Context, room, event string, payload any) error {
	frame, err := encodeFrame(event, payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}
	h.mu.RLock()
	b := h.backplane
	h.mu.RUnlock()
	return b.Publish(ctx, room, frame)
}

// Deliver hands a frame to the local members of room. Members whose buffer
// is full are disconnected.
func (h *Hub) Deliver(room string, frame []byte) {
	h.mu.RLock()
	var slow []*Client
	for c := range h.rooms[room] {
		if !c.enqueue(frame) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn("dropping slow websocket client", slog.Uint64("user_id", uint64(c.UserID)), slog.String("room", room))
		h.Remove(c)
		c.Close()
	}
}

type localBackplane struct {
	hub *Hub
}

func (b localBackplane) Publish(_ context.Context, room string, frame []byte) error {
	b.hub.Deliver(room, frame)
	return nil
}
