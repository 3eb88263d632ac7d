package realtime

import (
	"sync"
)

const sendBuffer = 32

// Client is one websocket connection of an authenticated user.
type Client struct {
	UserID uint
	Role   string

	send   chan []byte
	closed chan struct{}
	once   sync.Once

	// guarded by Hub.mu
	rooms map[string]struct{}
}

func NewClient(userID uint, role string) *Client {
	return &Client{
		UserID: userID,
		Role:   role,
		send:   make(chan []byte, sendBuffer),
		closed: make(chan struct{}),
		rooms:  make(map[string]struct{}),
	}
}

// enqueue never blocks; false means the buffer is full.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case <-c.closed:
		return true
	default:
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) Close() {
	c.once.Do(func() { close(c.closed) })
}

func (c *Client) Done() <-chan struct{} {
	return c.closed
}
