package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Transport is one live connection to a client. *websocket.Conn wrappers and
// test fakes both satisfy it.
type Transport interface {
	WriteMessage(data []byte) error
	Close() error
}

// Client pairs a user with a transport session. Outbound frames go through a
// bounded queue drained by a dedicated write loop, so pushes never block the
// registry.
type Client struct {
	id     string
	userID string
	tr     Transport
	out    chan []byte
	done   chan struct{}
	once   sync.Once
}

func NewClient(userID string, tr Transport) *Client {
	c := &Client{
		id:     uuid.NewString(),
		userID: userID,
		tr:     tr,
		out:    make(chan []byte, 256),
		done:   make(chan struct{}),
	}
	go c.writeLoop()
	return c
}

func (c *Client) ID() string     { return c.id }
func (c *Client) UserID() string { return c.userID }

// enqueue reports whether the frame was queued. A full queue or a closed
// client drops the frame.
func (c *Client) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.out <- data:
		return true
	default:
		return false
	}
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.tr.Close()
	})
}

func (c *Client) writeLoop() {
	defer c.Close()
	for {
		select {
		case <-c.done:
			return
		case data := <-c.out:
			if err := c.tr.WriteMessage(data); err != nil {
				return
			}
		}
	}
}
