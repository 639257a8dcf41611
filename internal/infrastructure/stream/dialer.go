package stream

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

// Conn is the minimal receive surface of a websocket connection. Exactly
// one ReadMessage is outstanding per session; Close unblocks it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens a Conn for a stream URL.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

type wsDialer struct {
	timeout time.Duration
}

// NewWSDialer returns a Dialer backed by gorilla/websocket.
func NewWSDialer() Dialer {
	return &wsDialer{timeout: 10 * time.Second}
}

func (d *wsDialer) Dial(ctx context.Context, url string) (Conn, error) {
	cctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	conn, _, err := websocket.DefaultDialer.DialContext(cctx, url, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
