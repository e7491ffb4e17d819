// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package realtime

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// ErrNotOpen is returned by Send when the channel is not in an open state.
// The caller drops the frame silently; nothing is queued or retried.
var ErrNotOpen = errors.New("realtime channel not open")

// ErrEmptyMessage is returned by Send for whitespace-only input. The frame
// is not sent and the caller leaves its input untouched.
var ErrEmptyMessage = errors.New("empty message")

// Callbacks receive the channel's output. Both are invoked from the read
// goroutine; implementations hand off to the UI loop rather than mutating
// shared state.
type Callbacks struct {
	// OnEvent is called for every decoded inbound event, in arrival order.
	OnEvent func(Event)

	// OnFatal is called at most once, when the connection fails. A close
	// initiated by our own Close() does not trigger it.
	OnFatal func(error)
}

// Channel is the persistent websocket connection for one session.
type Channel struct {
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool

	done chan struct{}
}

// URL builds the websocket target from the server base URL and the session
// credential. The credential rides in a query parameter because the
// handshake cannot carry custom headers; this is the only place the token
// is ever put in a URL.
func URL(baseURL, token string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Dial connects the channel and starts its read loop. The context bounds
// the handshake only; the established connection lives until Close or a
// connection error.
func Dial(ctx context.Context, wsURL string, cb Callbacks) (*Channel, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial: %w (HTTP %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("websocket dial: %w", err)
	}

	c := &Channel{
		conn: conn,
		done: make(chan struct{}),
	}
	go c.readLoop(cb)
	return c, nil
}

// readLoop decodes inbound frames until the connection dies. Undecodable
// and unknown-type frames are logged and skipped; they are not fatal.
func (c *Channel) readLoop(cb Callbacks) {
	defer close(c.done)
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if c.isClosed() {
				// Teardown-initiated close, not a failure.
				return
			}
			if cb.OnFatal != nil {
				cb.OnFatal(fmt.Errorf("realtime channel: %w", err))
			}
			return
		}

		ev, err := DecodeEvent(raw)
		if err != nil {
			log.Printf("[realtime] dropping frame: %v", err)
			continue
		}
		if cb.OnEvent != nil {
			cb.OnEvent(ev)
		}
	}
}

// Send writes the message text as a raw text frame, exactly as given.
// Emptiness is judged on the trimmed text: whitespace-only input is refused
// (ErrEmptyMessage), as is a non-open channel (ErrNotOpen); in both cases
// nothing is sent, queued or retried.
func (c *Channel) Send(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrNotOpen
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return fmt.Errorf("realtime send: %w", err)
	}
	return nil
}

// Close shuts the connection down. It is idempotent and safe to call
// concurrently with the read loop; a close initiated here never surfaces
// as a fatal channel error.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	// Best effort: tell the server we are leaving before tearing down.
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "logout"))
	err := c.conn.Close()
	c.mu.Unlock()

	<-c.done
	return err
}

func (c *Channel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
