package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"pwr/internal/execution"
	"pwr/internal/logging"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultEventBuffer      = 256
)

// message is the wire shape of a progress channel message
type message struct {
	Event string `json:"event"`
	Data  struct {
		Message string `json:"message"`
	} `json:"data"`
}

// Subscriber reads the runner's progress websocket
type Subscriber struct {
	url    string
	dialer *websocket.Dialer
	buffer int
}

// NewSubscriber creates a subscriber for the websocket at url
func NewSubscriber(url string) *Subscriber {
	return &Subscriber{
		url: url,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: defaultHandshakeTimeout,
		},
		buffer: defaultEventBuffer,
	}
}

// Subscribe connects and returns the stream of events. Messages that are not
// valid JSON are skipped. When the connection drops before ctx is done an
// EventDisconnect is delivered, then the channel is closed.
func (s *Subscriber) Subscribe(ctx context.Context) (<-chan execution.Event, error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil) // nolint:bodyclose
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", s.url, err)
	}

	events := make(chan execution.Event, s.buffer)
	closed := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
		case <-closed:
		}
		conn.Close()
	}()

	go func() {
		defer close(events)
		defer close(closed)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					logging.Debug("transport", "progress channel lost: %v", err)
					select {
					case events <- execution.Event{Name: execution.EventDisconnect, Message: err.Error()}:
					case <-ctx.Done():
					}
				}
				return
			}

			var msg message
			if err := json.Unmarshal(data, &msg); err != nil {
				logging.Debug("transport", "skipping malformed progress message: %v", err)
				continue
			}
			select {
			case events <- execution.Event{Name: msg.Event, Message: msg.Data.Message}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
