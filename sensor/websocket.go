package sensor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"golang.org/x/net/websocket"
)

const (
	DefaultEndpoint       = "ws://127.0.0.1:6437/v6.json"
	defaultOrigin         = "http://localhost"
	defaultReconnectDelay = time.Second
)

// WebSocketSource reads frames from the Leap Motion service WebSocket.
type WebSocketSource struct {
	Endpoint       string
	Origin         string
	ReconnectDelay time.Duration

	ring      *Ring
	connected atomic.Bool
}

// NewWebSocketSource creates a source that keeps historySize frames.
func NewWebSocketSource(endpoint string, historySize int) *WebSocketSource {
	return &WebSocketSource{
		Endpoint:       endpoint,
		Origin:         defaultOrigin,
		ReconnectDelay: defaultReconnectDelay,
		ring:           NewRing(historySize),
	}
}

func (s *WebSocketSource) Poll() History {
	return s.ring.History()
}

// Connected reports whether the source is currently receiving frames.
func (s *WebSocketSource) Connected() bool {
	return s.connected.Load()
}

// Run connects to the service and reads frames until the context is canceled.
// Lost connections are retried after ReconnectDelay.
func (s *WebSocketSource) Run(ctx context.Context) error {
	for {
		err := s.receive(ctx)
		s.connected.Store(false)
		instrumentSensorConnected(false)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		logs.Warn(errors.New("sensor connection lost").
			WithTag("endpoint", s.Endpoint).
			WithTag("retry_in", s.ReconnectDelay).
			Wrap(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.ReconnectDelay):
		}
	}
}

func (s *WebSocketSource) receive(ctx context.Context) error {
	config, err := websocket.NewConfig(s.Endpoint, s.Origin)
	if err != nil {
		return errors.New("invalid sensor endpoint").
			WithTag("endpoint", s.Endpoint).
			Wrap(err)
	}

	conn, err := config.DialContext(ctx)
	if err != nil {
		return errors.New("dialing sensor failed").
			WithTag("endpoint", s.Endpoint).
			Wrap(err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	for _, msg := range []string{
		`{"enableGestures":true}`,
		`{"background":true}`,
	} {
		if err := websocket.Message.Send(conn, msg); err != nil {
			return errors.New("configuring sensor failed").
				WithTag("message", msg).
				Wrap(err)
		}
	}

	s.connected.Store(true)
	instrumentSensorConnected(true)
	logs.WithTag("endpoint", s.Endpoint).Info("sensor connected")

	for {
		var b []byte
		if err := websocket.Message.Receive(conn, &b); err != nil {
			return errors.New("receiving sensor message failed").Wrap(err)
		}

		f, ok, err := DecodeFrame(b)
		if err != nil {
			instrumentDecodeError(err)
			logs.Warn(err)
			continue
		}
		if !ok {
			continue
		}

		instrumentFrameReceived()
		s.ring.Push(f)
	}
}
