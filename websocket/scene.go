// Package websocket streams scene snapshots to renderer clients.
package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/pointerbox/scene"
	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

const (
	sendChanSize = 16

	ErrTypeQueueFull = "queue_full"
)

// SceneServer broadcasts the published snapshots to the connected renderer
// clients. A client that does not keep up loses snapshots instead of slowing
// the frame loop.
type SceneServer struct {
	mutex   sync.RWMutex
	latest  []byte
	clients map[string]*client
}

type client struct {
	id       string
	sendChan chan []byte
}

func NewSceneServer() *SceneServer {
	return &SceneServer{
		clients: make(map[string]*client),
	}
}

// Publish encodes the snapshot once and queues it to every client.
func (s *SceneServer) Publish(snap scene.Snapshot) {
	b, err := json.Marshal(snap)
	if err != nil {
		logs.WithTag("frame_id", snap.FrameID).
			Error(errors.New("encoding snapshot failed").Wrap(err))
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.latest = b
	for _, c := range s.clients {
		select {
		case c.sendChan <- b:
		default:
			instrumentSendError(ErrTypeQueueFull)
			logs.WithTag("client_id", c.id).
				WithTag("frame_id", snap.FrameID).
				Debug("snapshot dropped")
		}
	}
}

// Latest returns the encoded last published snapshot.
func (s *SceneServer) Latest() ([]byte, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.latest, s.latest != nil
}

func (s *SceneServer) ClientCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.clients)
}

// Handler returns the WebSocket handler renderer clients connect to.
func (s *SceneServer) Handler(ctx context.Context) http.Handler {
	return websocket.Server{
		Handshake: func(c *websocket.Config, r *http.Request) error {
			return nil
		},
		Handler: func(conn *websocket.Conn) {
			defer conn.Close()
			s.serve(ctx, conn)
		},
	}
}

// HandleSnapshot writes the last published snapshot.
func (s *SceneServer) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	b, ok := s.Latest()
	if !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func (s *SceneServer) serve(ctx context.Context, conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := s.connect(conn)
	defer s.disconnect(c)

	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	go func() {
		defer cancel()

		// Renderers do not send anything meaningful. Reading detects closed
		// connections.
		for {
			var msg []byte
			if err := websocket.Message.Receive(conn, &msg); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case b := <-c.sendChan:
			if err := websocket.Message.Send(conn, string(b)); err != nil {
				instrumentSendError(errors.Type(err))
				if ctx.Err() == nil {
					logs.WithTag("client_id", c.id).Debug(err)
				}
				return
			}
			instrumentSent(len(b))
		}
	}
}

func (s *SceneServer) connect(conn *websocket.Conn) *client {
	c := &client{
		id:       uuid.NewString(),
		sendChan: make(chan []byte, sendChanSize),
	}

	s.mutex.Lock()
	if s.latest != nil {
		c.sendChan <- s.latest
	}
	s.clients[c.id] = c
	s.mutex.Unlock()

	instrumentConnectedClients(1)
	logs.WithTag("client_id", c.id).
		WithTag("user_agent", conn.Request().UserAgent()).
		Info("renderer connected")
	return c
}

func (s *SceneServer) disconnect(c *client) {
	s.mutex.Lock()
	delete(s.clients, c.id)
	s.mutex.Unlock()

	instrumentConnectedClients(-1)
	logs.WithTag("client_id", c.id).Info("renderer disconnected")
}
