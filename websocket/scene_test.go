package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aukilabs/pointerbox/scene"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func newTestServer(t *testing.T) (*SceneServer, *httptest.Server) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	s := NewSceneServer()
	server := httptest.NewServer(s.Handler(ctx))

	t.Cleanup(func() {
		cancel()
		server.Close()
	})
	return s, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	conn, err := websocket.Dial(
		strings.ReplaceAll(server.URL, "http://", "ws://"),
		"",
		"http://localhost",
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func receiveSnapshot(t *testing.T, conn *websocket.Conn) scene.Snapshot {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second*2)))

	var msg string
	require.NoError(t, websocket.Message.Receive(conn, &msg))

	var snap scene.Snapshot
	require.NoError(t, json.Unmarshal([]byte(msg), &snap))
	return snap
}

func TestSceneServer(t *testing.T) {
	t.Run("latest snapshot is sent on connect", func(t *testing.T) {
		s, server := newTestServer(t)
		s.Publish(scene.Snapshot{RunID: "run", FrameID: 1})
		s.Publish(scene.Snapshot{RunID: "run", FrameID: 2})

		conn := dial(t, server)
		require.Equal(t, int64(2), receiveSnapshot(t, conn).FrameID)
	})

	t.Run("published snapshots are broadcast", func(t *testing.T) {
		s, server := newTestServer(t)
		connA := dial(t, server)
		connB := dial(t, server)

		require.Eventually(t, func() bool {
			return s.ClientCount() == 2
		}, time.Second*2, time.Millisecond*10)

		s.Publish(scene.Snapshot{
			FrameID:   7,
			Variables: []scene.Variable{{Label: "i", Value: 12}},
		})

		for _, conn := range []*websocket.Conn{connA, connB} {
			snap := receiveSnapshot(t, conn)
			require.Equal(t, int64(7), snap.FrameID)
			require.Len(t, snap.Variables, 1)
			require.Equal(t, "i", snap.Variables[0].Label)
		}
	})

	t.Run("disconnected clients are removed", func(t *testing.T) {
		s, server := newTestServer(t)
		conn := dial(t, server)

		require.Eventually(t, func() bool {
			return s.ClientCount() == 1
		}, time.Second*2, time.Millisecond*10)

		conn.Close()
		require.Eventually(t, func() bool {
			return s.ClientCount() == 0
		}, time.Second*2, time.Millisecond*10)
	})

	t.Run("slow clients do not block publishing", func(t *testing.T) {
		s, server := newTestServer(t)
		dial(t, server)

		require.Eventually(t, func() bool {
			return s.ClientCount() == 1
		}, time.Second*2, time.Millisecond*10)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < sendChanSize*10; i++ {
				s.Publish(scene.Snapshot{FrameID: int64(i)})
			}
		}()

		select {
		case <-done:
		case <-time.After(time.Second * 2):
			t.Fatal("publishing blocked")
		}
	})
}

func TestHandleSnapshot(t *testing.T) {
	s := NewSceneServer()

	w := httptest.NewRecorder()
	s.HandleSnapshot(w, httptest.NewRequest(http.MethodGet, "/scene.json", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	s.Publish(scene.Snapshot{RunID: "run", FrameID: 3})

	w = httptest.NewRecorder()
	s.HandleSnapshot(w, httptest.NewRequest(http.MethodGet, "/scene.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var snap scene.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Equal(t, "run", snap.RunID)
	require.Equal(t, int64(3), snap.FrameID)
}
