package live

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, func(room string) *websocket.Conn) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn, r.URL.Query().Get("room"))
	}))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	dial := func(room string) *websocket.Conn {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?room=" + room
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		return conn
	}
	return hub, dial
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestStandingsChangedReachesRooms(t *testing.T) {
	hub, dial := startHub(t)

	board := dial(StandingsRoom)
	event := dial(EventRoom(7))
	other := dial(EventRoom(8))
	assert.Eventually(t, func() bool {
		return hub.RoomSize(StandingsRoom) == 1 && hub.RoomSize(EventRoom(7)) == 1 && hub.RoomSize(EventRoom(8)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	id := 7
	hub.StandingsChanged("result_recorded", &id)

	msg := readMessage(t, board)
	assert.Equal(t, MessageStandingsUpdated, msg.Type)
	assert.Equal(t, StandingsRoom, msg.RoomID)
	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "result_recorded", payload["reason"])
	assert.EqualValues(t, 7, payload["event_id"])

	msg = readMessage(t, event)
	assert.Equal(t, EventRoom(7), msg.RoomID)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err, "event 8 room must not receive event 7 updates")
}

func TestClientDisconnectLeavesRoom(t *testing.T) {
	hub, dial := startHub(t)

	conn := dial(StandingsRoom)
	assert.Eventually(t, func() bool { return hub.RoomSize(StandingsRoom) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.RoomSize(StandingsRoom) == 0 }, 2*time.Second, 10*time.Millisecond)

	// Публикация в пустую комнату не блокирует.
	hub.StandingsChanged("penalty_updated", nil)
}
