package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"meetsync/domain/core/entities"
	"meetsync/domain/events"
	"meetsync/pkg/auth"
	"meetsync/pkg/observability"
)

type wsHarness struct {
	hub       *Hub
	publisher *Broadcaster
	tokens    *auth.JWTService
	url       string
}

func newWSHarness(t *testing.T) *wsHarness {
	t.Helper()
	logger := zap.NewNop()

	tokens, err := auth.NewJWTService(auth.JWTConfig{
		SecretKey: "websocket-test-secret",
		Issuer:    "meetsync-test",
	})
	require.NoError(t, err)

	hub := NewHub(observability.NewCollector("wstest"), logger)
	go hub.Run()
	t.Cleanup(hub.Stop)

	server := NewServer(hub, tokens, "", logger)
	ts := httptest.NewServer(http.HandlerFunc(server.HandleWebSocket))
	t.Cleanup(ts.Close)

	return &wsHarness{
		hub:       hub,
		publisher: NewBroadcaster(hub, logger),
		tokens:    tokens,
		url:       "ws" + strings.TrimPrefix(ts.URL, "http"),
	}
}

func (h *wsHarness) dial(t *testing.T, userID int64) *gorilla.Conn {
	t.Helper()
	token, err := h.tokens.IssueToken(userID, fmt.Sprintf("user-%d", userID), fmt.Sprintf("u%d@example.com", userID))
	require.NoError(t, err)

	conn, _, err := gorilla.DefaultDialer.Dial(h.url+"?token="+token, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendJoin(t *testing.T, conn *gorilla.Conn, userID int64, name string) {
	t.Helper()
	msg := fmt.Sprintf(`{"type":"user:join","data":{"userId":%d,"name":%q}}`, userID, name)
	require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte(msg)))
}

// waitForFrame reads frames until one of the wanted type arrives,
// returning every frame seen along the way
func waitForFrame(t *testing.T, conn *gorilla.Conn, frameType string) (Frame, []Frame) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	var seen []Frame
	for {
		require.NoError(t, conn.SetReadDeadline(deadline))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for frame %q", frameType)

		var frame Frame
		require.NoError(t, json.Unmarshal(raw, &frame))
		if frame.Type == frameType {
			return frame, seen
		}
		seen = append(seen, frame)
	}
}

func TestHandshakeRequiresToken(t *testing.T) {
	h := newWSHarness(t)

	_, resp, err := gorilla.DefaultDialer.Dial(h.url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = gorilla.DefaultDialer.Dial(h.url+"?token=garbage", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPresenceOnJoinAndLeave(t *testing.T) {
	h := newWSHarness(t)

	first := h.dial(t, 1)
	sendJoin(t, first, 1, "Ada")

	frame, _ := waitForFrame(t, first, "users:update")
	var sessions []Session
	require.NoError(t, json.Unmarshal(frame.Data, &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, int64(1), sessions[0].UserID)
	assert.Equal(t, "Ada", sessions[0].Name)
	assert.NotEmpty(t, sessions[0].SocketID)

	second := h.dial(t, 2)
	sendJoin(t, second, 2, "Grace")

	// Both connections observe the two-member list, ordered by join
	for _, conn := range []*gorilla.Conn{first, second} {
		for {
			frame, _ = waitForFrame(t, conn, "users:update")
			require.NoError(t, json.Unmarshal(frame.Data, &sessions))
			if len(sessions) == 2 {
				break
			}
		}
		assert.Equal(t, "Ada", sessions[0].Name)
		assert.Equal(t, "Grace", sessions[1].Name)
	}

	second.Close()
	for {
		frame, _ = waitForFrame(t, first, "users:update")
		require.NoError(t, json.Unmarshal(frame.Data, &sessions))
		if len(sessions) == 1 {
			break
		}
	}
	assert.Equal(t, "Ada", sessions[0].Name)
}

func TestBroadcastReachesEverySession(t *testing.T) {
	h := newWSHarness(t)

	conns := make([]*gorilla.Conn, 3)
	for i := range conns {
		userID := int64(i + 1)
		conns[i] = h.dial(t, userID)
		sendJoin(t, conns[i], userID, fmt.Sprintf("user-%d", userID))
		waitForFrame(t, conns[i], "users:update")
	}

	meeting, err := entities.NewMeeting("All hands", time.Now().UTC().Add(time.Hour), time.Now().UTC())
	require.NoError(t, err)
	meeting.ID = 42
	h.publisher.Publish(events.NewMeetingCreated(meeting, time.Now().UTC()))

	for _, conn := range conns {
		frame, _ := waitForFrame(t, conn, "meeting:created")

		var payload entities.Meeting
		require.NoError(t, json.Unmarshal(frame.Data, &payload))
		assert.Equal(t, int64(42), payload.ID)
		assert.Equal(t, "All hands", payload.Title)
		assert.NotZero(t, frame.Timestamp)
	}
}

func TestLateJoinerGetsNoReplay(t *testing.T) {
	h := newWSHarness(t)

	early := h.dial(t, 1)
	sendJoin(t, early, 1, "Early")
	waitForFrame(t, early, "users:update")

	h.publisher.Publish(events.NewTaskDeleted(7, time.Now().UTC()))
	waitForFrame(t, early, "task:deleted")

	late := h.dial(t, 2)
	sendJoin(t, late, 2, "Late")
	waitForFrame(t, late, "users:update")

	// A marker published after the late join must arrive without the
	// earlier notification ever showing up
	h.publisher.Publish(events.NewTaskDeleted(8, time.Now().UTC()))
	frame, seen := waitForFrame(t, late, "task:deleted")

	var deletedID int64
	require.NoError(t, json.Unmarshal(frame.Data, &deletedID))
	assert.Equal(t, int64(8), deletedID)
	for _, f := range seen {
		assert.NotEqual(t, "task:deleted", f.Type)
	}
}

func TestBroadcastDropsSaturatedSessions(t *testing.T) {
	logger := zap.NewNop()
	hub := NewHub(observability.NewCollector("saturated"), logger)

	clients := make([]*Client, 2)
	for i := range clients {
		clients[i] = &Client{
			id:     fmt.Sprintf("conn-%d", i+1),
			userID: int64(i + 1),
			hub:    hub,
			send:   make(chan []byte, 4),
			logger: logger,
		}
		hub.registerClient(clients[i])
	}
	for i, c := range clients {
		hub.joinClient(joinRequest{client: c, name: fmt.Sprintf("user-%d", i+1)})
	}
	require.Equal(t, 2, hub.SessionCount())

	// Saturate both send buffers so the next fan-out fails for every
	// session at once. Dropping the first triggers a presence broadcast
	// that drops the second; the delivery loop must survive that cascade.
	for _, c := range clients {
	fill:
		for {
			select {
			case c.send <- []byte(`{}`):
			default:
				break fill
			}
		}
	}

	hub.broadcastFrame(&Frame{
		Type:      string(events.TaskDeleted),
		Data:      json.RawMessage(`1`),
		Timestamp: time.Now().Unix(),
	})

	assert.Equal(t, 0, hub.SessionCount())
	hub.mu.RLock()
	remaining := len(hub.clients)
	hub.mu.RUnlock()
	assert.Equal(t, 0, remaining)

	// The emptied hub keeps accepting broadcasts
	hub.broadcastFrame(&Frame{
		Type:      string(events.PresenceUpdate),
		Data:      json.RawMessage(`[]`),
		Timestamp: time.Now().Unix(),
	})
}

func TestSessionCount(t *testing.T) {
	h := newWSHarness(t)
	assert.Equal(t, 0, h.hub.SessionCount())

	conn := h.dial(t, 1)

	// Connected but not joined: no presence credit yet
	assert.Equal(t, 0, h.hub.SessionCount())

	sendJoin(t, conn, 1, "Ada")
	waitForFrame(t, conn, "users:update")
	assert.Equal(t, 1, h.hub.SessionCount())

	sessions := h.hub.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "Ada", sessions[0].Name)

	conn.Close()
	require.Eventually(t, func() bool {
		return h.hub.SessionCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
