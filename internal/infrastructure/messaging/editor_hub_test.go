package messaging

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

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/editor"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
)

func startHub(t *testing.T) (*EditorHub, *httptest.Server) {
	t.Helper()
	hub := NewEditorHub(logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Attach(conn, r.URL.Query().Get("session"))
	}))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, session string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?session=" + session
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var event Event
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

func TestHubDeliversSessionEvents(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "s1")
	other := dial(t, srv, "s2")
	require.Eventually(t, func() bool { return hub.ClientCount("s1") == 1 && hub.ClientCount("s2") == 1 }, time.Second, 5*time.Millisecond)

	tree := builder.NewTree()
	tree.Sections = append(tree.Sections, &builder.Section{ID: "sec"})
	hub.TreeChanged("s1", tree)
	hub.SelectionChanged("s1", editor.SelectSection(0))

	event := readEvent(t, conn)
	assert.Equal(t, EventTreeChanged, event.Type)
	assert.Equal(t, "s1", event.SessionID)
	require.NotNil(t, event.Tree)
	assert.Equal(t, "sec", event.Tree.Sections[0].ID)

	event = readEvent(t, conn)
	assert.Equal(t, EventSelectionChanged, event.Type)
	assert.Equal(t, editor.SelectSection(0), event.Selection)

	// the other session hears nothing
	require.NoError(t, other.SetReadDeadline(time.Now().Add(50*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err)
}

func TestHubCloseSession(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "s1")
	require.Eventually(t, func() bool { return hub.ClientCount("s1") == 1 }, time.Second, 5*time.Millisecond)

	hub.CloseSession("s1")
	assert.Equal(t, EventSessionClosed, readEvent(t, conn).Type)
	require.Eventually(t, func() bool { return hub.ClientCount("s1") == 0 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "s1")
	require.Eventually(t, func() bool { return hub.ClientCount("s1") == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount("s1") == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestHubAttachWithoutRunRejects(t *testing.T) {
	hub := NewEditorHub(logging.Discard())
	hub.wait = 20 * time.Millisecond

	attached := make(chan *Client, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		attached <- hub.Attach(conn, "s1")
	}))
	defer srv.Close()

	conn := dial(t, srv, "s1")
	select {
	case client := <-attached:
		assert.Nil(t, client)
	case <-time.After(2 * time.Second):
		t.Fatal("Attach blocked on a stopped hub")
	}
	assert.Zero(t, hub.ClientCount("s1"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
