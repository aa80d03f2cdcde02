package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AtRiskMedia/tractstack-builder/internal/application/container"
	"github.com/AtRiskMedia/tractstack-builder/internal/application/services"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/security"
	"github.com/AtRiskMedia/tractstack-builder/pkg/config"
)

type api struct {
	t      *testing.T
	router *gin.Engine
	c      *container.Container
	token  string
}

func newAPI(t *testing.T, password string) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if password != "" {
		hash, err := security.HashPassword(password)
		require.NoError(t, err)
		config.EditorPasswordHash = hash
		config.JWTSecret = "test-secret"
	} else {
		config.EditorPasswordHash = ""
		config.JWTSecret = ""
	}
	t.Cleanup(func() {
		config.EditorPasswordHash = ""
		config.JWTSecret = ""
	})

	logger := logging.Discard()
	db, err := database.Open(database.Config{SQLitePath: filepath.Join(t.TempDir(), "api.db")}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewTableCreator().CreateSchema(db.DB))

	c := container.NewContainer(db, logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go c.Hub.Run(ctx)

	return &api{t: t, router: SetupRoutes(c), c: c}
}

func (a *api) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *api) openSession(pageTitle string) services.SessionView {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/pages", gin.H{"title": pageTitle})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	page := decode[content.Page](a.t, w)

	w = a.do(http.MethodPost, "/api/v1/editor/sessions", gin.H{"pageId": page.ID})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[services.SessionView](a.t, w)
}

func TestHealth(t *testing.T) {
	a := newAPI(t, "")
	w := a.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, w)["database"])
}

func TestLoginGuardsEditorRoutes(t *testing.T) {
	a := newAPI(t, "letmein")

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/v1/pages", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/v1/auth/login", gin.H{"password": "nope"}).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/v1/auth/login", gin.H{}).Code)

	w := a.do(http.MethodPost, "/api/v1/auth/login", gin.H{"password": "letmein"})
	require.Equal(t, http.StatusOK, w.Code)
	a.token = decode[services.AuthResult](t, w).Token

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/v1/pages", nil).Code)
}

func TestLoginWithoutConfiguredPassword(t *testing.T) {
	a := newAPI(t, "")
	assert.Equal(t, http.StatusServiceUnavailable, a.do(http.MethodPost, "/api/v1/auth/login", gin.H{"password": "x"}).Code)
}

func TestEditingFlow(t *testing.T) {
	a := newAPI(t, "")
	view := a.openSession("Landing")
	base := "/api/v1/editor/sessions/" + view.ID
	assert.Empty(t, view.Tree.Sections)

	w := a.do(http.MethodPost, base+"/commands", `{"op":"add_section"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodPost, base+"/commands", `{"op":"add_module","section":0,"row":0,"column":0,"kind":"heading"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view = decode[services.SessionView](t, w)
	assert.Equal(t, 1, view.Tree.ModuleCount())
	assert.True(t, view.CanUndo)

	w = a.do(http.MethodPost, base+"/commands", `{"op":"delete_column","section":0,"row":0,"column":0}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = a.do(http.MethodPost, base+"/commands", `{"op":"add_module","kind":"marquee"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = a.do(http.MethodPost, base+"/commands", `{"op":"remove_module","section":3}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = a.do(http.MethodPost, base+"/commands", `{"op":"fly"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = a.do(http.MethodPost, base+"/commands", `not json`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodPost, base+"/undo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode[services.SessionView](t, w).Tree.ModuleCount())

	w = a.do(http.MethodPost, base+"/redo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, base+"/redo", nil).Code)

	w = a.do(http.MethodPost, base+"/selection", `{"level":"section","path":{"section":0}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, decode[services.SessionView](t, w).Selection)
	w = a.do(http.MethodPost, base+"/selection", `null`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[services.SessionView](t, w).Selection)

	w = a.do(http.MethodPost, base+"/save", nil)
	require.Equal(t, http.StatusOK, w.Code)
	saved := decode[content.Page](t, w)
	assert.Equal(t, 1, saved.Tree.ModuleCount())

	w = a.do(http.MethodGet, base+"/export?download=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	exported, err := builder.DecodeTree(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, exported.ModuleCount())

	assert.Equal(t, http.StatusOK, a.do(http.MethodDelete, base, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, base, nil).Code)
}

func TestDragFlow(t *testing.T) {
	a := newAPI(t, "")
	view := a.openSession("Drag")
	base := "/api/v1/editor/sessions/" + view.ID
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, base+"/commands", `{"op":"add_section"}`).Code)

	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, base+"/drag/drop", nil).Code)

	w := a.do(http.MethodPost, base+"/drag/start", gin.H{"palette": "text"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodPost, base+"/drag/over", `{"column":{"section":0,"row":0,"column":0},"pointerY":10}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(0), decode[map[string]any](t, w)["index"])

	w = a.do(http.MethodPost, base+"/drag/drop", nil)
	require.Equal(t, http.StatusOK, w.Code)
	drop := decode[services.DropView](t, w)
	assert.True(t, drop.Result.Changed)
	assert.Equal(t, 1, drop.Session.Tree.ModuleCount())

	require.Equal(t, http.StatusOK, a.do(http.MethodPost, base+"/drag/start", gin.H{"palette": "image"}).Code)
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, base+"/drag/over", `{"newSection":0}`).Code)
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, base+"/drag/over", nil).Code)
	w = a.do(http.MethodPost, base+"/drag/drop", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", string(decode[services.DropView](t, w).Result.Outcome))

	require.Equal(t, http.StatusOK, a.do(http.MethodPost, base+"/drag/start", gin.H{"palette": "image"}).Code)
	w = a.do(http.MethodPost, base+"/escape", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "idle", string(decode[services.SessionView](t, w).DragPhase))

	assert.Equal(t, http.StatusUnprocessableEntity, a.do(http.MethodPost, base+"/drag/start", gin.H{"palette": "marquee"}).Code)
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, base+"/drag/start", gin.H{"palette": "image"}).Code)
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, base+"/drag/cancel", nil).Code)
}

func TestLibraryImport(t *testing.T) {
	a := newAPI(t, "")
	w := a.do(http.MethodPost, "/api/v1/library", `{"title":"Hero","category":"headers","sections":[{"modules":[{"type":"heading"}]}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	layout := decode[content.LibraryLayout](t, w)

	w = a.do(http.MethodGet, "/api/v1/library?category=headers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode[map[string]any](t, w)["count"])

	view := a.openSession("Import")
	base := "/api/v1/editor/sessions/" + view.ID
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, base+"/import", gin.H{"libraryId": "ghost"}).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, a.do(http.MethodPost, base+"/import", gin.H{"libraryId": layout.ID, "mode": "merge"}).Code)

	w = a.do(http.MethodPost, base+"/import", gin.H{"libraryId": layout.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = a.do(http.MethodPost, base+"/import", gin.H{"libraryId": layout.ID, "mode": "append"})
	require.Equal(t, http.StatusOK, w.Code)
	view = decode[services.SessionView](t, w)
	require.Len(t, view.Tree.Sections, 2)
	assert.NotEqual(t, view.Tree.Sections[0].ID, view.Tree.Sections[1].ID)

	w = a.do(http.MethodPost, base+"/import", gin.H{"libraryId": layout.ID, "mode": "replace"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[services.SessionView](t, w).Tree.Sections, 1)
}

func TestPagesAPI(t *testing.T) {
	a := newAPI(t, "")
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/v1/pages", `{`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, a.do(http.MethodPost, "/api/v1/pages", gin.H{"title": ""}).Code)

	w := a.do(http.MethodPost, "/api/v1/pages", gin.H{"title": "Docs", "slug": "docs"})
	require.Equal(t, http.StatusCreated, w.Code)
	page := decode[content.Page](t, w)

	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/v1/pages/"+page.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/v1/pages/ghost", nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, "/api/v1/editor/sessions", gin.H{"pageId": "ghost"}).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodDelete, "/api/v1/pages/"+page.ID, nil).Code)
}

func TestWebsocketReceivesTreeChanges(t *testing.T) {
	a := newAPI(t, "")
	view := a.openSession("Live")
	srv := httptest.NewServer(a.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/editor/sessions/" + view.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return a.c.Hub.ClientCount(view.ID) == 1 }, time.Second, 5*time.Millisecond)

	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/v1/editor/sessions/"+view.ID+"/commands", `{"op":"add_section"}`).Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var event messaging.Event
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, messaging.EventTreeChanged, event.Type)
	require.NotNil(t, event.Tree)
	assert.Len(t, event.Tree.Sections, 1)

	_, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/editor/sessions/ghost/ws", nil)
	assert.Error(t, err)
}
