package assistant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatRouter() http.Handler {
	p := &scriptedProvider{extraction: fenced(`{"intent":"greeting","confidence":0.9}`), reply: fenced(`{"message":"Hello traveller"}`)}
	r := chi.NewRouter()
	RegisterRoutes(r, New(p, newSpyService(), newFakeStore()), nil)
	return r
}

func TestChatRoute(t *testing.T) {
	h := newChatRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi","session_id":"web-1"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Hello traveller", resp.Message)
	assert.Equal(t, IntentGreeting, resp.Intent)
	assert.Equal(t, "web-1", resp.SessionID)
}

func TestChatRouteRequiresSession(t *testing.T) {
	h := newChatRouter()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "session_id")

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebSocketChat(t *testing.T) {
	srv := httptest.NewServer(newChatRouter())
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/chat", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(wsRequest{Type: "message", SessionID: "ws-1", Content: "hi"}))
	var got wsResponse
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "response", got.Type)
	assert.Equal(t, "ws-1", got.SessionID)
	assert.Equal(t, "Hello traveller", got.Content)
	require.NotNil(t, got.Response)
	assert.Equal(t, IntentGreeting, got.Response.Intent)

	require.NoError(t, conn.WriteJSON(wsRequest{Type: "message", Content: "no session"}))
	got = wsResponse{}
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "error", got.Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("garbage")))
	got = wsResponse{}
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "error", got.Type)
	assert.Equal(t, "invalid message format", got.Content)
}
