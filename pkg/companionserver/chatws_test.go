package companionserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiv1 "github.com/hristov111/companion/pkg/apis/companion/v1"
)

func dialChat(t *testing.T, f *fixture) *websocket.Conn {
	t.Helper()

	ts := httptest.NewServer(f.server.newRouter())
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/chat/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestChatWebSocket(t *testing.T) {
	f := newFixture()
	f.llm.reply = "streamed reply"
	conn := dialChat(t, f)

	conversationID := uuid.New()
	require.NoError(t, conn.WriteJSON(apiv1.ChatRequest{
		Message:        "hello over ws",
		ConversationID: conversationID.String(),
	}))

	var response apiv1.ChatResponse
	require.NoError(t, conn.ReadJSON(&response))
	assert.Equal(t, "streamed reply", response.Reply)
	assert.Equal(t, conversationID, response.ConversationID)
}

func TestChatWebSocketValidationKeepsSocketOpen(t *testing.T) {
	f := newFixture()
	conn := dialChat(t, f)

	// An empty message is rejected as a frame, not a close.
	require.NoError(t, conn.WriteJSON(apiv1.ChatRequest{Message: "   "}))

	var failure apiv1.Error
	require.NoError(t, conn.ReadJSON(&failure))
	assert.Equal(t, http.StatusUnprocessableEntity, failure.Code)
	assert.Zero(t, f.llm.calls)

	// The same socket still serves a valid request afterwards.
	require.NoError(t, conn.WriteJSON(apiv1.ChatRequest{Message: "hello"}))

	var response apiv1.ChatResponse
	require.NoError(t, conn.ReadJSON(&response))
	assert.Equal(t, f.llm.reply, response.Reply)
}
