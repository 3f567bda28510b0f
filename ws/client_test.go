package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cobfacil_backend/internal/services"
	"cobfacil_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatService stands in for the persistence layer. Relay records the
// message and pushes it to the receiver, mirroring the store-then-push order
// of the real service.
type fakeChatService struct {
	mu       sync.Mutex
	relayed  []dto.MessageResponse
	registry *Registry
	failWith error
}

func (f *fakeChatService) Relay(billingID, senderID, receiverID, content string) (*dto.MessageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWith != nil {
		return nil, f.failWith
	}

	msg := dto.MessageResponse{
		BillingID:  billingID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  time.Now(),
	}
	f.relayed = append(f.relayed, msg)
	f.registry.Push(receiverID, dto.NewChatMessageFrame(&msg))
	return &msg, nil
}

func (f *fakeChatService) GetBillingMessages(string, string, dto.MessageCriteria) (*dto.MessageListResponse, error) {
	return &dto.MessageListResponse{}, nil
}

func (f *fakeChatService) MarkMessagesRead(string, string) error { return nil }

func (f *fakeChatService) GetUnreadCount(string) (int64, error) { return 0, nil }

func (f *fakeChatService) relayedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.relayed)
}

var _ services.ChatService = (*fakeChatService)(nil)

func startTestServer(t *testing.T) (*Registry, *fakeChatService, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := NewRegistry()
	chat := &fakeChatService{registry: registry}
	handler := NewHandler(registry, chat, 16)

	router := gin.New()
	router.GET("/ws", handler.ServeWS)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	return registry, chat, wsURL
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func authenticate(t *testing.T, conn *websocket.Conn, registry *Registry, userID string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "auth", "userId": userID}))
	require.Eventually(t, func() bool {
		return registry.IsConnected(userID)
	}, time.Second, 10*time.Millisecond, "auth frame did not bind %s", userID)
}

func TestAuthFrameBindsConnection(t *testing.T) {
	registry, _, url := startTestServer(t)

	conn := dial(t, url)
	require.False(t, registry.IsConnected("alice"))

	authenticate(t, conn, registry, "alice")
	assert.Equal(t, 1, registry.Count())
}

func TestBindDoesNotReplayMissedPushes(t *testing.T) {
	registry, _, url := startTestServer(t)

	// Push while offline is a silent no-op, not a queue.
	require.False(t, registry.Push("alice", dto.NewNotificationFrame(&dto.NotificationResponse{ID: "n-1"})))

	conn := dial(t, url)
	authenticate(t, conn, registry, "alice")

	conn.SetReadDeadline(time.Now().Add(150 * time.Millisecond))
	var anything map[string]any
	err := conn.ReadJSON(&anything)
	require.Error(t, err, "a fresh bind must not receive prior pushes")
}

func TestChatMessageRoundTrip(t *testing.T) {
	registry, chat, url := startTestServer(t)

	sender := dial(t, url)
	receiver := dial(t, url)
	authenticate(t, sender, registry, "alice")
	authenticate(t, receiver, registry, "bob")

	require.NoError(t, sender.WriteJSON(map[string]string{
		"type":       "chat_message",
		"billingId":  "billing-1",
		"receiverId": "bob",
		"content":    "oi, tudo bem?",
	}))

	receiver.SetReadDeadline(time.Now().Add(time.Second))
	var frame struct {
		Type    string              `json:"type"`
		Message dto.MessageResponse `json:"message"`
	}
	require.NoError(t, receiver.ReadJSON(&frame))

	assert.Equal(t, dto.FrameTypeChatMessage, frame.Type)
	assert.Equal(t, "billing-1", frame.Message.BillingID)
	assert.Equal(t, "alice", frame.Message.SenderID)
	assert.Equal(t, "bob", frame.Message.ReceiverID)
	assert.Equal(t, "oi, tudo bem?", frame.Message.Content)
	assert.Equal(t, 1, chat.relayedCount())
}

func TestChatMessageBeforeAuthIsDropped(t *testing.T) {
	registry, chat, url := startTestServer(t)

	conn := dial(t, url)
	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":       "chat_message",
		"billingId":  "billing-1",
		"receiverId": "bob",
		"content":    "ignored",
	}))

	// The frame must be dropped without persisting, and the socket must
	// still accept a subsequent auth.
	authenticate(t, conn, registry, "alice")
	assert.Equal(t, 0, chat.relayedCount())
}

func TestUnknownFrameKeepsConnectionAlive(t *testing.T) {
	registry, _, url := startTestServer(t)

	conn := dial(t, url)
	authenticate(t, conn, registry, "alice")

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "presence_ping"}))

	// Still bound and still processing frames afterwards.
	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":       "chat_message",
		"billingId":  "billing-1",
		"receiverId": "bob",
		"content":    "ainda aqui",
	}))
	require.Eventually(t, func() bool {
		return registry.IsConnected("alice")
	}, time.Second, 10*time.Millisecond)
}

func TestMalformedFrameKeepsConnectionAlive(t *testing.T) {
	registry, chat, url := startTestServer(t)

	conn := dial(t, url)
	authenticate(t, conn, registry, "alice")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":       "chat_message",
		"billingId":  "billing-1",
		"receiverId": "bob",
		"content":    "sobrevivi",
	}))
	require.Eventually(t, func() bool {
		return chat.relayedCount() == 1
	}, time.Second, 10*time.Millisecond)
	assert.True(t, registry.IsConnected("alice"))
}

func TestRelayErrorKeepsConnectionAlive(t *testing.T) {
	registry, chat, url := startTestServer(t)

	conn := dial(t, url)
	authenticate(t, conn, registry, "alice")

	chat.mu.Lock()
	chat.failWith = assert.AnError
	chat.mu.Unlock()

	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":       "chat_message",
		"billingId":  "billing-1",
		"receiverId": "bob",
		"content":    "vai falhar",
	}))

	chat.mu.Lock()
	chat.failWith = nil
	chat.mu.Unlock()

	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":       "chat_message",
		"billingId":  "billing-1",
		"receiverId": "bob",
		"content":    "agora vai",
	}))
	require.Eventually(t, func() bool {
		return chat.relayedCount() == 1
	}, time.Second, 10*time.Millisecond)
	assert.True(t, registry.IsConnected("alice"))
}

func TestCloseUnbindsConnection(t *testing.T) {
	registry, _, url := startTestServer(t)

	conn := dial(t, url)
	authenticate(t, conn, registry, "alice")

	conn.Close()
	require.Eventually(t, func() bool {
		return !registry.IsConnected("alice")
	}, time.Second, 10*time.Millisecond)
}

func TestSecondConnectionSupersedesFirst(t *testing.T) {
	registry, chat, url := startTestServer(t)

	first := dial(t, url)
	authenticate(t, first, registry, "alice")
	firstClient := registry.Get("alice")

	second := dial(t, url)
	require.NoError(t, second.WriteJSON(map[string]string{"type": "auth", "userId": "alice"}))
	require.Eventually(t, func() bool {
		return registry.Get("alice") != nil && registry.Get("alice") != firstClient
	}, time.Second, 10*time.Millisecond)

	// Pushes now land on the second socket.
	sender := dial(t, url)
	authenticate(t, sender, registry, "bob")
	require.NoError(t, sender.WriteJSON(map[string]string{
		"type":       "chat_message",
		"billingId":  "billing-1",
		"receiverId": "alice",
		"content":    "para a nova conexão",
	}))

	second.SetReadDeadline(time.Now().Add(time.Second))
	var frame struct {
		Type    string              `json:"type"`
		Message dto.MessageResponse `json:"message"`
	}
	require.NoError(t, second.ReadJSON(&frame))
	assert.Equal(t, "para a nova conexão", frame.Message.Content)

	// The first socket closing late must not evict the replacement.
	first.Close()
	time.Sleep(50 * time.Millisecond)
	assert.True(t, registry.IsConnected("alice"))
	assert.Equal(t, 1, chat.relayedCount())
}
