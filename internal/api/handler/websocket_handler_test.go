package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bhardwajj01/parkingrevolution/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketBroadcastOnBookingEvent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	wsManager := NewWebSocketManager()
	go wsManager.Start()

	r := gin.New()
	r.GET("/ws", NewWebSocketHandler(wsManager).HandleWebSocket)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Chờ manager ghi nhận client trước khi broadcast
	require.Eventually(t, func() bool {
		wsManager.mutex.RLock()
		defer wsManager.mutex.RUnlock()
		return len(wsManager.clients) == 1
	}, time.Second, 10*time.Millisecond)

	event := domain.BookingEventNotification{
		EventID:     "evt-1",
		EventType:   domain.BookingEventCreated,
		UserID:      7,
		SpotID:      3,
		SpotNumber:  "A3",
		BookingDate: "2026-09-15",
		StartTime:   "09:00:00",
		EndTime:     "11:00:00",
		OccurredAt:  time.Now().UTC(),
	}
	wsManager.NotifyBookingEvent(event)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	// Decode thành map để kiểm tra đúng tên key trên wire
	var received map[string]any
	require.NoError(t, json.Unmarshal(message, &received))
	assert.Equal(t, "evt-1", received["event_id"])
	assert.Equal(t, domain.BookingEventCreated, received["event_type"])
	assert.Equal(t, float64(7), received["user_id"])
	assert.Equal(t, float64(3), received["spot_id"])
	assert.Equal(t, "A3", received["spot_number"])
}
