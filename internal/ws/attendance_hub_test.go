package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/eduapp_backend/internal/models"
)

func TestAttendanceHub_DeliversToOwnerOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewAttendanceHub(nil)
	go hub.Run()

	r := gin.New()
	r.GET("/live/:owner", func(c *gin.Context) {
		c.Set("user", models.User{UserID: c.Param("owner"), Role: models.RoleTeacher})
		c.Next()
	}, AttendanceHandler(hub))
	srv := httptest.NewServer(r)
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http")

	owner, _, err := websocket.DefaultDialer.Dial(base+"/live/teacher-1", nil)
	require.NoError(t, err)
	defer owner.Close()
	other, _, err := websocket.DefaultDialer.Dial(base+"/live/teacher-2", nil)
	require.NoError(t, err)
	defer other.Close()

	// registration races with the first publish, so keep publishing until read
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				hub.Publish("teacher-1", AttendanceUpdate{SessionID: "s1", Code: "MTH101", Count: 1})
			}
		}
	}()

	var got AttendanceUpdate
	owner.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := owner.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "attendance_update", got.Type)
	assert.Equal(t, "MTH101", got.Code)
	assert.Equal(t, 1, got.Count)

	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err, "teacher-2 must not receive teacher-1 updates")
}

func TestAttendanceHandler_RejectsStudents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewAttendanceHub(nil)
	r := gin.New()
	r.GET("/live", func(c *gin.Context) {
		c.Set("user", models.User{UserID: "s", Role: models.RoleStudent})
		c.Next()
	}, AttendanceHandler(hub))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPublish_NilHubIsNoop(t *testing.T) {
	var hub *AttendanceHub
	hub.Publish("x", AttendanceUpdate{})
}
