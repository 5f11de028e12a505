package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

// AttendanceUpdate is pushed to a teacher whenever a student checks in to one
// of their sessions.
type AttendanceUpdate struct {
	Type        string    `json:"type"`
	SessionID   string    `json:"session_id"`
	Code        string    `json:"code"`
	ClassName   string    `json:"class_name"`
	Count       int       `json:"count"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name,omitempty"`
	At          time.Time `json:"at"`
}

type attendanceMessage struct {
	ownerID string
	payload []byte
}

// AttendanceHub fans check-in events out to the owning teacher's websocket
// connections. Run owns the client set.
type AttendanceHub struct {
	register   chan *attendanceClient
	unregister chan *attendanceClient
	broadcast  chan attendanceMessage
	clients    map[*attendanceClient]struct{}
	log        *zap.Logger
}

func NewAttendanceHub(log *zap.Logger) *AttendanceHub {
	if log == nil {
		log = zap.NewNop()
	}
	return &AttendanceHub{
		register:   make(chan *attendanceClient),
		unregister: make(chan *attendanceClient),
		broadcast:  make(chan attendanceMessage, 256),
		clients:    make(map[*attendanceClient]struct{}),
		log:        log,
	}
}

func (h *AttendanceHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				if client.ownerID != msg.ownerID {
					continue
				}
				select {
				case client.send <- msg.payload:
				default:
					// slow consumer
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Publish queues update for the teacher ownerID. It never blocks the caller;
// when the queue is full the update is dropped.
func (h *AttendanceHub) Publish(ownerID string, update AttendanceUpdate) {
	if h == nil {
		return
	}
	if update.Type == "" {
		update.Type = "attendance_update"
	}
	data, err := json.Marshal(update)
	if err != nil {
		h.log.Error("marshal attendance update", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- attendanceMessage{ownerID: ownerID, payload: data}:
	default:
		h.log.Warn("attendance broadcast queue full, dropping update", zap.String("session", update.SessionID))
	}
}

type attendanceClient struct {
	hub     *AttendanceHub
	conn    *websocket.Conn
	send    chan []byte
	ownerID string
}

func newAttendanceClient(hub *AttendanceHub, conn *websocket.Conn, ownerID string) *attendanceClient {
	return &attendanceClient{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		ownerID: ownerID,
	}
}

func (c *attendanceClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *attendanceClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
