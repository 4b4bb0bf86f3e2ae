package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/prep-ai/interview-service/internal/realtime"
	"github.com/prep-ai/interview-service/internal/services"
	"github.com/prep-ai/interview-service/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 16 * 1024
)

// RealtimeHandler upgrades websocket connections into interview rooms. A
// client joins the room of a session it owns and every frame it sends is
// relayed to the other clients in that room.
type RealtimeHandler struct {
	BaseHandler
	hub            *realtime.Hub
	sessionService services.SessionService
	upgrader       websocket.Upgrader
}

func NewRealtimeHandler(hub *realtime.Hub, sessionService services.SessionService, logger utils.Logger, allowedOrigin string) *RealtimeHandler {
	return &RealtimeHandler{
		BaseHandler:    NewBaseHandler(logger),
		hub:            hub,
		sessionService: sessionService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// JoinSession handles GET /ws/sessions/:id. Ownership is checked before the
// upgrade so a non-owner never reaches the room.
func (h *RealtimeHandler) JoinSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if _, err := h.sessionService.Get(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.LogError(c, err, "Websocket upgrade failed", "session_id", id)
		return
	}

	client := &realtime.Client{
		ID:     uuid.New().String(),
		RoomID: realtime.RoomID(id),
		Send:   make(chan []byte, 64),
	}
	h.hub.Register(client)

	h.LogRequest(c, "Client joined session room", "session_id", id, "client_id", client.ID)

	go h.writePump(conn, client)
	go h.readPump(conn, client)
}

// readPump relays inbound frames to the rest of the room until the client
// disconnects.
func (h *RealtimeHandler) readPump(conn *websocket.Conn, client *realtime.Client) {
	defer func() {
		h.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		h.hub.Relay(client.RoomID, client.ID, payload)
	}
}

// writePump drains the client's send channel onto the socket and keeps the
// connection alive with pings.
func (h *RealtimeHandler) writePump(conn *websocket.Conn, client *realtime.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case payload, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
