package handler

import (
	"net/http"
	"sync"

	"go-gin-prize-draw/internal/realtime"
	"go-gin-prize-draw/internal/service"
	"go-gin-prize-draw/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ClientFrame 客戶端 → 伺服器的控制訊息
type ClientFrame struct {
	Action string `json:"action"` // subscribe / unsubscribe
	RoomID string `json:"room_id"`
}

// AckFrame 訂閱/退訂的回覆
type AckFrame struct {
	Type   string `json:"type"` // ack
	Action string `json:"action"`
	RoomID string `json:"room_id"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

type WSHandler struct {
	hub      *realtime.Hub
	rooms    service.RoomService
	auth     gin.HandlerFunc
	upgrader websocket.Upgrader
}

// wsConn 序列化同一條連線上的寫入；gorilla/websocket 不允許並發寫
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsConn) writeJSON(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

func NewWSHandler(hub *realtime.Hub, rooms service.RoomService, auth gin.HandlerFunc) *WSHandler {
	return &WSHandler{
		hub:   hub,
		rooms: rooms,
		auth:  auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("ws", h.auth, h.Serve)
	}
}

// Serve 升級連線後雙向轉送：read loop 處理 subscribe/unsubscribe，
// write loop 把 Hub 投遞到 session 的事件寫回連線。
// 連線結束（正常或異常）都會把訂閱從 Hub 清乾淨。
func (h *WSHandler) Serve(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing credentials")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithComponent("ws").Warn("upgrade failed", zap.Error(err))
		return
	}

	session := realtime.NewSession(user.ID, 32)
	ws := &wsConn{conn: conn}

	go h.writeLoop(ws, session)
	h.readLoop(c, ws, session)
}

func (h *WSHandler) readLoop(c *gin.Context, ws *wsConn, session *realtime.Session) {
	defer func() {
		h.hub.Disconnect(session)
		ws.conn.Close()
	}()

	for {
		var frame ClientFrame
		if err := ws.conn.ReadJSON(&frame); err != nil {
			return
		}

		switch frame.Action {
		case "subscribe":
			h.handleSubscribe(c, ws, session, frame)
		case "unsubscribe":
			h.handleUnsubscribe(c, ws, session, frame)
		default:
			h.writeAck(ws, AckFrame{Type: "ack", Action: frame.Action, RoomID: frame.RoomID, OK: false, Error: "unknown action"})
		}
	}
}

func (h *WSHandler) handleSubscribe(c *gin.Context, ws *wsConn, session *realtime.Session, frame ClientFrame) {
	ack := AckFrame{Type: "ack", Action: "subscribe", RoomID: frame.RoomID}

	roomID, err := uuid.Parse(frame.RoomID)
	if err != nil {
		ack.Error = "invalid room id"
		h.writeAck(ws, ack)
		return
	}

	room, err := h.rooms.GetByRoomID(c, roomID)
	if err != nil {
		ack.Error = "room not found"
		h.writeAck(ws, ack)
		return
	}

	// 訂閱時重新驗證成員資格由 Hub 的 guard 負責
	if err := h.hub.Subscribe(c, session, room.ID); err != nil {
		ack.Error = "forbidden"
		h.writeAck(ws, ack)
		return
	}

	ack.OK = true
	h.writeAck(ws, ack)
}

func (h *WSHandler) handleUnsubscribe(c *gin.Context, ws *wsConn, session *realtime.Session, frame ClientFrame) {
	ack := AckFrame{Type: "ack", Action: "unsubscribe", RoomID: frame.RoomID}

	roomID, err := uuid.Parse(frame.RoomID)
	if err != nil {
		ack.Error = "invalid room id"
		h.writeAck(ws, ack)
		return
	}

	room, err := h.rooms.GetByRoomID(c, roomID)
	if err != nil {
		ack.Error = "room not found"
		h.writeAck(ws, ack)
		return
	}

	h.hub.Unsubscribe(session, room.ID)
	ack.OK = true
	h.writeAck(ws, ack)
}

func (h *WSHandler) writeLoop(ws *wsConn, session *realtime.Session) {
	for evt := range session.Events() {
		if err := ws.writeJSON(evt); err != nil {
			logger.WithComponent("ws").Warn("write event failed", zap.Error(err))
			ws.conn.Close()
			return
		}
	}
	ws.conn.Close()
}

func (h *WSHandler) writeAck(ws *wsConn, ack AckFrame) {
	if err := ws.writeJSON(ack); err != nil {
		logger.WithComponent("ws").Warn("write ack failed", zap.Error(err))
	}
}
