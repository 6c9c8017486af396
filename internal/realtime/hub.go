package realtime

import (
	"context"
	"sync"

	apperrors "go-gin-prize-draw/pkg/app_errors"
	"go-gin-prize-draw/pkg/logger"

	"go.uber.org/zap"
)

// MembershipGuard 訂閱時重新確認連線的使用者目前仍是房間參加者
// （頁面載入到訂閱之間，成員資格可能已經改變）
type MembershipGuard interface {
	IsParticipant(ctx context.Context, userID, roomID int) (bool, error)
}

// Session 一條即時連線。事件先進 send channel，由傳輸層（websocket writer）排空，
// Hub 本身不碰網路
type Session struct {
	UserID int

	mu     sync.Mutex
	rooms  map[int]struct{}
	send   chan *Envelope
	closed bool
}

func NewSession(userID int, buffer int) *Session {
	if buffer <= 0 {
		buffer = 16
	}
	return &Session{
		UserID: userID,
		rooms:  make(map[int]struct{}),
		send:   make(chan *Envelope, buffer),
	}
}

// Events 傳輸層從這裡讀取要送出的事件；channel 關閉代表 session 已結束
func (s *Session) Events() <-chan *Envelope {
	return s.send
}

// deliver 非阻塞投遞：訂閱者讀太慢就丟棄，等它下次全量刷新補齊
func (s *Session) deliver(evt *Envelope) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- evt:
		return true
	default:
		return false
	}
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
}

// Hub 房間廣播中心：追蹤每個房間的訂閱連線，把已提交的狀態變更推給訂閱者。
// 單一 dispatcher（broadcast worker）依提交順序呼叫 Broadcast，
// 因此同一房間的事件進入每條 send channel 的順序就是提交順序。
type Hub struct {
	guard MembershipGuard

	mu    sync.Mutex
	rooms map[int]map[*Session]struct{}
}

func NewHub(guard MembershipGuard) *Hub {
	return &Hub{
		guard: guard,
		rooms: make(map[int]map[*Session]struct{}),
	}
}

// Subscribe 把 session 加入房間的廣播群組。
// 訂閱前重新驗證成員資格；驗證失敗或查詢出錯都不會留下半套的訂閱
func (h *Hub) Subscribe(ctx context.Context, s *Session, roomID int) error {
	ok, err := h.guard.IsParticipant(ctx, s.UserID, roomID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrForbidden
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	subs, exists := h.rooms[roomID]
	if !exists {
		subs = make(map[*Session]struct{})
		h.rooms[roomID] = subs
	}
	subs[s] = struct{}{}

	s.mu.Lock()
	s.rooms[roomID] = struct{}{}
	s.mu.Unlock()

	return nil
}

func (h *Hub) Unsubscribe(s *Session, roomID int) {
	h.mu.Lock()
	if subs, exists := h.rooms[roomID]; exists {
		delete(subs, s)
		if len(subs) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()

	s.mu.Lock()
	delete(s.rooms, roomID)
	s.mu.Unlock()
}

// Disconnect 連線結束（主動或異常斷線）時清掉所有訂閱，不留殘餘
func (h *Hub) Disconnect(s *Session) {
	s.mu.Lock()
	roomIDs := make([]int, 0, len(s.rooms))
	for roomID := range s.rooms {
		roomIDs = append(roomIDs, roomID)
	}
	s.rooms = make(map[int]struct{})
	s.mu.Unlock()

	h.mu.Lock()
	for _, roomID := range roomIDs {
		if subs, exists := h.rooms[roomID]; exists {
			delete(subs, s)
			if len(subs) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	h.mu.Unlock()

	s.close()
}

// Broadcast 把事件推給該房間的所有訂閱者，房間以外的連線不會收到
func (h *Hub) Broadcast(evt *Envelope) {
	h.mu.Lock()
	subs := make([]*Session, 0, len(h.rooms[evt.RoomRef]))
	for s := range h.rooms[evt.RoomRef] {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		if !s.deliver(evt) {
			logger.WithComponent("hub").Warn("drop event for slow subscriber",
				zap.Int("user_id", s.UserID),
				zap.Int("room_id", evt.RoomRef),
				zap.String("event", string(evt.Event)))
		}
	}
}

// SubscriberCount 回傳房間目前的訂閱數，測試與監控用
func (h *Hub) SubscriberCount(roomID int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomID])
}
