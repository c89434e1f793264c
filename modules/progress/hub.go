package progress

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// 슬롯 진행 상태
const (
	StatusQueued     = "queued"
	StatusGenerating = "generating"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Event - 배치 내 슬롯 1개의 진행 상태 이벤트
type Event struct {
	BatchID string `json:"batchId"`
	SlotID  int    `json:"slotId"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 개발용 - 모든 origin 허용
		return true
	},
}

// subscriber - 배치 1개를 구독 중인 클라이언트
type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub - 배치별 진행 이벤트 브로드캐스트 허브
type Hub struct {
	mu      sync.RWMutex
	batches map[string]map[*subscriber]bool
}

// NewHub - 진행 이벤트 허브 생성
func NewHub() *Hub {
	return &Hub{
		batches: make(map[string]map[*subscriber]bool),
	}
}

// Publish - 배치 구독자 전원에게 슬롯 이벤트 전송
// 구독자가 없으면 조용히 버림 (생성 파이프라인은 허브 상태와 무관하게 진행)
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	subs := h.batches[event.BatchID]
	h.mu.RUnlock()

	if len(subs) == 0 {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("❌ [Progress] Failed to marshal event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.batches[event.BatchID] {
		select {
		case sub.send <- data:
		default:
			// 밀린 클라이언트는 끊는다
			close(sub.send)
			delete(h.batches[event.BatchID], sub)
		}
	}
}

// HandleWS - GET /ws?batch=<id> 구독 핸들러
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	batchID := r.URL.Query().Get("batch")
	if batchID == "" {
		http.Error(w, "batch parameter required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ [Progress] WebSocket upgrade failed: %v", err)
		return
	}

	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, 16),
	}

	h.mu.Lock()
	if h.batches[batchID] == nil {
		h.batches[batchID] = make(map[*subscriber]bool)
	}
	h.batches[batchID][sub] = true
	count := len(h.batches[batchID])
	h.mu.Unlock()

	log.Printf("🔌 [Progress] Subscriber joined batch %s (subscribers: %d)", batchID, count)

	go sub.writePump()
	h.readPump(batchID, sub)
}

// readPump - 클라이언트 수신 루프. 연결 종료 감지용
func (h *Hub) readPump(batchID string, sub *subscriber) {
	defer func() {
		h.mu.Lock()
		if subs, ok := h.batches[batchID]; ok {
			if _, exists := subs[sub]; exists {
				close(sub.send)
				delete(subs, sub)
			}
			if len(subs) == 0 {
				delete(h.batches, batchID)
			}
		}
		h.mu.Unlock()
		sub.conn.Close()
		log.Printf("👋 [Progress] Subscriber left batch %s", batchID)
	}()

	sub.conn.SetReadLimit(512)
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump - 이벤트 송신 루프
func (s *subscriber) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
