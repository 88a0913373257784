package net

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"SignaturePad/internal/pad"
	"SignaturePad/internal/state"

	"github.com/gorilla/websocket"
)

const (
	MirrorPath = "/mirror"

	writeWait  = 5 * time.Second
	sendBuffer = 256
)

// FrameType tags a mirror message.
type FrameType string

const (
	FrameSync FrameType = "sync"
	FrameOp   FrameType = "op"
)

// Frame is one JSON text message sent to mirror viewers.
type Frame struct {
	Type FrameType `json:"type"`
	Sync *pad.Sync `json:"sync,omitempty"`
	Op   *state.Op `json:"op,omitempty"`
}

// peer is one connected viewer with its own writer goroutine.
type peer struct {
	conn *websocket.Conn
	send chan []byte
}

func (p *peer) writeLoop() {
	defer p.conn.Close()
	for msg := range p.send {
		_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			slog.Debug("mirror write failed", "component", "mirror", "peer", p.conn.RemoteAddr().String(), "error", err)
			return
		}
	}
	_ = p.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Hub serves the read-only live mirror of one pad.
type Hub struct {
	snapshot func() (pad.Sync, error)
	upgrader websocket.Upgrader
	peers    map[*peer]bool
	mu       sync.RWMutex
	log      *slog.Logger
}

// NewHub takes the function used to catch new viewers up, normally
// (*pad.Pad).SyncState.
func NewHub(snapshot func() (pad.Sync, error)) *Hub {
	return &Hub{
		snapshot: snapshot,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		peers:    make(map[*peer]bool),
		log:      slog.Default().With("component", "mirror"),
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", "error", err)
		return
	}
	p := &peer{conn: conn, send: make(chan []byte, sendBuffer)}

	if err := h.add(p); err != nil {
		h.log.Warn("sync failed", "peer", r.RemoteAddr, "error", err)
		conn.Close()
		return
	}
	go p.writeLoop()
	h.log.Info("viewer connected", "peer", r.RemoteAddr)

	// Viewers never send anything meaningful; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(p)
			h.log.Info("viewer disconnected", "peer", r.RemoteAddr, "error", err)
			return
		}
	}
}

// add queues the sync frame and registers p in one critical section so no
// op published in between is lost.
func (h *Hub) add(p *peer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, err := h.snapshot()
	if err != nil {
		return err
	}
	data, err := json.Marshal(Frame{Type: FrameSync, Sync: &s})
	if err != nil {
		return err
	}
	p.send <- data
	h.peers[p] = true
	return nil
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.peers[p] {
		delete(h.peers, p)
		close(p.send)
	}
}

// Publish queues op for every viewer. A viewer whose queue is full is
// dropped; it can reconnect and resync.
func (h *Hub) Publish(op state.Op) {
	data, err := json.Marshal(Frame{Type: FrameOp, Op: &op})
	if err != nil {
		h.log.Error("encode op", "error", err)
		return
	}

	var slow []*peer
	h.mu.RLock()
	for p := range h.peers {
		select {
		case p.send <- data:
		default:
			slow = append(slow, p)
		}
	}
	h.mu.RUnlock()

	for _, p := range slow {
		h.log.Warn("dropping slow viewer", "peer", p.conn.RemoteAddr().String())
		h.remove(p)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.peers {
		delete(h.peers, p)
		close(p.send)
	}
}
