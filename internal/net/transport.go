package net

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// sendBuffer is how many frames a slow viewer may lag before frames are
// dropped for it.
const sendBuffer = 4

// Peer is one connected viewer.
type Peer struct {
	conn *websocket.Conn
	send chan []byte
	addr string
}

// Hub is used by the HOST to fan frames out to every connected viewer.
// The last frame is kept so late joiners see the current picture at once.
type Hub struct {
	peers map[*Peer]struct{}
	last  []byte
	mu    sync.RWMutex
	log   *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		peers: make(map[*Peer]struct{}),
		log:   logger,
	}
}

// Add registers conn and starts its writer. The returned peer is removed
// automatically once the connection fails.
func (h *Hub) Add(conn *websocket.Conn) *Peer {
	p := &Peer{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		addr: conn.RemoteAddr().String(),
	}

	h.mu.Lock()
	h.peers[p] = struct{}{}
	if h.last != nil {
		p.send <- h.last
	}
	h.mu.Unlock()
	h.log.Info("viewer connected", "addr", p.addr)

	go h.writeLoop(p)
	go h.readLoop(p)
	return p
}

// Remove drops p and closes its connection. Safe to call more than once.
func (h *Hub) Remove(p *Peer) {
	h.mu.Lock()
	if _, ok := h.peers[p]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.peers, p)
	close(p.send)
	h.mu.Unlock()
	p.conn.Close()
	h.log.Info("viewer disconnected", "addr", p.addr)
}

// Broadcast queues frame for every viewer. Viewers whose queue is full
// skip this frame.
func (h *Hub) Broadcast(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = frame
	for p := range h.peers {
		select {
		case p.send <- frame:
		default:
			h.log.Debug("viewer lagging, frame dropped", "addr", p.addr)
		}
	}
}

// Last returns the most recent frame, or nil before the first broadcast.
func (h *Hub) Last() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.RLock()
	peers := make([]*Peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.RUnlock()
	for _, p := range peers {
		h.Remove(p)
	}
}

func (h *Hub) writeLoop(p *Peer) {
	for frame := range p.send {
		if err := p.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			h.log.Warn("error sending frame", "addr", p.addr, "err", err)
			go h.Remove(p)
			// Drain until Remove closes the channel.
			for range p.send {
			}
			return
		}
	}
}

// readLoop only watches for the viewer going away; viewers never send.
func (h *Hub) readLoop(p *Peer) {
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			h.Remove(p)
			return
		}
	}
}
