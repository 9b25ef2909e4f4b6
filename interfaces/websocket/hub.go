// Package websocket carries the realtime side of the system: the hub owns
// the set of live sessions and fans every change notification and presence
// update out to all of them. Delivery is best-effort and at-most-once per
// session; there is no replay for sessions that join later.
package websocket

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"meetsync/domain/events"
	"meetsync/pkg/observability"
)

// Session is the presence record for a client that has announced itself
type Session struct {
	UserID   int64  `json:"id"`
	Name     string `json:"name"`
	SocketID string `json:"socketId"`
}

// Frame is the wire envelope for every server-to-client message
type Frame struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

type joinRequest struct {
	client *Client
	name   string
}

// Hub maintains the live connection set and serializes all registry
// changes and broadcasts through a single goroutine, so every session
// observes notifications in publication order.
type Hub struct {
	// All open connections. A connection receives broadcasts as soon as
	// it is registered; it appears in the presence list only after its
	// join announcement.
	clients map[*Client]bool

	// Joined sessions, ordered by join sequence
	sessions map[*Client]Session
	joinSeq  map[*Client]uint64
	nextSeq  uint64

	mu sync.RWMutex

	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	broadcast  chan *Frame

	ctx     context.Context
	cancel  context.CancelFunc
	logger  *zap.Logger
	metrics *observability.Collector
}

// NewHub creates a new hub
func NewHub(metrics *observability.Collector, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:    make(map[*Client]bool),
		sessions:   make(map[*Client]Session),
		joinSeq:    make(map[*Client]uint64),
		register:   make(chan *Client, 100),
		unregister: make(chan *Client, 100),
		join:       make(chan joinRequest, 100),
		broadcast:  make(chan *Frame, 1000),
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run starts the hub's main event loop
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			h.logger.Info("hub shutting down")
			h.closeAllConnections()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case req := <-h.join:
			h.joinClient(req)

		case frame := <-h.broadcast:
			h.broadcastFrame(frame)
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}

// Broadcast queues a frame for delivery to every live session. The frame
// is dropped wholesale if the hub is saturated; per-session failures are
// handled during fan-out.
func (h *Hub) Broadcast(frame *Frame) {
	select {
	case h.broadcast <- frame:
	case <-h.ctx.Done():
	default:
		h.logger.Warn("broadcast queue full, dropping frame", zap.String("type", frame.Type))
		h.metrics.MessagesFailed.Inc()
	}
}

// SessionCount returns the number of sessions that have joined
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Sessions returns the current session list in join order
func (h *Hub) Sessions() []Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessionsLocked()
}

func (h *Hub) sessionsLocked() []Session {
	type seqSession struct {
		seq     uint64
		session Session
	}
	ordered := make([]seqSession, 0, len(h.sessions))
	for client, session := range h.sessions {
		ordered = append(ordered, seqSession{seq: h.joinSeq[client], session: session})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seq < ordered[j].seq })

	out := make([]Session, len(ordered))
	for i, s := range ordered {
		out[i] = s.session
	}
	return out
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	h.metrics.ActiveSessions.Inc()
	h.logger.Info("client connected",
		zap.String("socketID", client.id),
		zap.Int64("userID", client.userID),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	if !h.clients[client] {
		// Duplicate or out-of-order disconnect signal; nothing to do
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	_, joined := h.sessions[client]
	delete(h.sessions, client)
	delete(h.joinSeq, client)
	h.mu.Unlock()

	close(client.send)
	h.metrics.ActiveSessions.Dec()
	h.logger.Info("client disconnected", zap.String("socketID", client.id))

	if joined {
		h.broadcastPresence()
	}
}

// joinClient records (or replaces) the session for a connection and
// announces the new presence list
func (h *Hub) joinClient(req joinRequest) {
	h.mu.Lock()
	if !h.clients[req.client] {
		h.mu.Unlock()
		return
	}
	if _, exists := h.sessions[req.client]; !exists {
		h.nextSeq++
		h.joinSeq[req.client] = h.nextSeq
	}
	h.sessions[req.client] = Session{
		UserID:   req.client.userID,
		Name:     req.name,
		SocketID: req.client.id,
	}
	h.mu.Unlock()

	h.logger.Info("client joined",
		zap.String("socketID", req.client.id),
		zap.String("name", req.name),
	)
	h.broadcastPresence()
}

func (h *Hub) broadcastPresence() {
	h.mu.RLock()
	sessions := h.sessionsLocked()
	h.mu.RUnlock()

	data, err := json.Marshal(sessions)
	if err != nil {
		h.logger.Error("failed to marshal presence list", zap.Error(err))
		return
	}
	h.broadcastFrame(&Frame{
		Type:      string(events.PresenceUpdate),
		Data:      data,
		Timestamp: time.Now().Unix(),
	})
}

// broadcastFrame delivers one frame to every live connection. Each
// delivery is independent: a session that cannot keep up is dropped
// without affecting the others, and the mutating caller never sees it.
func (h *Hub) broadcastFrame(frame *Frame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("failed to marshal frame", zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	var failed []*Client
	for _, client := range targets {
		select {
		case client.send <- payload:
			h.metrics.MessagesSent.Inc()
		default:
			h.metrics.MessagesFailed.Inc()
			failed = append(failed, client)
		}
	}

	// Unregistering a joined client broadcasts presence, re-entering this
	// function. The drops are deferred until the delivery loop is done so
	// a nested broadcast can never close a send channel this loop still
	// has to write to.
	for _, client := range failed {
		h.logger.Warn("client send buffer full, dropping connection",
			zap.String("socketID", client.id),
		)
		h.unregisterClient(client)
	}
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[*Client]bool)
	h.sessions = make(map[*Client]Session)
	h.joinSeq = make(map[*Client]uint64)
	h.mu.Unlock()

	for _, client := range clients {
		close(client.send)
		client.conn.Close()
	}
}
