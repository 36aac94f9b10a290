package websockets

import (
	"encoding/json"
	"sync"
	"xrayserver/config"
	"xrayserver/internal/database"
	"xrayserver/internal/events"
	"xrayserver/internal/logger"

	"github.com/gofiber/websocket/v2"
)

// Manager fans broadcast events out to connected clients. Clients treat any
// message as a hint to re-read the named collection.
type Manager struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
	log   logger.Logger
}

func New(db database.DB, eventBus *events.EventBus, config config.Config) (*Manager, error) {
	m := &Manager{
		conns: make(map[*websocket.Conn]bool),
		log:   logger.New("websockets"),
	}

	go func() {
		if err := eventBus.Subscribe(events.BroadcastChannel, m.broadcast); err != nil {
			m.log.Er("broadcast subscription failed", err)
		}
	}()

	return m, nil
}

// HandleWebSocket owns the connection for its lifetime. Inbound frames are
// drained and discarded; the socket is notify-only.
func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	m.mu.Lock()
	m.conns[c] = true
	m.mu.Unlock()
	log.Debug("client connected", "clients", m.clientCount())

	defer func() {
		m.mu.Lock()
		delete(m.conns, c)
		m.mu.Unlock()
		c.Close()
		log.Debug("client disconnected", "clients", m.clientCount())
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (m *Manager) broadcast(event events.Event) {
	log := m.log.Function("broadcast")

	data, err := json.Marshal(event)
	if err != nil {
		log.Er("failed to encode event", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warn("failed to write to client, dropping", "error", err)
			conn.Close()
			delete(m.conns, conn)
		}
	}
}

func (m *Manager) clientCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.conns)
}
