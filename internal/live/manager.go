// Package live pushes periodic updates to browser tabs over WebSocket.
package live

import (
	"log/slog"
	"sync"

	"github.com/coder/websocket"

	"github.com/ashureev/shsh-demos/internal/domain"
)

// SessionManager tracks the open connection of each tab session.
type SessionManager struct {
	mu     sync.RWMutex
	active map[domain.SessionKey]*websocket.Conn
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		active: make(map[domain.SessionKey]*websocket.Conn),
	}
}

// Register adds conn for key, closing any connection it replaces.
func (m *SessionManager) Register(key domain.SessionKey, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.active[key]; ok && existing != conn {
		_ = existing.Close(websocket.StatusNormalClosure, "session replaced")
	}
	m.active[key] = conn
	slog.Info("Live session registered", "user_id", key.UserID, "session_id", key.SessionID)
}

// Unregister removes conn if it is still the one registered for key.
func (m *SessionManager) Unregister(key domain.SessionKey, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.active[key]; ok && current == conn {
		delete(m.active, key)
		slog.Info("Live session unregistered", "user_id", key.UserID, "session_id", key.SessionID)
	}
}

// CloseSession terminates the connection of an expired session.
func (m *SessionManager) CloseSession(key domain.SessionKey) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn, ok := m.active[key]
	if !ok {
		return
	}
	_ = conn.Close(websocket.StatusNormalClosure, "session expired")
	delete(m.active, key)
	slog.Info("Live session closed", "user_id", key.UserID, "session_id", key.SessionID)
}

// Count returns the number of open sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}
