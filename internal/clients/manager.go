package clients

import (
	"sync"

	"phonemouse/internal/session"
)

// Conn is a live channel connection, whatever transport carries it.
type Conn interface {
	ID() string
	Close() error
}

// Manager tracks live connections and ties their pairing state to their
// lifetime: removing a connection forgets its authorization.
type Manager struct {
	sessions *session.Registry

	mu    sync.RWMutex
	conns map[string]Conn
}

func NewManager(sessions *session.Registry) *Manager {
	return &Manager{sessions: sessions, conns: make(map[string]Conn)}
}

func (m *Manager) Add(c Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[c.ID()] = c
}

// Remove drops c and its authorization. A stale c whose id now belongs to
// another connection is ignored.
func (m *Manager) Remove(c Conn) {
	m.mu.Lock()
	cur, ok := m.conns[c.ID()]
	if !ok || cur != c {
		m.mu.Unlock()
		return
	}
	delete(m.conns, c.ID())
	m.mu.Unlock()
	m.sessions.Forget(c.ID())
}

// Len returns the number of live connections.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// ForEach executes fn with a snapshot of the live connections.
func (m *Manager) ForEach(fn func(c Conn)) {
	m.mu.RLock()
	snap := make([]Conn, 0, len(m.conns))
	for _, c := range m.conns {
		snap = append(snap, c)
	}
	m.mu.RUnlock()
	for _, c := range snap {
		fn(c)
	}
}

// CloseAll closes every live connection. Read loops observe the close and
// Remove themselves.
func (m *Manager) CloseAll() {
	m.ForEach(func(c Conn) { _ = c.Close() })
}
