// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoSession is wrapped by manager operations that name a session
// which is not open.
var ErrNoSession = errors.New("no such session")

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager tracks open sessions by name and which one is current.
// The shell loop is single-threaded, so Manager carries no locking.
type Manager struct {
	sessions map[string]*Session
	current  *Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Add registers a session under its name and makes it current.
func (m *Manager) Add(s *Session) error {
	if _, ok := m.sessions[s.Name()]; ok {
		return fmt.Errorf("session %q already open", s.Name())
	}
	m.sessions[s.Name()] = s
	m.current = s
	return nil
}

// Get returns the session with the given name, or nil.
func (m *Manager) Get(name string) *Session {
	return m.sessions[name]
}

// Remove closes the named session and drops it. If it was current, the
// current session becomes nil.
func (m *Manager) Remove(name string) error {
	s, ok := m.sessions[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoSession, name)
	}
	delete(m.sessions, name)
	if m.current == s {
		m.current = nil
	}
	return s.Close()
}

// SetCurrent switches the current session by name.
func (m *Manager) SetCurrent(name string) error {
	s, ok := m.sessions[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoSession, name)
	}
	m.current = s
	return nil
}

// Current returns the active session, or nil when disconnected.
func (m *Manager) Current() *Session {
	return m.current
}

// Names returns all open session names in lexical order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.sessions))
	for name := range m.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	return len(m.sessions)
}

// CloseAll closes every open session; the first error wins.
func (m *Manager) CloseAll() error {
	var first error
	for name, s := range m.sessions {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
		delete(m.sessions, name)
	}
	m.current = nil
	return first
}
