package session

import (
	"fmt"
	"sync"
	"time"
)

// Manager tracks the set of live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	defaults Options
	closed   bool
}

// NewManager creates a session manager. The given options are the defaults
// applied to every session the manager creates.
func NewManager(defaults Options) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		defaults: defaults,
	}
}

// Create starts a new session and registers it with the manager.
// Zero-valued fields in opts fall back to the manager defaults.
func (m *Manager) Create(opts Options) (*Session, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrManagerClosed
	}
	m.mu.Unlock()

	if opts.Shell == "" {
		opts.Shell = m.defaults.Shell
	}
	if opts.WorkDir == "" {
		opts.WorkDir = m.defaults.WorkDir
	}
	if opts.Cols <= 0 {
		opts.Cols = m.defaults.Cols
	}
	if opts.Rows <= 0 {
		opts.Rows = m.defaults.Rows
	}
	if opts.Scrollback == 0 {
		opts.Scrollback = m.defaults.Scrollback
	}
	opts.Login = opts.Login || m.defaults.Login
	if len(m.defaults.Env) > 0 {
		opts.Env = append(append([]string{}, m.defaults.Env...), opts.Env...)
	}

	s, err := New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		s.Close()
		return nil, ErrManagerClosed
	}
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	// Deregister once the child exits.
	go func() {
		<-s.Done()
		m.mu.Lock()
		delete(m.sessions, s.ID())
		m.mu.Unlock()
	}()

	return s, nil
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// List returns all live sessions.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	return list
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close terminates the session with the given ID.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s.Close()
}

// CloseAll terminates every live session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// Shutdown closes the manager and all sessions, waiting up to timeout for
// them to exit cleanly.
func (m *Manager) Shutdown(timeout time.Duration) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		m.CloseAll()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timed out after %v", timeout)
	}
}
