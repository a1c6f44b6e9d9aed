package userform

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultIdleTimeout is how long a session without requests or live
// connections is kept.
const DefaultIdleTimeout = 30 * time.Minute

// SessionsConfig configures a Sessions manager.
type SessionsConfig struct {
	// IdleTimeout evicts sessions unused for longer. Zero uses
	// DefaultIdleTimeout.
	IdleTimeout time.Duration

	// CleanupInterval is how often idle sessions are swept. Zero uses a
	// quarter of IdleTimeout.
	CleanupInterval time.Duration

	// New builds the session for a fresh id.
	New func(id string) *Session

	// OnOpen and OnClose are called outside the lock as sessions come and go.
	OnOpen  func(*Session)
	OnClose func(*Session)
}

type sessionEntry struct {
	session  *Session
	lastSeen time.Time
	conns    int
}

// Sessions tracks the live sessions of one server and evicts idle ones.
type Sessions struct {
	config SessionsConfig
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry

	done        chan struct{}
	cleanupDone chan struct{}
	closeOnce   sync.Once
}

// NewSessions starts a manager and its cleanup loop. Call Close to stop it.
func NewSessions(config SessionsConfig, logger *slog.Logger) *Sessions {
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultIdleTimeout
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = config.IdleTimeout / 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Sessions{
		config:      config,
		logger:      logger,
		now:         time.Now,
		sessions:    make(map[string]*sessionEntry),
		done:        make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// Create starts a session with a random id.
func (m *Sessions) Create() *Session {
	s := m.config.New(uuid.NewString())

	m.mu.Lock()
	m.sessions[s.ID] = &sessionEntry{session: s, lastSeen: m.now()}
	m.mu.Unlock()

	if m.config.OnOpen != nil {
		m.config.OnOpen(s)
	}
	return s
}

// Get returns the session for id and marks it used.
func (m *Sessions) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = m.now()
	return e.session, true
}

// Attach marks a live connection on the session. Attached sessions are
// never evicted. The returned func detaches.
func (m *Sessions) Attach(s *Session) func() {
	m.mu.Lock()
	if e, ok := m.sessions[s.ID]; ok {
		e.conns++
	}
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if e, ok := m.sessions[s.ID]; ok {
				e.conns--
				e.lastSeen = m.now()
			}
		})
	}
}

// Len returns the number of sessions.
func (m *Sessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep evicts idle sessions and returns how many were removed.
func (m *Sessions) Sweep() int {
	m.mu.Lock()
	now := m.now()
	var evicted []*Session
	for id, e := range m.sessions {
		if e.conns == 0 && now.Sub(e.lastSeen) > m.config.IdleTimeout {
			evicted = append(evicted, e.session)
			delete(m.sessions, id)
		}
	}
	remaining := len(m.sessions)
	m.mu.Unlock()

	for _, s := range evicted {
		if m.config.OnClose != nil {
			m.config.OnClose(s)
		}
	}
	if len(evicted) > 0 {
		m.logger.Info("evicted idle sessions", "count", len(evicted), "remaining", remaining)
	}
	return len(evicted)
}

func (m *Sessions) cleanupLoop() {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(m.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-m.done:
			return
		}
	}
}

// Close stops the cleanup loop and drops every session.
func (m *Sessions) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
		<-m.cleanupDone

		m.mu.Lock()
		all := make([]*Session, 0, len(m.sessions))
		for _, e := range m.sessions {
			all = append(all, e.session)
		}
		m.sessions = make(map[string]*sessionEntry)
		m.mu.Unlock()

		for _, s := range all {
			if m.config.OnClose != nil {
				m.config.OnClose(s)
			}
		}
	})
}
