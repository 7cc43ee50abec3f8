package demo

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reyesjorge76/jr-portfolio/internal/logging"
	"github.com/reyesjorge76/jr-portfolio/internal/sim"
)

// Defaults for a Manager.
const (
	DefaultTick        = 50 * time.Millisecond
	DefaultIdleTimeout = 10 * time.Minute
	DefaultMaxSessions = 500
)

// Hooks observe the session lifecycle. Any of them may be nil.
type Hooks struct {
	OnCreate func(kind Kind)
	OnClose  func(kind Kind, reason string)
	OnAction func(kind Kind, action string, err error)
}

// Info describes an open session.
type Info struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

type session struct {
	info Info
	demo Demo
	loop *sim.Loop
}

// Manager owns every open demo session.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session

	tick    time.Duration
	idle    time.Duration
	max     int
	logger  *slog.Logger
	hooks   Hooks
	now     func() time.Time
	newRand func() *rand.Rand

	ctx    context.Context
	cancel context.CancelFunc
}

type Option func(*Manager)

// WithTick sets the simulation step interval of new sessions.
func WithTick(d time.Duration) Option {
	return func(m *Manager) { m.tick = d }
}

// WithIdleTimeout sets how long an untouched session survives a sweep.
func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) { m.idle = d }
}

// WithMaxSessions caps the number of open sessions.
func WithMaxSessions(n int) Option {
	return func(m *Manager) { m.max = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func WithHooks(h Hooks) Option {
	return func(m *Manager) { m.hooks = h }
}

// WithClock replaces time.Now for idle bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithRand sets the source of per-session random generators.
func WithRand(fn func() *rand.Rand) Option {
	return func(m *Manager) { m.newRand = fn }
}

// NewManager creates an empty manager.
func NewManager(opts ...Option) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		sessions: make(map[string]*session),
		tick:     DefaultTick,
		idle:     DefaultIdleTimeout,
		max:      DefaultMaxSessions,
		logger:   logging.NewNop(),
		now:      time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create opens a session of kind and starts its loop.
func (m *Manager) Create(kind Kind) (Info, error) {
	d, err := New(kind, m.newRand())
	if err != nil {
		return Info{}, err
	}

	m.mu.Lock()
	if len(m.sessions) >= m.max {
		m.mu.Unlock()
		return Info{}, ErrTooManySessions
	}
	now := m.now()
	s := &session{
		info: Info{ID: uuid.NewString(), Kind: kind, CreatedAt: now, LastSeen: now},
		demo: d,
		loop: sim.NewLoop(d, m.tick),
	}
	m.sessions[s.info.ID] = s
	open := len(m.sessions)
	m.mu.Unlock()

	s.loop.Start(m.ctx)
	m.logger.Info("demo session opened", "id", s.info.ID, "kind", kind, "open", open)
	if m.hooks.OnCreate != nil {
		m.hooks.OnCreate(kind)
	}
	return s.info, nil
}

// touch looks up id and marks it used.
func (m *Manager) touch(id string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.info.LastSeen = m.now()
	return s, nil
}

// Get returns the session description.
func (m *Manager) Get(id string) (Info, error) {
	s, err := m.touch(id)
	if err != nil {
		return Info{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return s.info, nil
}

// Snapshot returns the current view of the session's demo.
func (m *Manager) Snapshot(id string) (any, error) {
	s, err := m.touch(id)
	if err != nil {
		return nil, err
	}
	var view any
	s.loop.Do(func() { view = s.demo.Snapshot() })
	return view, nil
}

// Act applies action to the session and returns the resulting view. The
// view is returned even when the action is rejected.
func (m *Manager) Act(id, action string, args Args) (any, error) {
	s, err := m.touch(id)
	if err != nil {
		return nil, err
	}
	var view any
	s.loop.Do(func() {
		err = s.demo.Handle(action, args)
		view = s.demo.Snapshot()
	})
	if m.hooks.OnAction != nil {
		m.hooks.OnAction(s.info.Kind, action, err)
	}
	if err != nil {
		m.logger.Debug("demo action refused", "id", id, "action", action, "error", err)
	}
	return view, err
}

// Close stops and forgets a session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	m.stop(s, "closed")
	return nil
}

func (m *Manager) stop(s *session, reason string) {
	s.loop.Close()
	m.logger.Info("demo session "+reason, "id", s.info.ID, "kind", s.info.Kind)
	if m.hooks.OnClose != nil {
		m.hooks.OnClose(s.info.Kind, reason)
	}
}

// Len is the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep closes sessions idle for longer than the idle timeout and returns
// how many it closed.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.idle)

	m.mu.Lock()
	var stale []*session
	for id, s := range m.sessions {
		if s.info.LastSeen.Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		m.stop(s, "evicted")
	}
	return len(stale)
}

// Run sweeps idle sessions every interval until ctx is done, then closes
// everything that is still open.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.Shutdown()
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug("swept idle demo sessions", "count", n)
			}
		}
	}
}

// Shutdown closes all sessions.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*session)
	m.mu.Unlock()

	for _, s := range all {
		m.stop(s, "closed")
	}
	m.cancel()
}
