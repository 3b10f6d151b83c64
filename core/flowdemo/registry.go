package flowdemo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-landing/core"
)

const DefaultSessionTTL = 30 * time.Minute

var ErrSessionNotFound = errors.New("demo session not found")

type (
	// Session is one page instance: its own controller and view.
	Session struct {
		ID         string
		Controller *Controller
		View       View
		CreatedAt  time.Time

		mu       sync.Mutex
		lastSeen time.Time
	}

	// Registry owns independent demo sessions and expires idle ones.
	Registry struct {
		mu       sync.RWMutex
		sessions map[string]*Session

		repo   ContentRepository
		opts   Options
		ttl    time.Duration
		logger core.Logger
		now    func() time.Time
	}
)

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// close stops the controller, then the view when it can be closed.
func (s *Session) close() {
	s.Controller.Close()
	if c, ok := s.View.(interface{ Close() }); ok {
		c.Close()
	}
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func NewRegistry(repo ContentRepository, opts Options, ttl time.Duration, logger core.Logger) (*Registry, error) {
	if err := vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(logger, "logger"),
	).Check(); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Registry{
		sessions: make(map[string]*Session),
		repo:     repo,
		opts:     opts.withDefaults(),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Create starts a new session rendering into view.
func (r *Registry) Create(view View) (*Session, error) {
	ctrl, err := NewController(r.repo, view, r.opts)
	if err != nil {
		return nil, errors.Wrap(err, "creating flow demo")
	}

	now := r.now().UTC()
	sess := &Session{
		ID:         uuid.New().String(),
		Controller: ctrl,
		View:       view,
		CreatedAt:  now,
		lastSeen:   now,
	}

	r.mu.Lock()
	r.sessions[sess.ID] = sess
	r.mu.Unlock()
	return sess, nil
}

// Get returns the session and marks it as seen.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	sess, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch(r.now().UTC())
	return sess, nil
}

// Remove closes and forgets the session.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	sess.close()
	return nil
}

// Sweep closes the sessions not seen since now-ttl and returns how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	deadline := now.Add(-r.ttl)

	var expired []*Session
	r.mu.Lock()
	for id, sess := range r.sessions {
		if sess.LastSeen().Before(deadline) {
			expired = append(expired, sess)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, sess := range expired {
		sess.close()
	}
	if len(expired) > 0 {
		r.logger.Debug(fmt.Sprintf("flowdemo: swept %d idle session(s)", len(expired)))
	}
	return len(expired)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Run sweeps idle sessions every interval (the TTL when not positive) until ctx is done.
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = r.ttl
	}
	task := r.opts.Scheduler.Every(every, func() { r.Sweep(r.now()) })
	<-ctx.Done()
	task.Cancel()
}

// Close removes every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
}
