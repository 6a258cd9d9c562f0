package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("wizard session not found")

type session struct {
	mu      sync.Mutex
	wizard  *Wizard
	touched time.Time
}

// Sessions keeps one wizard per browser session. Nothing is persisted: a
// restart or an expired session loses the draft.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	Now      func() time.Time
	NewID    func() string
}

func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		sessions: make(map[string]*session),
		ttl:      ttl,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}

// Start opens a fresh wizard on the first step.
func (s *Sessions) Start() (string, View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.NewID()
	w := New()
	s.sessions[id] = &session{wizard: w, touched: s.Now()}
	return id, w.View()
}

func (s *Sessions) get(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.ttl > 0 && s.Now().Sub(sess.touched) > s.ttl {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	sess.touched = s.Now()
	return sess, nil
}

// Do runs fn with exclusive access to the session's wizard.
func (s *Sessions) Do(id string, fn func(w *Wizard)) (View, error) {
	sess, err := s.get(id)
	if err != nil {
		return View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(sess.wizard)
	return sess.wizard.View(), nil
}

func (s *Sessions) View(id string) (View, error) {
	return s.Do(id, func(*Wizard) {})
}

// Submit sends the draft to the provider without holding the session lock
// during the call, so a second submit sees ErrSubmitInProgress. A successful
// submit ends the session.
func (s *Sessions) Submit(ctx context.Context, id string, creator ReportCreator) (*Submission, View, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, View{}, err
	}

	sess.mu.Lock()
	in, err := sess.wizard.beginSubmit()
	view := sess.wizard.View()
	sess.mu.Unlock()
	if err != nil {
		return nil, view, err
	}

	report, createErr := creator.CreateReport(ctx, in)

	sess.mu.Lock()
	sub, err := sess.wizard.finishSubmit(report, createErr)
	view = sess.wizard.View()
	sess.mu.Unlock()
	if err != nil {
		return nil, view, err
	}

	s.Discard(id)
	return sub, view, nil
}

func (s *Sessions) Discard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Sweep drops sessions idle for longer than the TTL and returns how many went.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl <= 0 {
		return 0
	}
	now := s.Now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.touched) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RunSweeper sweeps every interval until ctx is done.
func (s *Sessions) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
