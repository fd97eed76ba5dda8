package store

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/doxa/internal/domain"
	"github.com/google/uuid"
)

// SessionStore keeps sessions in memory, keyed by ID. A store-level mutex
// guards the map; each session carries its own lock so a slow resolution on
// one base does not stall the others. Last-activity times are atomics so
// the idle sweep never needs a session lock.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry
}

type sessionEntry struct {
	mu         sync.Mutex
	session    *domain.Session
	lastActive atomic.Int64
}

func (e *sessionEntry) touch() {
	e.lastActive.Store(time.Now().UnixNano())
}

func (e *sessionEntry) lastActiveTime() time.Time {
	return time.Unix(0, e.lastActive.Load()).UTC()
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uuid.UUID]*sessionEntry)}
}

func (s *SessionStore) Create(ctx context.Context, name string) (*domain.Session, error) {
	now := time.Now().UTC()
	sess := &domain.Session{
		ID:           uuid.New(),
		Name:         name,
		Base:         domain.NewBeliefBase(),
		CreatedAt:    now,
		LastActiveAt: now,
	}
	entry := &sessionEntry{session: sess}
	entry.lastActive.Store(now.UnixNano())

	s.mu.Lock()
	s.sessions[sess.ID] = entry
	s.mu.Unlock()
	return sess, nil
}

// Get returns a snapshot of the session; the caller's copy shares nothing
// with the stored one. Counts as activity.
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	entry.touch()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	snap := *entry.session
	snap.Base = entry.session.Base.Clone()
	snap.LastActiveAt = entry.lastActiveTime()
	return &snap, nil
}

func (s *SessionStore) List(ctx context.Context) ([]*domain.Session, error) {
	s.mu.RLock()
	entries := make([]*sessionEntry, 0, len(s.sessions))
	for _, entry := range s.sessions {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	out := make([]*domain.Session, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		snap := *entry.session
		snap.Base = entry.session.Base.Clone()
		snap.LastActiveAt = entry.lastActiveTime()
		entry.mu.Unlock()
		out = append(out, &snap)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// WithSession runs fn with the session locked. The membership re-check
// after taking the session lock covers a concurrent delete.
func (s *SessionStore) WithSession(ctx context.Context, id uuid.UUID, fn func(*domain.Session) error) error {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return domain.ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	s.mu.RLock()
	_, ok = s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return domain.ErrSessionNotFound
	}
	entry.touch()
	return fn(entry.session)
}

func (s *SessionStore) DeleteIdle(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.sessions {
		if entry.lastActiveTime().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}
