package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Harshitk-cp/doxa/internal/domain"
	"github.com/Harshitk-cp/doxa/internal/logic"
	"github.com/google/uuid"
)

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()

	sess, err := s.Create(ctx, "main")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.Name != "main" || sess.Base == nil {
		t.Fatalf("unexpected session: %+v", sess)
	}

	got, err := s.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != sess.ID {
		t.Errorf("Get returned session %s, want %s", got.ID, sess.ID)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List returned %d sessions, want 1", len(list))
	}

	if err := s.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Get after delete = %v, want ErrSessionNotFound", err)
	}
	if err := s.Delete(ctx, sess.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("second Delete = %v, want ErrSessionNotFound", err)
	}
}

func TestGetReturnsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()
	sess, _ := s.Create(ctx, "snap")

	snap, err := s.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := snap.Base.Expand(logic.MustParse("p"), 50); err != nil {
		t.Fatal(err)
	}

	fresh, err := s.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Base.Len() != 0 {
		t.Error("mutating a Get snapshot leaked into the stored session")
	}
}

func TestWithSessionMutates(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()
	sess, _ := s.Create(ctx, "mut")

	err := s.WithSession(ctx, sess.ID, func(live *domain.Session) error {
		_, err := live.Base.Expand(logic.MustParse("p & q"), 70)
		return err
	})
	if err != nil {
		t.Fatalf("WithSession: %v", err)
	}

	got, _ := s.Get(ctx, sess.ID)
	if got.Base.Len() != 1 {
		t.Errorf("mutation not visible: len = %d", got.Base.Len())
	}

	if err := s.WithSession(ctx, uuid.New(), func(*domain.Session) error { return nil }); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("WithSession(unknown) = %v, want ErrSessionNotFound", err)
	}
}

func TestWithSessionPropagatesError(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()
	sess, _ := s.Create(ctx, "err")

	boom := errors.New("boom")
	if err := s.WithSession(ctx, sess.ID, func(*domain.Session) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("WithSession error = %v, want boom", err)
	}
}

func TestDeleteIdle(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()
	stale, _ := s.Create(ctx, "stale")
	fresh, _ := s.Create(ctx, "fresh")

	s.mu.Lock()
	s.sessions[stale.ID].lastActive.Store(time.Now().Add(-2 * time.Hour).UnixNano())
	s.mu.Unlock()

	removed, err := s.DeleteIdle(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("DeleteIdle: %v", err)
	}
	if removed != 1 {
		t.Errorf("DeleteIdle removed %d, want 1", removed)
	}
	if _, err := s.Get(ctx, stale.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Error("stale session survived the sweep")
	}
	if _, err := s.Get(ctx, fresh.ID); err != nil {
		t.Errorf("fresh session swept: %v", err)
	}
}

func TestActivityDefersSweep(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()
	sess, _ := s.Create(ctx, "busy")

	s.mu.Lock()
	s.sessions[sess.ID].lastActive.Store(time.Now().Add(-2 * time.Hour).UnixNano())
	s.mu.Unlock()

	// Access refreshes the activity clock.
	if _, err := s.Get(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}

	removed, err := s.DeleteIdle(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Errorf("recently accessed session swept, removed = %d", removed)
	}
}

func TestConcurrentSessions(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore()
	sess, _ := s.Create(ctx, "conc")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				err := s.WithSession(ctx, sess.ID, func(live *domain.Session) error {
					_, err := live.Base.Expand(logic.MustParse("p"), 50)
					return err
				})
				if err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Base.Len() != 8*25 {
		t.Errorf("expected %d beliefs after concurrent expansion, got %d", 8*25, got.Base.Len())
	}
}
