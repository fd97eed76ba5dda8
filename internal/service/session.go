package service

import (
	"context"
	"fmt"

	"github.com/Harshitk-cp/doxa/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionService manages the lifecycle of belief base sessions. All
// handler access to a session's base goes through WithBase so that a
// whole operation (e.g. contract-then-expand during revision) is applied
// atomically with respect to concurrent requests.
type SessionService struct {
	store  domain.SessionStore
	logger *zap.Logger
}

func NewSessionService(store domain.SessionStore, logger *zap.Logger) *SessionService {
	return &SessionService{
		store:  store,
		logger: logger,
	}
}

func (s *SessionService) Create(ctx context.Context, name string) (*domain.Session, error) {
	if name == "" {
		name = "default"
	}

	session, err := s.store.Create(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("created session",
		zap.String("session_id", session.ID.String()),
		zap.String("name", session.Name))

	return session, nil
}

func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	return s.store.Get(ctx, id)
}

func (s *SessionService) List(ctx context.Context) ([]*domain.Session, error) {
	return s.store.List(ctx)
}

func (s *SessionService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("deleted session", zap.String("session_id", id.String()))
	return nil
}

// WithBase runs fn against the session's belief base while the session is
// locked.
func (s *SessionService) WithBase(ctx context.Context, id uuid.UUID, fn func(*domain.BeliefBase) error) error {
	return s.store.WithSession(ctx, id, func(session *domain.Session) error {
		return fn(session.Base)
	})
}
