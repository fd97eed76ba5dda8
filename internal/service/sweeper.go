package service

import (
	"context"
	"sync"
	"time"

	"github.com/Harshitk-cp/doxa/internal/domain"
	"go.uber.org/zap"
)

const defaultSweeperInterval = 5 * time.Minute

// SweeperService periodically drops sessions that have been idle longer
// than the configured TTL, so abandoned belief bases do not accumulate.
type SweeperService struct {
	store  domain.SessionStore
	logger *zap.Logger
	ttl    time.Duration

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func NewSweeperService(store domain.SessionStore, ttl time.Duration, logger *zap.Logger) *SweeperService {
	return &SweeperService{
		store:    store,
		logger:   logger,
		ttl:      ttl,
		interval: defaultSweeperInterval,
		stopCh:   make(chan struct{}),
	}
}

func (s *SweeperService) SetInterval(d time.Duration) {
	s.interval = d
}

// Start runs the sweeper on a periodic schedule in a background goroutine.
func (s *SweeperService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("session sweeper started",
			zap.Duration("interval", s.interval),
			zap.Duration("ttl", s.ttl))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				s.run(ctx)
				cancel()
			case <-s.stopCh:
				s.logger.Info("session sweeper stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the sweeper.
func (s *SweeperService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *SweeperService) run(ctx context.Context) {
	cutoff := time.Now().Add(-s.ttl)

	removed, err := s.store.DeleteIdle(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to sweep idle sessions", zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Info("swept idle sessions",
			zap.Int("count", removed),
			zap.Duration("ttl", s.ttl))
	}
}
