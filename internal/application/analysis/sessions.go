package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/bryanwahyu/herbalens/internal/domain/analysis"
)

// DefaultSessionTTL is how long an idle session survives without activity.
const DefaultSessionTTL = 30 * time.Minute

// Sessions maps anonymous session ids to their own pipeline.
type Sessions struct {
	svc *Service
	ttl time.Duration

	mu    sync.Mutex
	items map[string]*Pipeline
}

func NewSessions(svc *Service, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{svc: svc, ttl: ttl, items: make(map[string]*Pipeline)}
}

// Create registers a fresh idle pipeline.
func (s *Sessions) Create() (string, *Pipeline) {
	id := uuid.NewString()
	p := s.svc.NewPipeline()

	s.mu.Lock()
	s.items[id] = p
	s.mu.Unlock()
	return id, p
}

// Get returns the pipeline for id or ErrSessionNotFound.
func (s *Sessions) Get(id string) (*Pipeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return p, nil
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep drops sessions that have been idle for longer than the ttl.
// Sessions with a running analysis are kept.
func (s *Sessions) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, p := range s.items {
		last, idle := p.idleSince()
		if idle && now.Sub(last) > s.ttl {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(s.svc.clock().Now()); n > 0 {
				s.svc.logger().Debug("expired sessions", zap.Int("removed", n))
			}
		}
	}
}
