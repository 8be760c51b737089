package memory

import (
	"context"
	"sync"
	"time"

	"github.com/guardian/secure-contact/internal/history"
)

// Store keeps outcome records in memory. Used for tests and local
// development; the DynamoDB adapter is the real thing.
type Store struct {
	mu   sync.RWMutex
	recs []history.OutcomeRecord
	now  func() time.Time
}

func New() *Store {
	return &Store{
		recs: make([]history.OutcomeRecord, 0, 128),
		now:  time.Now,
	}
}

func (s *Store) Append(ctx context.Context, rec history.OutcomeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *Store) Recent(ctx context.Context, windowSeconds int64, limit int) ([]history.OutcomeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now().Unix()
	cutoff := now - windowSeconds

	out := make([]history.OutcomeRecord, 0, limit)
	for _, rec := range s.recs {
		if rec.CheckTime < cutoff || rec.CheckTime > now {
			continue
		}
		out = append(out, rec)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

var _ history.Store = (*Store)(nil)
