package funding

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	deals []Deal // newest first
}

// NewMemoryRepository constructs an in-memory deal store for tests and demo mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, deal Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deals = append([]Deal{deal}, r.deals...)
	return nil
}

func (r *memoryRepository) ListByParticipant(_ context.Context, userID string) ([]Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Deal
	for _, deal := range r.deals {
		if deal.EntrepreneurID == userID || deal.InvestorID == userID {
			out = append(out, deal)
		}
	}
	return out, nil
}
