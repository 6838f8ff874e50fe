package meetings

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	meetings map[string]Meeting
}

// NewMemoryRepository builds an in-memory meeting store for tests and demo mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{meetings: make(map[string]Meeting)}
}

func (r *memoryRepository) Create(_ context.Context, meeting Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meetings[meeting.ID] = meeting
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meeting, ok := r.meetings[id]
	if !ok {
		return Meeting{}, ErrMeetingNotFound
	}
	return meeting, nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	meeting, ok := r.meetings[id]
	if !ok {
		return ErrMeetingNotFound
	}
	meeting.Status = status
	r.meetings[id] = meeting
	return nil
}

func (r *memoryRepository) ListByParticipant(_ context.Context, userID string) ([]Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Meeting
	for _, meeting := range r.meetings {
		if meeting.EntrepreneurID == userID || meeting.InvestorID == userID {
			out = append(out, meeting)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}
