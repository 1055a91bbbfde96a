package memory

import (
	"context"
	"sync"

	"learning-challenge-service/internal/domain"
)

// ProgressStore is an in-memory implementation of app.ProgressStore. It
// stores deep copies so callers can mutate returned state before Put.
type ProgressStore struct {
	mu     sync.RWMutex
	states map[string]*domain.CourseState
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{states: make(map[string]*domain.CourseState)}
}

func (s *ProgressStore) Get(_ context.Context, userID, courseID string) (*domain.CourseState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[stateKey(userID, courseID)]
	if !ok {
		return nil, domain.ErrStateNotFound
	}
	return state.Clone(), nil
}

func (s *ProgressStore) Put(_ context.Context, state *domain.CourseState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[stateKey(state.UserID, state.CourseID)] = state.Clone()
	return nil
}

func (s *ProgressStore) List(_ context.Context, courseID string) ([]*domain.CourseState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.CourseState
	for _, state := range s.states {
		if state.CourseID == courseID {
			out = append(out, state.Clone())
		}
	}
	return out, nil
}

func stateKey(userID, courseID string) string {
	return userID + "|" + courseID
}
