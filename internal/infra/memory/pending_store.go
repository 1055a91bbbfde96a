package memory

import (
	"context"
	"sync"
	"time"

	"learning-challenge-service/internal/domain"
)

// PendingQuizStore holds issued quizzes until submission, expiring them after
// a TTL so abandoned quizzes do not pile up.
type PendingQuizStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu      sync.Mutex
	pending map[string]pendingEntry
}

type pendingEntry struct {
	quiz      domain.DailyQuiz
	expiresAt time.Time
}

func NewPendingQuizStore(ttl time.Duration) *PendingQuizStore {
	return &PendingQuizStore{
		ttl:     ttl,
		clock:   time.Now,
		pending: make(map[string]pendingEntry),
	}
}

// NewPendingQuizStoreWithClock is test-only for deterministic expiry.
func NewPendingQuizStoreWithClock(ttl time.Duration, clock func() time.Time) *PendingQuizStore {
	store := NewPendingQuizStore(ttl)
	store.clock = clock
	return store
}

func (s *PendingQuizStore) Save(_ context.Context, userID string, quiz domain.DailyQuiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[pendingKey(userID, quiz.QuizID)] = pendingEntry{
		quiz:      quiz,
		expiresAt: s.clock().Add(s.ttl),
	}
	return nil
}

// Take removes and returns the pending quiz; a quiz id is good for exactly
// one submission.
func (s *PendingQuizStore) Take(_ context.Context, userID, quizID string) (domain.DailyQuiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pendingKey(userID, quizID)
	entry, ok := s.pending[key]
	if !ok {
		return domain.DailyQuiz{}, domain.ErrQuizNotFound
	}
	delete(s.pending, key)
	if s.ttl > 0 && !entry.expiresAt.After(s.clock()) {
		return domain.DailyQuiz{}, domain.ErrQuizNotFound
	}
	return entry.quiz, nil
}

func pendingKey(userID, quizID string) string {
	return userID + "|" + quizID
}
