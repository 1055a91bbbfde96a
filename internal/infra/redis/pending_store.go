package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"learning-challenge-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// PendingQuizStore keeps issued quizzes in Redis as JSON values with a TTL,
// so submissions are matched to the exact composition across restarts.
type PendingQuizStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPendingQuizStore(client *redis.Client, ttl time.Duration) *PendingQuizStore {
	return &PendingQuizStore{client: client, ttl: ttl}
}

func (s *PendingQuizStore) Save(ctx context.Context, userID string, quiz domain.DailyQuiz) error {
	data, err := json.Marshal(quiz)
	if err != nil {
		return fmt.Errorf("marshal pending quiz: %w", err)
	}
	if err := s.client.Set(ctx, s.key(userID, quiz.QuizID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save pending quiz: %w", err)
	}
	return nil
}

// Take fetches and deletes in one round trip; a second take of the same quiz
// id yields ErrQuizNotFound.
func (s *PendingQuizStore) Take(ctx context.Context, userID, quizID string) (domain.DailyQuiz, error) {
	raw, err := s.client.GetDel(ctx, s.key(userID, quizID)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.DailyQuiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.DailyQuiz{}, fmt.Errorf("take pending quiz: %w", err)
	}
	var quiz domain.DailyQuiz
	if err := json.Unmarshal([]byte(raw), &quiz); err != nil {
		return domain.DailyQuiz{}, fmt.Errorf("unmarshal pending quiz: %w", err)
	}
	return quiz, nil
}

func (s *PendingQuizStore) key(userID, quizID string) string {
	return "challenge:pending:" + userID + ":" + quizID
}
