package redis

import (
	"context"
	"testing"
	"time"

	"learning-challenge-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestPendingQuizStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewPendingQuizStore(client, time.Minute)
	ctx := context.Background()

	quiz := domain.DailyQuiz{
		QuizID: "quiz-1",
		Day:    3,
		Questions: []domain.Question{{
			ID:         "q1",
			Text:       "Pick A",
			Options:    map[string]string{"A": "one", "B": "two"},
			CorrectKey: "A",
			Topic:      "syntax",
			Difficulty: domain.DifficultyBeginner,
			Day:        3,
		}},
		ReviewCount: 0,
	}
	if err := store.Save(ctx, "u1", quiz); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("challenge:pending:u1:quiz-1") {
		t.Fatalf("expected redis key to be set")
	}

	got, err := store.Take(ctx, "u1", "quiz-1")
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if got.Day != 3 || len(got.Questions) != 1 || got.Questions[0].CorrectKey != "A" {
		t.Fatalf("quiz did not round-trip, got %+v", got)
	}
	if mr.Exists("challenge:pending:u1:quiz-1") {
		t.Fatalf("expected key removed after take")
	}

	if _, err := store.Take(ctx, "u1", "quiz-1"); err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound on replay, got %v", err)
	}
}

func TestPendingQuizStoreExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewPendingQuizStore(client, time.Minute)
	ctx := context.Background()

	_ = store.Save(ctx, "u1", domain.DailyQuiz{QuizID: "quiz-1"})
	mr.FastForward(2 * time.Minute)

	if _, err := store.Take(ctx, "u1", "quiz-1"); err != domain.ErrQuizNotFound {
		t.Fatalf("expected expired quiz gone, got %v", err)
	}
}
