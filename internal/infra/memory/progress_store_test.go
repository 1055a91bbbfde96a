package memory

import (
	"context"
	"testing"
	"time"

	"learning-challenge-service/internal/domain"
)

func TestProgressStoreRoundTripIsolatesState(t *testing.T) {
	store := NewProgressStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "u1", "go-30"); err != domain.ErrStateNotFound {
		t.Fatalf("expected ErrStateNotFound, got %v", err)
	}

	state := domain.NewCourseState("u1", "go-30")
	state.TopicStats["syntax"] = domain.TopicStat{Correct: 1, Total: 2}
	if err := store.Put(ctx, state); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Mutating the original after Put must not leak into the store.
	state.TopicStats["syntax"] = domain.TopicStat{Correct: 9, Total: 9}

	loaded, err := store.Get(ctx, "u1", "go-30")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stat := loaded.TopicStats["syntax"]; stat.Correct != 1 || stat.Total != 2 {
		t.Fatalf("expected stored snapshot 1/2, got %+v", stat)
	}
}

func TestProgressStoreListFiltersByCourse(t *testing.T) {
	store := NewProgressStore()
	ctx := context.Background()

	_ = store.Put(ctx, domain.NewCourseState("u1", "go-30"))
	_ = store.Put(ctx, domain.NewCourseState("u2", "go-30"))
	_ = store.Put(ctx, domain.NewCourseState("u3", "other"))

	states, err := store.List(ctx, "go-30")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(states) != 2 {
		t.Fatalf("expected 2 states, got %d", len(states))
	}
}

func TestPendingQuizStoreTakeIsOneShot(t *testing.T) {
	store := NewPendingQuizStore(time.Minute)
	ctx := context.Background()

	quiz := domain.DailyQuiz{QuizID: "quiz-1", Day: 1}
	if err := store.Save(ctx, "u1", quiz); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Take(ctx, "u1", "quiz-1")
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if got.QuizID != "quiz-1" {
		t.Fatalf("expected quiz-1, got %s", got.QuizID)
	}

	if _, err := store.Take(ctx, "u1", "quiz-1"); err != domain.ErrQuizNotFound {
		t.Fatalf("expected second take to fail, got %v", err)
	}
}

func TestPendingQuizStoreExpires(t *testing.T) {
	now := time.Now()
	store := NewPendingQuizStoreWithClock(time.Minute, func() time.Time { return now })
	ctx := context.Background()

	_ = store.Save(ctx, "u1", domain.DailyQuiz{QuizID: "quiz-1"})
	now = now.Add(2 * time.Minute)

	if _, err := store.Take(ctx, "u1", "quiz-1"); err != domain.ErrQuizNotFound {
		t.Fatalf("expected expired quiz to be gone, got %v", err)
	}
}
