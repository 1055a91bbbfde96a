package questionbank

import (
	"context"

	"learning-challenge-service/internal/domain"
)

// Generator produces fresh MCQ content for one course day. Implementations
// must return questions that pass domain validation; callers treat errors and
// empty results alike as "no new material today".
type Generator interface {
	Generate(ctx context.Context, req Request) ([]domain.Question, error)
}

// Request describes the content wanted for a day.
type Request struct {
	CourseID   string
	Topic      string
	Difficulty domain.Difficulty
	Day        int
	Count      int
}

// StaticBank serves canned questions keyed by topic. It backs tests and
// offline runs where no generation backend is configured.
type StaticBank struct {
	byTopic map[string][]domain.Question
}

func NewStaticBank(byTopic map[string][]domain.Question) *StaticBank {
	return &StaticBank{byTopic: byTopic}
}

func (b *StaticBank) Generate(_ context.Context, req Request) ([]domain.Question, error) {
	pool := b.byTopic[req.Topic]
	if len(pool) > req.Count {
		pool = pool[:req.Count]
	}
	out := make([]domain.Question, 0, len(pool))
	for _, q := range pool {
		q.Day = req.Day
		out = append(out, q)
	}
	return out, nil
}
