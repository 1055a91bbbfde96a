package app

import (
	"context"
	"sync"

	"learning-challenge-service/internal/curriculum"
	"learning-challenge-service/internal/domain"
	"learning-challenge-service/internal/engine"
	"learning-challenge-service/internal/questionbank"
	"go.uber.org/zap"
)

// ProgressStore persists per-user course state. Implementations must make
// Put a whole-state upsert so the service's read-modify-write round-trips.
type ProgressStore interface {
	Get(ctx context.Context, userID, courseID string) (*domain.CourseState, error)
	Put(ctx context.Context, state *domain.CourseState) error
	List(ctx context.Context, courseID string) ([]*domain.CourseState, error)
}

// PendingQuizStore correlates issued quiz ids with their exact question
// lists. Take is one-shot: a quiz id can be submitted once.
type PendingQuizStore interface {
	Save(ctx context.Context, userID string, quiz domain.DailyQuiz) error
	Take(ctx context.Context, userID, quizID string) (domain.DailyQuiz, error)
}

// CourseService wires the engine to its collaborators: curriculum for the
// day's slot, the question bank for fresh content, the progress store for
// state, and the pending store for submission correlation.
type CourseService struct {
	progress  ProgressStore
	pending   PendingQuizStore
	questions questionbank.Generator
	course    curriculum.Course
	engine    *engine.Engine
	quizSize  int
	logger    *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewCourseService(
	progress ProgressStore,
	pending PendingQuizStore,
	questions questionbank.Generator,
	course curriculum.Course,
	eng *engine.Engine,
	quizSize int,
	logger *zap.Logger,
) *CourseService {
	if quizSize <= 0 {
		quizSize = engine.DefaultQuizSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		progress:  progress,
		pending:   pending,
		questions: questions,
		course:    course,
		engine:    eng,
		quizSize:  quizSize,
		logger:    logger,
		locks:     make(map[string]*sync.Mutex),
	}
}

// lockUser serializes read-modify-write per user; two concurrent submissions
// for the same user must not interleave against the wrong-answer queue.
func (s *CourseService) lockUser(userID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Enroll creates day-one state for the user, or returns the existing state
// when already enrolled.
func (s *CourseService) Enroll(ctx context.Context, userID, courseID string) (*domain.CourseState, error) {
	if courseID != s.course.ID {
		return nil, domain.ErrCourseNotFound
	}

	unlock := s.lockUser(userID)
	defer unlock()

	state, err := s.progress.Get(ctx, userID, courseID)
	if err == nil {
		return state, nil
	}
	if err != domain.ErrStateNotFound {
		return nil, err
	}

	state = domain.NewCourseState(userID, courseID)
	if err := s.progress.Put(ctx, state); err != nil {
		return nil, err
	}
	s.logger.Info("user enrolled",
		zap.String("user_id", userID),
		zap.String("course_id", courseID),
	)
	return state, nil
}

// DailyQuiz composes today's quiz for an enrolled user and stores it as
// pending until submitted. Generation failures degrade to a review-only (or
// empty) quiz; a day is never blocked on content.
func (s *CourseService) DailyQuiz(ctx context.Context, userID, courseID string) (domain.DailyQuiz, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	state, err := s.progress.Get(ctx, userID, courseID)
	if err != nil {
		return domain.DailyQuiz{}, err
	}

	var fresh []domain.Question
	if slot, ok := s.course.SlotFor(state.CurrentDay); ok {
		fresh, err = s.questions.Generate(ctx, questionbank.Request{
			CourseID:   courseID,
			Topic:      slot.Topic,
			Difficulty: slot.Difficulty,
			Day:        slot.Day,
			Count:      s.quizSize,
		})
		if err != nil {
			s.logger.Warn("question generation failed, composing without new material",
				zap.String("user_id", userID),
				zap.Int("day", state.CurrentDay),
				zap.Error(err),
			)
			fresh = nil
		}
	}

	quiz, err := s.engine.ComposeDailyQuiz(state, fresh, s.quizSize)
	if err != nil {
		return domain.DailyQuiz{}, err
	}
	if err := s.pending.Save(ctx, userID, quiz); err != nil {
		return domain.DailyQuiz{}, err
	}
	return quiz, nil
}

// Submit evaluates the answers against the pending quiz, persists the updated
// state and advances the course day.
func (s *CourseService) Submit(ctx context.Context, userID, courseID string, sub domain.Submission) (domain.Evaluation, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	state, err := s.progress.Get(ctx, userID, courseID)
	if err != nil {
		return domain.Evaluation{}, err
	}
	quiz, err := s.pending.Take(ctx, userID, sub.QuizID)
	if err != nil {
		return domain.Evaluation{}, err
	}

	eval, err := s.engine.Evaluate(state, quiz.Questions, sub)
	if err != nil {
		return domain.Evaluation{}, err
	}
	if state.CurrentDay < s.course.Length {
		state.CurrentDay++
	}
	if err := s.progress.Put(ctx, state); err != nil {
		return domain.Evaluation{}, err
	}

	s.logger.Info("quiz submitted",
		zap.String("user_id", userID),
		zap.Int("day", quiz.Day),
		zap.Float64("score", eval.Score),
		zap.Int("new_wrong", len(eval.NewWrong)),
		zap.Int("resolved", len(eval.ResolvedWrong)),
	)
	return eval, nil
}

// Progress returns the user's state plus the mastery level per topic.
func (s *CourseService) Progress(ctx context.Context, userID, courseID string) (*domain.CourseState, map[string]domain.Mastery, error) {
	state, err := s.progress.Get(ctx, userID, courseID)
	if err != nil {
		return nil, nil, err
	}
	mastery := make(map[string]domain.Mastery, len(state.TopicStats))
	for topic, stat := range state.TopicStats {
		mastery[topic] = engine.MasteryLevel(stat)
	}
	return state, mastery, nil
}
