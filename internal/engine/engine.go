package engine

import (
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"learning-challenge-service/internal/domain"
	"github.com/google/uuid"
)

// Policy constants. Deployments that want different pacing fork these rather
// than hunting literals through the code.
const (
	// DefaultQuizSize is the number of questions in a full daily quiz.
	DefaultQuizSize = 10
	// ReviewRatioPercent caps how much of a quiz may be drawn from the wrong-answer queue.
	ReviewRatioPercent = 40
	// MasteredThreshold is the minimum accuracy percentage for a mastered topic.
	MasteredThreshold = 80
	// ProficientThreshold is the minimum accuracy percentage for a proficient topic.
	ProficientThreshold = 60
)

// Engine implements quiz composition, submission evaluation and mastery
// classification. It is pure: all state comes in through arguments and goes
// out through return values; the only side effect is mutating the passed-in
// CourseState during Evaluate.
type Engine struct {
	rnd   *rand.Rand
	newID func() string
}

// New creates an engine with a time-seeded shuffle source and UUID quiz ids.
func New() *Engine {
	return &Engine{
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		newID: uuid.NewString,
	}
}

// NewDeterministic is test-only: fixed seed and caller-supplied id generator.
func NewDeterministic(seed int64, newID func() string) *Engine {
	return &Engine{
		rnd:   rand.New(rand.NewSource(seed)),
		newID: newID,
	}
}

// ComposeDailyQuiz selects the day's questions: up to ReviewRatioPercent of
// targetSize from the wrong-answer queue (most-missed first, then least
// recently seen), the rest from fresh in the order supplied. The combined
// list is shuffled; the review/new split is decided before the shuffle.
//
// A quiz shorter than targetSize is a valid outcome when content runs out;
// the engine never blocks a day on insufficient questions.
func (e *Engine) ComposeDailyQuiz(state *domain.CourseState, fresh []domain.Question, targetSize int) (domain.DailyQuiz, error) {
	if targetSize < 0 {
		return domain.DailyQuiz{}, domain.ErrInvalidTargetSize
	}
	for _, q := range fresh {
		if err := q.Validate(); err != nil {
			return domain.DailyQuiz{}, err
		}
	}

	review := selectReview(state.WrongQueue, reviewQuota(targetSize))

	seen := make(map[string]struct{}, targetSize)
	questions := make([]domain.Question, 0, targetSize)
	for _, q := range review {
		seen[q.ID] = struct{}{}
		questions = append(questions, q)
	}
	reviewCount := len(questions)

	for _, q := range fresh {
		if len(questions) >= targetSize {
			break
		}
		// Queue primacy: a fresh question whose id is already queued for
		// review is dropped rather than shown twice.
		if _, dup := seen[q.ID]; dup {
			continue
		}
		seen[q.ID] = struct{}{}
		questions = append(questions, q)
	}

	e.rnd.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	return domain.DailyQuiz{
		QuizID:      e.newID(),
		Day:         state.CurrentDay,
		Questions:   questions,
		ReviewCount: reviewCount,
	}, nil
}

// Evaluate scores a submission against the exact question list previously
// composed, updates the wrong-answer queue, topic stats and daily scores on
// state, and reports the deltas so callers can persist and render without
// re-deriving them.
//
// Missing answers count as incorrect. Answer ids not present in the quiz are
// ignored. An empty quiz evaluates to a zero score, never an error.
func (e *Engine) Evaluate(state *domain.CourseState, quiz []domain.Question, sub domain.Submission) (domain.Evaluation, error) {
	if state.WrongQueue == nil {
		state.WrongQueue = make(map[string]*domain.WrongAnswer)
	}
	if state.TopicStats == nil {
		state.TopicStats = make(map[string]domain.TopicStat)
	}

	eval := domain.Evaluation{QuizID: sub.QuizID}
	correct := 0

	for _, q := range quiz {
		submitted := sub.Answers[q.ID]
		isCorrect := keysMatch(submitted, q.CorrectKey)
		if isCorrect {
			correct++
		}

		eval.Results = append(eval.Results, domain.QuestionResult{
			QuestionID:   q.ID,
			SubmittedKey: submitted,
			CorrectKey:   q.CorrectKey,
			Correct:      isCorrect,
			Explanation:  q.Explanation,
			Topic:        q.Topic,
		})

		if isCorrect {
			if _, queued := state.WrongQueue[q.ID]; queued {
				delete(state.WrongQueue, q.ID)
				eval.ResolvedWrong = append(eval.ResolvedWrong, q.ID)
			}
		} else if entry, queued := state.WrongQueue[q.ID]; queued {
			entry.MissedCount++
			entry.LastSeenDay = state.CurrentDay
		} else {
			added := &domain.WrongAnswer{
				Question:    q,
				MissedCount: 1,
				LastSeenDay: state.CurrentDay,
			}
			state.WrongQueue[q.ID] = added
			eval.NewWrong = append(eval.NewWrong, *added)
		}

		stat := state.TopicStats[q.Topic]
		stat.Total++
		if isCorrect {
			stat.Correct++
		}
		state.TopicStats[q.Topic] = stat
	}

	eval.Score = scorePercentage(correct, len(quiz))
	state.DailyScores = append(state.DailyScores, eval.Score)
	return eval, nil
}

// MasteryLevel classifies a topic's cumulative accuracy. No data ranks as
// Learning: absent evidence is treated as lowest confidence, not unknown.
func MasteryLevel(stat domain.TopicStat) domain.Mastery {
	if stat.Total == 0 {
		return domain.MasteryLearning
	}
	pct := float64(stat.Correct) / float64(stat.Total) * 100
	switch {
	case pct >= MasteredThreshold:
		return domain.MasteryMastered
	case pct >= ProficientThreshold:
		return domain.MasteryProficient
	default:
		return domain.MasteryLearning
	}
}

func reviewQuota(targetSize int) int {
	return targetSize * ReviewRatioPercent / 100
}

// selectReview orders the queue by missed count (desc), then by least
// recently seen, then by id for determinism, and takes up to quota entries.
func selectReview(queue map[string]*domain.WrongAnswer, quota int) []domain.Question {
	if quota <= 0 || len(queue) == 0 {
		return nil
	}
	entries := make([]*domain.WrongAnswer, 0, len(queue))
	for _, entry := range queue {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].MissedCount != entries[j].MissedCount {
			return entries[i].MissedCount > entries[j].MissedCount
		}
		if entries[i].LastSeenDay != entries[j].LastSeenDay {
			return entries[i].LastSeenDay < entries[j].LastSeenDay
		}
		return entries[i].Question.ID < entries[j].Question.ID
	})
	if len(entries) > quota {
		entries = entries[:quota]
	}
	out := make([]domain.Question, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Question)
	}
	return out
}

func keysMatch(submitted, correct string) bool {
	submitted = strings.TrimSpace(submitted)
	if submitted == "" {
		return false
	}
	return strings.EqualFold(submitted, strings.TrimSpace(correct))
}

func scorePercentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*1000) / 10
}
