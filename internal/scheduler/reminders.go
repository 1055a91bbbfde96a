package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"learning-challenge-service/internal/domain"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Notifier delivers a reminder to a user and reports whether anyone got it.
type Notifier interface {
	Notify(userID, text string) bool
}

// ProgressLister enumerates enrolled users for a course.
type ProgressLister interface {
	List(ctx context.Context, courseID string) ([]*domain.CourseState, error)
}

// Reminders nudges users who have not completed their current course day.
// Each user is reminded at most once per day; delivery is best effort over
// whatever sessions are live.
type Reminders struct {
	lister   ProgressLister
	notifier Notifier
	courseID string
	spec     string
	logger   *zap.Logger

	mu       sync.Mutex
	reminded map[string]int // userID -> last day reminded
}

func New(lister ProgressLister, notifier Notifier, courseID, spec string, logger *zap.Logger) *Reminders {
	if spec == "" {
		spec = "0 * * * *"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reminders{
		lister:   lister,
		notifier: notifier,
		courseID: courseID,
		spec:     spec,
		logger:   logger,
		reminded: make(map[string]int),
	}
}

// Start runs the cron loop until the context is canceled.
func (r *Reminders) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(r.spec, func() {
		sent, err := r.Pass(ctx)
		if err != nil {
			r.logger.Error("reminder pass failed", zap.Error(err))
			return
		}
		r.logger.Info("reminder pass complete", zap.Int("sent", sent))
	})
	if err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}

	c.Start()
	r.logger.Info("reminder scheduler started", zap.String("spec", r.spec))

	<-ctx.Done()
	c.Stop()
	r.logger.Info("reminder scheduler stopped")
	return nil
}

// Pass walks enrolled users once and reminds those with an unfinished day.
func (r *Reminders) Pass(ctx context.Context) (int, error) {
	states, err := r.lister.List(ctx, r.courseID)
	if err != nil {
		return 0, fmt.Errorf("list course states: %w", err)
	}

	sent := 0
	for _, state := range states {
		if !dayUnfinished(state) {
			continue
		}

		r.mu.Lock()
		already := r.reminded[state.UserID] == state.CurrentDay
		r.mu.Unlock()
		if already {
			continue
		}

		text := fmt.Sprintf("Day %d of %s is waiting for you.", state.CurrentDay, state.CourseID)
		if r.notifier.Notify(state.UserID, text) {
			r.mu.Lock()
			r.reminded[state.UserID] = state.CurrentDay
			r.mu.Unlock()
			sent++
		}
	}
	return sent, nil
}

// dayUnfinished reports whether the user still owes a quiz for the current
// day. After the final day's submission scores catch up with the day counter,
// so completed users drop out naturally.
func dayUnfinished(state *domain.CourseState) bool {
	return len(state.DailyScores) < state.CurrentDay
}
