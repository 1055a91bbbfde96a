package scheduler

import (
	"context"
	"testing"

	"learning-challenge-service/internal/domain"
)

func TestPassRemindsOnlyUnfinishedUsers(t *testing.T) {
	unfinished := domain.NewCourseState("u1", "go-30")

	finished := domain.NewCourseState("u2", "go-30")
	finished.CurrentDay = 3
	finished.DailyScores = []float64{80, 90, 100}

	completedCourse := domain.NewCourseState("u3", "go-30")
	completedCourse.CurrentDay = 30
	completedCourse.DailyScores = make([]float64, 30)

	lister := staticLister{unfinished, finished, completedCourse}
	notifier := &recordingNotifier{deliverable: true}
	reminders := New(lister, notifier, "go-30", "", nil)

	sent, err := reminders.Pass(context.Background())
	if err != nil {
		t.Fatalf("pass: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected 1 reminder, got %d", sent)
	}
	if len(notifier.notified) != 1 || notifier.notified[0] != "u1" {
		t.Fatalf("expected only u1 reminded, got %v", notifier.notified)
	}
}

func TestPassRemindsOncePerDay(t *testing.T) {
	state := domain.NewCourseState("u1", "go-30")
	notifier := &recordingNotifier{deliverable: true}
	reminders := New(staticLister{state}, notifier, "go-30", "", nil)

	for i := 0; i < 3; i++ {
		if _, err := reminders.Pass(context.Background()); err != nil {
			t.Fatalf("pass %d: %v", i, err)
		}
	}
	if len(notifier.notified) != 1 {
		t.Fatalf("expected single reminder for the same day, got %d", len(notifier.notified))
	}

	// The next day the user is due again.
	state.CurrentDay = 2
	state.DailyScores = []float64{70}
	if _, err := reminders.Pass(context.Background()); err != nil {
		t.Fatalf("pass next day: %v", err)
	}
	if len(notifier.notified) != 2 {
		t.Fatalf("expected a fresh reminder on the next day, got %d", len(notifier.notified))
	}
}

func TestPassRetriesWhenNobodyIsOnline(t *testing.T) {
	state := domain.NewCourseState("u1", "go-30")
	notifier := &recordingNotifier{deliverable: false}
	reminders := New(staticLister{state}, notifier, "go-30", "", nil)

	if _, err := reminders.Pass(context.Background()); err != nil {
		t.Fatalf("pass: %v", err)
	}

	// Undelivered reminders are not marked, so the next pass tries again.
	notifier.deliverable = true
	sent, err := reminders.Pass(context.Background())
	if err != nil {
		t.Fatalf("pass: %v", err)
	}
	if sent != 1 {
		t.Fatalf("expected delivery on retry, got %d", sent)
	}
}

type staticLister []*domain.CourseState

func (l staticLister) List(context.Context, string) ([]*domain.CourseState, error) {
	return l, nil
}

type recordingNotifier struct {
	deliverable bool
	notified    []string
}

func (n *recordingNotifier) Notify(userID, _ string) bool {
	if !n.deliverable {
		return false
	}
	n.notified = append(n.notified, userID)
	return true
}
