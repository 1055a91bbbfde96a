package domain

import "fmt"

// Validate checks the structural invariants of a question. A malformed
// question is rejected outright rather than silently repaired; awarding or
// denying credit based on a guessed correct key is worse than failing.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: empty id", ErrMalformedQuestion)
	}
	if q.Text == "" {
		return fmt.Errorf("%w: question %q has no text", ErrMalformedQuestion, q.ID)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: question %q has %d options, need at least 2", ErrMalformedQuestion, q.ID, len(q.Options))
	}
	if _, ok := q.Options[q.CorrectKey]; !ok {
		return fmt.Errorf("%w: question %q correct key %q not among options", ErrMalformedQuestion, q.ID, q.CorrectKey)
	}
	return nil
}
