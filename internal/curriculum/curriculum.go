package curriculum

import "learning-challenge-service/internal/domain"

// DefaultCourseLength is the standard 30-day challenge.
const DefaultCourseLength = 30

// Slot is one day's position in the course.
type Slot struct {
	Day        int
	Topic      string
	Difficulty domain.Difficulty
}

// Course describes a challenge: an ordered topic list cycled across Length
// days, with difficulty ramping in thirds (beginner, intermediate, advanced).
type Course struct {
	ID     string
	Topics []string
	Length int
}

// New builds a course, defaulting the length to DefaultCourseLength.
func New(id string, topics []string, length int) Course {
	if length <= 0 {
		length = DefaultCourseLength
	}
	return Course{ID: id, Topics: topics, Length: length}
}

// SlotFor returns the topic/difficulty for a course day. ok is false when the
// day falls outside the course, which callers treat as "no new material".
func (c Course) SlotFor(day int) (Slot, bool) {
	if day < 1 || day > c.Length || len(c.Topics) == 0 {
		return Slot{}, false
	}
	return Slot{
		Day:        day,
		Topic:      c.Topics[(day-1)%len(c.Topics)],
		Difficulty: c.difficultyFor(day),
	}, true
}

func (c Course) difficultyFor(day int) domain.Difficulty {
	third := c.Length / 3
	if third < 1 {
		third = 1
	}
	switch {
	case day <= third:
		return domain.DifficultyBeginner
	case day <= 2*third:
		return domain.DifficultyIntermediate
	default:
		return domain.DifficultyAdvanced
	}
}
