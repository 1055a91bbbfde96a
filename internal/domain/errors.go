package domain

import "errors"

var (
	// ErrInvalidTargetSize is returned when a quiz is requested with a negative size.
	ErrInvalidTargetSize = errors.New("target size must not be negative")
	// ErrMalformedQuestion indicates a question violating the options/correct-key invariant.
	ErrMalformedQuestion = errors.New("malformed question")
	// ErrStateNotFound means the user is not enrolled in the course.
	ErrStateNotFound = errors.New("course state not found")
	// ErrQuizNotFound means the submitted quiz id has no pending composition.
	ErrQuizNotFound = errors.New("pending quiz not found")
	// ErrCourseNotFound indicates an unknown course id.
	ErrCourseNotFound = errors.New("course not found")
)
