package core

import (
	"github.com/google/uuid"
)

// SubmissionID identifies one prediction form submission in the logs
type SubmissionID string

// NewSubmissionID creates a new unique identifier using UUID v7 for time-ordered generation
func NewSubmissionID() SubmissionID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return SubmissionID(id.String())
}

// String returns the string representation
func (id SubmissionID) String() string {
	return string(id)
}

// Short returns the trailing random part of the id, enough to tell log lines apart
func (id SubmissionID) Short() string {
	s := string(id)
	if len(s) <= 8 {
		return s
	}
	return s[len(s)-8:]
}
