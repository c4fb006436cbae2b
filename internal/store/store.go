package store

import "errors"

var (
	ErrNotFound = errors.New("not found")
)

// MasteryRecord is one row of the per-(subject, topic) mastery counter.
type MasteryRecord struct {
	SubjectID string
	TopicID   string
	Level     int
}
