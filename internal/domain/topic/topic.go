package topic

import "github.com/quizdrill/backend/internal/id"

// Topic groups related decks within a subject.
type Topic struct {
	ID        string
	Name      string
	SubjectID *string // nil for unassigned topics
}

func New(name string) *Topic {
	return &Topic{
		ID:   id.New(),
		Name: name,
	}
}

func NewWithSubject(name string, subjectID string) *Topic {
	return &Topic{
		ID:        id.New(),
		Name:      name,
		SubjectID: &subjectID,
	}
}
