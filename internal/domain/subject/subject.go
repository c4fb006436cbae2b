package subject

import "github.com/quizdrill/backend/internal/id"

// Subject is the top level of the content hierarchy:
// Subject → Topics → Decks → Questions.
// Mastery is tracked per (subject, topic) pair.
type Subject struct {
	ID   string
	Name string
}

// New creates a Subject with a generated ID.
func New(name string) *Subject {
	return &Subject{
		ID:   id.New(),
		Name: name,
	}
}
