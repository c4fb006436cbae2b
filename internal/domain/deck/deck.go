package deck

import (
	"errors"
	"strings"

	"github.com/quizdrill/backend/internal/id"
)

// SegmentDelimiter separates the acceptable answers encoded in a question's
// AcceptedAnswer field. A question requiring several distinct answers
// ("name three...") encodes each required answer as one segment.
const SegmentDelimiter = "@"

// Question is an immutable flashcard record.
type Question struct {
	ID             string
	Prompt         string
	AcceptedAnswer string  // one or more segments separated by SegmentDelimiter
	Note           string  // optional explanation shown after submission
	BeforeMedia    *string // opaque media reference shown with the prompt
	AfterMedia     *string // opaque media reference shown with the feedback
}

// Segments parses AcceptedAnswer into its acceptable-answer strings:
// each segment trimmed, lower-cased, empties dropped.
func (q Question) Segments() []string {
	parts := strings.Split(q.AcceptedAnswer, SegmentDelimiter)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// Deck is a set of questions practiced together.
type Deck struct {
	ID        string
	Title     string
	TopicID   *string // nil for unassigned decks
	Questions []Question
}

func New(title string) *Deck {
	return &Deck{
		ID:        id.New(),
		Title:     title,
		TopicID:   nil,
		Questions: []Question{},
	}
}

func NewWithTopic(title string, topicID string) *Deck {
	return &Deck{
		ID:        id.New(),
		Title:     title,
		TopicID:   &topicID,
		Questions: []Question{},
	}
}

func (d *Deck) SetTopic(topicID *string) {
	d.TopicID = topicID
}

// AddQuestion appends a question to the deck. The accepted answer must yield
// at least one non-empty segment; rejecting malformed questions here keeps
// the session engine free of data-quality checks.
func (d *Deck) AddQuestion(prompt, acceptedAnswer string) error {
	return d.AddQuestionWithOptions(prompt, acceptedAnswer, "", nil, nil)
}

func (d *Deck) AddQuestionWithOptions(prompt, acceptedAnswer, note string, beforeMedia, afterMedia *string) error {
	if prompt == "" {
		return errors.New("question prompt cannot be empty")
	}
	q := Question{
		ID:             id.New(),
		Prompt:         prompt,
		AcceptedAnswer: acceptedAnswer,
		Note:           note,
		BeforeMedia:    beforeMedia,
		AfterMedia:     afterMedia,
	}
	if len(q.Segments()) == 0 {
		return errors.New("accepted answer must contain at least one non-empty segment")
	}
	d.Questions = append(d.Questions, q)
	return nil
}
