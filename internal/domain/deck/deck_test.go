package deck_test

import (
	"testing"

	"github.com/quizdrill/backend/internal/domain/deck"
)

func TestNewDeck(t *testing.T) {
	d := deck.New("European Capitals")

	if d.Title != "European Capitals" {
		t.Errorf("expected title %q, got %q", "European Capitals", d.Title)
	}

	if len(d.Questions) != 0 {
		t.Errorf("expected empty deck, got %d questions", len(d.Questions))
	}
}

func TestAddQuestion(t *testing.T) {
	d := deck.New("European Capitals")

	err := d.AddQuestion("Capital of France?", "Paris")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(d.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(d.Questions))
	}

	q := d.Questions[0]
	if q.Prompt != "Capital of France?" {
		t.Errorf("expected prompt %q, got %q", "Capital of France?", q.Prompt)
	}
}

func TestAddQuestion_EmptyPrompt(t *testing.T) {
	d := deck.New("European Capitals")

	err := d.AddQuestion("", "Paris")
	if err == nil {
		t.Error("expected error for empty prompt, got nil")
	}

	if len(d.Questions) != 0 {
		t.Error("expected no questions after failed add")
	}
}

func TestAddQuestion_NoValidSegments(t *testing.T) {
	for _, answer := range []string{"", "   ", "@", " @ @ "} {
		d := deck.New("European Capitals")
		if err := d.AddQuestion("Capital of France?", answer); err == nil {
			t.Errorf("expected error for accepted answer %q, got nil", answer)
		}
	}
}

func TestSegments(t *testing.T) {
	tests := []struct {
		accepted string
		want     []string
	}{
		{"Paris", []string{"paris"}},
		{" Paris ", []string{"paris"}},
		{"red@green@blue", []string{"red", "green", "blue"}},
		{"Red @ Green @", []string{"red", "green"}},
		{"a@@b", []string{"a", "b"}},
	}

	for _, tt := range tests {
		q := deck.Question{Prompt: "p", AcceptedAnswer: tt.accepted}
		got := q.Segments()
		if len(got) != len(tt.want) {
			t.Errorf("Segments(%q) = %v, want %v", tt.accepted, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Segments(%q)[%d] = %q, want %q", tt.accepted, i, got[i], tt.want[i])
			}
		}
	}
}
