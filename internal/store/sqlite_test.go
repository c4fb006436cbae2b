package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/quizdrill/backend/internal/domain/deck"
	"github.com/quizdrill/backend/internal/domain/subject"
	"github.com/quizdrill/backend/internal/domain/topic"
	"github.com/quizdrill/backend/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedTree persists subject → topic → deck with one question and returns them.
func seedTree(t *testing.T, s *store.SQLiteStore) (*subject.Subject, *topic.Topic, *deck.Deck) {
	t.Helper()
	ctx := context.Background()

	sub := subject.New("Languages")
	if err := s.SaveSubject(ctx, sub); err != nil {
		t.Fatalf("save subject: %v", err)
	}

	top := topic.NewWithSubject("Geography", sub.ID)
	if err := s.SaveTopic(ctx, top); err != nil {
		t.Fatalf("save topic: %v", err)
	}

	d := deck.NewWithTopic("Capitals", top.ID)
	if err := d.AddQuestion("Capital of France?", "Paris"); err != nil {
		t.Fatalf("add question: %v", err)
	}
	if err := s.SaveDeck(ctx, d); err != nil {
		t.Fatalf("save deck: %v", err)
	}
	if err := s.AddQuestion(ctx, d.ID, d.Questions[0]); err != nil {
		t.Fatalf("persist question: %v", err)
	}

	return sub, top, d
}

func TestGetDeck_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	_, top, d := seedTree(t, s)

	got, err := s.GetDeck(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("get deck: %v", err)
	}
	if got.Title != "Capitals" {
		t.Errorf("title = %q, want %q", got.Title, "Capitals")
	}
	if got.TopicID == nil || *got.TopicID != top.ID {
		t.Errorf("topic id = %v, want %q", got.TopicID, top.ID)
	}
	if len(got.Questions) != 1 {
		t.Fatalf("questions = %d, want 1", len(got.Questions))
	}
	if got.Questions[0].AcceptedAnswer != "Paris" {
		t.Errorf("accepted answer = %q, want %q", got.Questions[0].AcceptedAnswer, "Paris")
	}
	if got.Questions[0].BeforeMedia != nil {
		t.Errorf("before media = %v, want nil", got.Questions[0].BeforeMedia)
	}
}

func TestGetDeck_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetDeck(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteSubject_CascadesWholeSubtree(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sub, top, d := seedTree(t, s)

	if err := s.IncrementMastery(ctx, sub.ID, top.ID, 1); err != nil {
		t.Fatalf("increment mastery: %v", err)
	}

	if err := s.DeleteSubject(ctx, sub.ID); err != nil {
		t.Fatalf("delete subject: %v", err)
	}

	if _, err := s.GetTopic(ctx, top.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("topic err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetDeck(ctx, d.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("deck err = %v, want ErrNotFound", err)
	}
	level, err := s.GetMastery(ctx, sub.ID, top.ID)
	if err != nil {
		t.Fatalf("get mastery: %v", err)
	}
	if level != 0 {
		t.Errorf("mastery after delete = %d, want 0", level)
	}
}

func TestDeleteTopic_KeepsSubject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	sub, top, d := seedTree(t, s)

	if err := s.DeleteTopic(ctx, top.ID); err != nil {
		t.Fatalf("delete topic: %v", err)
	}

	if _, err := s.GetSubject(ctx, sub.ID); err != nil {
		t.Errorf("subject should survive, got %v", err)
	}
	if _, err := s.GetDeck(ctx, d.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("deck err = %v, want ErrNotFound", err)
	}
}

func TestUpdateDeckTopic_Unassign(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, _, d := seedTree(t, s)

	if err := s.UpdateDeckTopic(ctx, d.ID, nil); err != nil {
		t.Fatalf("unassign deck: %v", err)
	}

	unassigned, err := s.ListUnassignedDecks(ctx)
	if err != nil {
		t.Fatalf("list unassigned: %v", err)
	}
	if len(unassigned) != 1 || unassigned[0].ID != d.ID {
		t.Errorf("unassigned decks = %v, want just %q", unassigned, d.ID)
	}
}

func TestUpdateSubject_Missing(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateSubject(context.Background(), &subject.Subject{ID: "missing", Name: "x"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestIncrementMastery_Upserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if level, err := s.GetMastery(ctx, "s1", "t1"); err != nil || level != 0 {
		t.Fatalf("initial mastery = %d, %v; want 0, nil", level, err)
	}

	if err := s.IncrementMastery(ctx, "s1", "t1", 1); err != nil {
		t.Fatalf("first increment: %v", err)
	}
	if err := s.IncrementMastery(ctx, "s1", "t1", 2); err != nil {
		t.Fatalf("second increment: %v", err)
	}

	level, err := s.GetMastery(ctx, "s1", "t1")
	if err != nil {
		t.Fatalf("get mastery: %v", err)
	}
	if level != 3 {
		t.Errorf("mastery = %d, want 3", level)
	}
}

func TestListMasteryBySubject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.IncrementMastery(ctx, "s1", "t1", 2); err != nil {
		t.Fatal(err)
	}
	if err := s.IncrementMastery(ctx, "s1", "t2", 1); err != nil {
		t.Fatal(err)
	}
	if err := s.IncrementMastery(ctx, "other", "t3", 5); err != nil {
		t.Fatal(err)
	}

	records, err := s.ListMasteryBySubject(ctx, "s1")
	if err != nil {
		t.Fatalf("list mastery: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	for _, rec := range records {
		if rec.SubjectID != "s1" {
			t.Errorf("record for subject %q leaked in", rec.SubjectID)
		}
	}
}

func TestDeleteQuestion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, _, d := seedTree(t, s)

	if err := s.DeleteQuestion(ctx, d.Questions[0].ID); err != nil {
		t.Fatalf("delete question: %v", err)
	}

	got, err := s.GetDeck(ctx, d.ID)
	if err != nil {
		t.Fatalf("get deck: %v", err)
	}
	if len(got.Questions) != 0 {
		t.Errorf("questions = %d, want 0", len(got.Questions))
	}

	if err := s.DeleteQuestion(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
