// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/quizdrill/backend/internal/domain/deck"
	"github.com/quizdrill/backend/internal/domain/subject"
	"github.com/quizdrill/backend/internal/domain/topic"
)

const schema = `
CREATE TABLE IF NOT EXISTS subjects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS topics (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    subject_id TEXT,
    FOREIGN KEY (subject_id) REFERENCES subjects(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS decks (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    topic_id TEXT,
    FOREIGN KEY (topic_id) REFERENCES topics(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS questions (
    id TEXT PRIMARY KEY,
    deck_id TEXT NOT NULL,
    prompt TEXT NOT NULL,
    accepted_answer TEXT NOT NULL,
    note TEXT NOT NULL DEFAULT '',
    before_media TEXT,
    after_media TEXT,
    FOREIGN KEY (deck_id) REFERENCES decks(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS mastery (
    subject_id TEXT NOT NULL,
    topic_id TEXT NOT NULL,
    level INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (subject_id, topic_id)
);
`

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Subjects
// ============================================================================

func (s *SQLiteStore) SaveSubject(ctx context.Context, sub *subject.Subject) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO subjects (id, name) VALUES (?, ?)", sub.ID, sub.Name)
	return err
}

func (s *SQLiteStore) GetSubject(ctx context.Context, id string) (*subject.Subject, error) {
	var sub subject.Subject
	err := s.db.QueryRowContext(ctx, "SELECT id, name FROM subjects WHERE id = ?", id).Scan(&sub.ID, &sub.Name)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SQLiteStore) ListSubjects(ctx context.Context) ([]*subject.Subject, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM subjects")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*subject.Subject
	for rows.Next() {
		var sub subject.Subject
		if err := rows.Scan(&sub.ID, &sub.Name); err != nil {
			return nil, err
		}
		subjects = append(subjects, &sub)
	}
	return subjects, rows.Err()
}

func (s *SQLiteStore) UpdateSubject(ctx context.Context, sub *subject.Subject) error {
	result, err := s.db.ExecContext(ctx, "UPDATE subjects SET name = ? WHERE id = ?", sub.Name, sub.ID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteSubject(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Delete the whole subtree: questions → decks → topics → mastery rows.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM questions
		WHERE deck_id IN (
			SELECT id FROM decks WHERE topic_id IN (SELECT id FROM topics WHERE subject_id = ?)
		)
	`, id)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM decks
		WHERE topic_id IN (SELECT id FROM topics WHERE subject_id = ?)
	`, id)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM topics WHERE subject_id = ?", id)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM mastery WHERE subject_id = ?", id)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM subjects WHERE id = ?", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// ============================================================================
// Topics
// ============================================================================

func (s *SQLiteStore) SaveTopic(ctx context.Context, t *topic.Topic) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO topics (id, name, subject_id) VALUES (?, ?, ?)", t.ID, t.Name, t.SubjectID)
	return err
}

func (s *SQLiteStore) GetTopic(ctx context.Context, id string) (*topic.Topic, error) {
	var t topic.Topic
	var subjectID sql.NullString

	err := s.db.QueryRowContext(ctx, "SELECT id, name, subject_id FROM topics WHERE id = ?", id).Scan(&t.ID, &t.Name, &subjectID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if subjectID.Valid {
		t.SubjectID = &subjectID.String
	}
	return &t, nil
}

func (s *SQLiteStore) ListTopics(ctx context.Context) ([]*topic.Topic, error) {
	return s.queryTopics(ctx, "SELECT id, name, subject_id FROM topics")
}

func (s *SQLiteStore) ListTopicsBySubject(ctx context.Context, subjectID string) ([]*topic.Topic, error) {
	return s.queryTopics(ctx, "SELECT id, name, subject_id FROM topics WHERE subject_id = ?", subjectID)
}

func (s *SQLiteStore) queryTopics(ctx context.Context, query string, args ...any) ([]*topic.Topic, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []*topic.Topic
	for rows.Next() {
		var t topic.Topic
		var subjectID sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &subjectID); err != nil {
			return nil, err
		}
		if subjectID.Valid {
			t.SubjectID = &subjectID.String
		}
		topics = append(topics, &t)
	}
	return topics, rows.Err()
}

func (s *SQLiteStore) UpdateTopic(ctx context.Context, t *topic.Topic) error {
	result, err := s.db.ExecContext(ctx, "UPDATE topics SET name = ? WHERE id = ?", t.Name, t.ID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteTopic(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM questions
		WHERE deck_id IN (SELECT id FROM decks WHERE topic_id = ?)
	`, id)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM decks WHERE topic_id = ?", id)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM mastery WHERE topic_id = ?", id)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM topics WHERE id = ?", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// ============================================================================
// Decks
// ============================================================================

func (s *SQLiteStore) SaveDeck(ctx context.Context, d *deck.Deck) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO decks (id, title, topic_id) VALUES (?, ?, ?)", d.ID, d.Title, d.TopicID)
	return err
}

func (s *SQLiteStore) GetDeck(ctx context.Context, id string) (*deck.Deck, error) {
	var d deck.Deck
	var topicID sql.NullString

	err := s.db.QueryRowContext(ctx, "SELECT id, title, topic_id FROM decks WHERE id = ?", id).Scan(&d.ID, &d.Title, &topicID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if topicID.Valid {
		d.TopicID = &topicID.String
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, prompt, accepted_answer, note, before_media, after_media FROM questions WHERE deck_id = ?", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		d.Questions = append(d.Questions, q)
	}

	return &d, rows.Err()
}

func (s *SQLiteStore) ListDecks(ctx context.Context) ([]*deck.Deck, error) {
	return s.queryDecks(ctx, "SELECT id, title, topic_id FROM decks")
}

func (s *SQLiteStore) ListDecksByTopic(ctx context.Context, topicID string) ([]*deck.Deck, error) {
	return s.queryDecks(ctx, "SELECT id, title, topic_id FROM decks WHERE topic_id = ?", topicID)
}

func (s *SQLiteStore) ListUnassignedDecks(ctx context.Context) ([]*deck.Deck, error) {
	return s.queryDecks(ctx, "SELECT id, title, topic_id FROM decks WHERE topic_id IS NULL")
}

func (s *SQLiteStore) queryDecks(ctx context.Context, query string, args ...any) ([]*deck.Deck, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []*deck.Deck
	for rows.Next() {
		var d deck.Deck
		var topicID sql.NullString
		if err := rows.Scan(&d.ID, &d.Title, &topicID); err != nil {
			return nil, err
		}
		if topicID.Valid {
			d.TopicID = &topicID.String
		}
		decks = append(decks, &d)
	}
	return decks, rows.Err()
}

func (s *SQLiteStore) UpdateDeckTopic(ctx context.Context, deckID string, topicID *string) error {
	result, err := s.db.ExecContext(ctx, "UPDATE decks SET topic_id = ? WHERE id = ?", topicID, deckID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteDeck(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "DELETE FROM questions WHERE deck_id = ?", id)
	if err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM decks WHERE id = ?", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// ============================================================================
// Questions
// ============================================================================

func (s *SQLiteStore) AddQuestion(ctx context.Context, deckID string, q deck.Question) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO questions (id, deck_id, prompt, accepted_answer, note, before_media, after_media) VALUES (?, ?, ?, ?, ?, ?, ?)",
		q.ID, deckID, q.Prompt, q.AcceptedAnswer, q.Note, q.BeforeMedia, q.AfterMedia,
	)
	return err
}

func (s *SQLiteStore) DeleteQuestion(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM questions WHERE id = ?", id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanQuestion(rows *sql.Rows) (deck.Question, error) {
	var q deck.Question
	var before, after sql.NullString
	if err := rows.Scan(&q.ID, &q.Prompt, &q.AcceptedAnswer, &q.Note, &before, &after); err != nil {
		return deck.Question{}, err
	}
	if before.Valid {
		q.BeforeMedia = &before.String
	}
	if after.Valid {
		q.AfterMedia = &after.String
	}
	return q, nil
}
