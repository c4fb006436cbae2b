// internal/store/sqlite_mastery.go
package store

import (
	"context"
	"database/sql"
)

// IncrementMastery bumps the counter for a (subject, topic) pair, creating
// the row on first use. Empty IDs are valid keys: a deck without a topic
// still accumulates mastery under the empty pair.
func (s *SQLiteStore) IncrementMastery(ctx context.Context, subjectID, topicID string, delta int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mastery (subject_id, topic_id, level) VALUES (?, ?, ?)
		ON CONFLICT (subject_id, topic_id) DO UPDATE SET level = level + excluded.level
	`, subjectID, topicID, delta)
	return err
}

// GetMastery returns the level for a (subject, topic) pair, zero when the
// pair has never been practiced.
func (s *SQLiteStore) GetMastery(ctx context.Context, subjectID, topicID string) (int, error) {
	var level int
	err := s.db.QueryRowContext(ctx,
		"SELECT level FROM mastery WHERE subject_id = ? AND topic_id = ?",
		subjectID, topicID,
	).Scan(&level)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return level, nil
}

// ListMasteryBySubject returns all mastery rows under one subject.
func (s *SQLiteStore) ListMasteryBySubject(ctx context.Context, subjectID string) ([]MasteryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT subject_id, topic_id, level FROM mastery WHERE subject_id = ?", subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []MasteryRecord
	for rows.Next() {
		var rec MasteryRecord
		if err := rows.Scan(&rec.SubjectID, &rec.TopicID, &rec.Level); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
