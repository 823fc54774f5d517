package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StudySession is one logged review of a topic.
type StudySession struct {
	ID          int64
	PublicID    string
	TopicID     int64
	StartedAt   int64
	DurationMin int
	Notes       string
	CreatedAt   int64
}

// LogSession records a study session against a topic and advances the
// topic's review state in the same transaction: last_reviewed moves to the
// session start and review_count increments. Review counts never decrease.
func (db *DB) LogSession(topicID int64, startedAt time.Time, durationMin int, notes string) (*StudySession, error) {
	now := time.Now().UnixMilli()
	publicID := uuid.NewString()
	started := startedAt.UnixMilli()

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin log session: %w", err)
	}

	result, err := tx.Exec(`
		INSERT INTO study_sessions (public_id, topic_id, started_at, duration_min, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, publicID, topicID, started, durationMin, notes, now)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("insert session: %w", err)
	}

	// last_reviewed only moves forward: logging an older session must not
	// regress a topic that has been reviewed since.
	if _, err := tx.Exec(`
		UPDATE topics
		SET last_reviewed = MAX(COALESCE(last_reviewed, 0), ?),
		    review_count  = review_count + 1,
		    updated_at    = ?
		WHERE id = ?
	`, started, now, topicID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("touch topic: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit log session: %w", err)
	}

	id, _ := result.LastInsertId()
	return &StudySession{
		ID:          id,
		PublicID:    publicID,
		TopicID:     topicID,
		StartedAt:   started,
		DurationMin: durationMin,
		Notes:       notes,
		CreatedAt:   now,
	}, nil
}

// ListSessionsByTopic returns a topic's sessions, most recent first.
func (db *DB) ListSessionsByTopic(topicID int64) ([]StudySession, error) {
	rows, err := db.Query(`
		SELECT id, public_id, topic_id, started_at, duration_min, notes, created_at
		FROM study_sessions WHERE topic_id = ? ORDER BY started_at DESC, id DESC
	`, topicID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []StudySession
	for rows.Next() {
		var s StudySession
		if err := rows.Scan(&s.ID, &s.PublicID, &s.TopicID, &s.StartedAt, &s.DurationMin, &s.Notes, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
