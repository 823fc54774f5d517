package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Topic is a reviewable unit of a goal. LastReviewed is nil until the
// first study session is logged; ReviewCount only ever increases.
type Topic struct {
	ID           int64
	PublicID     string
	GoalID       int64
	Name         string
	LastReviewed *int64
	ReviewCount  int
	CreatedAt    int64
	UpdatedAt    int64
}

// LastReviewedTime returns the last review instant as a UTC time, or nil
// if the topic has never been reviewed.
func (t *Topic) LastReviewedTime() *time.Time {
	if t.LastReviewed == nil {
		return nil
	}
	ts := time.UnixMilli(*t.LastReviewed).UTC()
	return &ts
}

const topicColumns = "id, public_id, goal_id, name, last_reviewed, review_count, created_at, updated_at"

func scanTopic(row interface{ Scan(...any) error }) (*Topic, error) {
	var t Topic
	err := row.Scan(&t.ID, &t.PublicID, &t.GoalID, &t.Name, &t.LastReviewed, &t.ReviewCount, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTopic inserts a new topic under the given goal (by internal ID).
func (db *DB) CreateTopic(goalID int64, name string) (*Topic, error) {
	now := time.Now().UnixMilli()
	publicID := uuid.NewString()

	result, err := db.Exec(`
		INSERT INTO topics (public_id, goal_id, name, review_count, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
	`, publicID, goalID, name, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert topic: %w", err)
	}

	id, _ := result.LastInsertId()
	return &Topic{
		ID:        id,
		PublicID:  publicID,
		GoalID:    goalID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetTopic returns a topic by its public ID, or nil if not found.
func (db *DB) GetTopic(publicID string) (*Topic, error) {
	t, err := scanTopic(db.QueryRow(
		"SELECT "+topicColumns+" FROM topics WHERE public_id = ?", publicID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get topic: %w", err)
	}
	return t, nil
}

// ListTopicsByGoal returns a goal's topics in creation order.
func (db *DB) ListTopicsByGoal(goalID int64) ([]Topic, error) {
	rows, err := db.Query(
		"SELECT "+topicColumns+" FROM topics WHERE goal_id = ? ORDER BY created_at, id", goalID)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()
	return collectTopics(rows)
}

// ListActiveTopics returns every topic belonging to an active goal, in
// creation order. This is the working set for due lists and plan
// generation.
func (db *DB) ListActiveTopics() ([]Topic, error) {
	rows, err := db.Query(`
		SELECT t.id, t.public_id, t.goal_id, t.name, t.last_reviewed, t.review_count, t.created_at, t.updated_at
		FROM topics t
		JOIN goals g ON g.id = t.goal_id
		WHERE g.status = 'active'
		ORDER BY t.created_at, t.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list active topics: %w", err)
	}
	defer rows.Close()
	return collectTopics(rows)
}

func collectTopics(rows *sql.Rows) ([]Topic, error) {
	var topics []Topic
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, *t)
	}
	return topics, rows.Err()
}

// DeleteTopic removes a topic and its sessions. Returns false if no topic
// matched.
func (db *DB) DeleteTopic(publicID string) (bool, error) {
	result, err := db.Exec("DELETE FROM topics WHERE public_id = ?", publicID)
	if err != nil {
		return false, fmt.Errorf("delete topic: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}
