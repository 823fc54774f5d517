package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Goal is a persisted study/life goal. Deadline and the audit timestamps
// are milliseconds since the Unix epoch.
type Goal struct {
	ID          int64
	PublicID    string
	Title       string
	Description string
	Deadline    int64
	Priority    int
	Status      string
	CreatedAt   int64
	UpdatedAt   int64
}

// DeadlineTime returns the goal's deadline as a UTC time.
func (g *Goal) DeadlineTime() time.Time {
	return time.UnixMilli(g.Deadline).UTC()
}

const goalColumns = "id, public_id, title, description, deadline, priority, status, created_at, updated_at"

func scanGoal(row interface{ Scan(...any) error }) (*Goal, error) {
	var g Goal
	err := row.Scan(&g.ID, &g.PublicID, &g.Title, &g.Description, &g.Deadline, &g.Priority, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// CreateGoal inserts a new active goal and mints its public ID.
// Priority must already be validated to [1,5]; the schema enforces it too.
func (db *DB) CreateGoal(title, description string, deadline time.Time, priority int) (*Goal, error) {
	now := time.Now().UnixMilli()
	publicID := uuid.NewString()

	result, err := db.Exec(`
		INSERT INTO goals (public_id, title, description, deadline, priority, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 'active', ?, ?)
	`, publicID, title, description, deadline.UnixMilli(), priority, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}

	id, _ := result.LastInsertId()
	return &Goal{
		ID:          id,
		PublicID:    publicID,
		Title:       title,
		Description: description,
		Deadline:    deadline.UnixMilli(),
		Priority:    priority,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// GetGoal returns a goal by its public ID, or nil if not found.
func (db *DB) GetGoal(publicID string) (*Goal, error) {
	g, err := scanGoal(db.QueryRow(
		"SELECT "+goalColumns+" FROM goals WHERE public_id = ?", publicID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

// ListGoals returns goals filtered by status ("" = all), ordered by
// creation time so callers can rely on a stable input order for ranking.
func (db *DB) ListGoals(status string) ([]Goal, error) {
	query := "SELECT " + goalColumns + " FROM goals"
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at, id"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// GoalPatch holds optional field updates for UpdateGoal. Nil fields are
// left unchanged.
type GoalPatch struct {
	Title       *string
	Description *string
	Deadline    *time.Time
	Priority    *int
	Status      *string
}

// UpdateGoal applies a patch to the goal with the given public ID and
// returns the updated record, or nil if the goal does not exist.
func (db *DB) UpdateGoal(publicID string, patch GoalPatch) (*Goal, error) {
	g, err := db.GetGoal(publicID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, nil
	}

	if patch.Title != nil {
		g.Title = *patch.Title
	}
	if patch.Description != nil {
		g.Description = *patch.Description
	}
	if patch.Deadline != nil {
		g.Deadline = patch.Deadline.UnixMilli()
	}
	if patch.Priority != nil {
		g.Priority = *patch.Priority
	}
	if patch.Status != nil {
		g.Status = *patch.Status
	}
	g.UpdatedAt = time.Now().UnixMilli()

	_, err = db.Exec(`
		UPDATE goals SET title = ?, description = ?, deadline = ?, priority = ?, status = ?, updated_at = ?
		WHERE public_id = ?
	`, g.Title, g.Description, g.Deadline, g.Priority, g.Status, g.UpdatedAt, publicID)
	if err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return g, nil
}

// DeleteGoal removes a goal and, via cascade, its topics and sessions.
// Returns false if no goal matched.
func (db *DB) DeleteGoal(publicID string) (bool, error) {
	result, err := db.Exec("DELETE FROM goals WHERE public_id = ?", publicID)
	if err != nil {
		return false, fmt.Errorf("delete goal: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}
