package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Plan is a stored daily task list. PlanDate is a YYYY-MM-DD string and
// Tasks is the JSON-encoded task array produced by the planner.
type Plan struct {
	ID        int64
	PlanDate  string
	Source    string // "llm" or "fallback"
	Tasks     string
	CreatedAt int64
}

// SavePlan stores (or replaces) the plan for a date.
func (db *DB) SavePlan(planDate, source, tasks string) (*Plan, error) {
	now := time.Now().UnixMilli()

	result, err := db.Exec(`
		INSERT INTO plans (plan_date, source, tasks, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(plan_date) DO UPDATE SET source = excluded.source, tasks = excluded.tasks, created_at = excluded.created_at
	`, planDate, source, tasks, now)
	if err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}

	id, _ := result.LastInsertId()
	return &Plan{
		ID:        id,
		PlanDate:  planDate,
		Source:    source,
		Tasks:     tasks,
		CreatedAt: now,
	}, nil
}

// GetPlan returns the stored plan for a date, or nil if none exists.
func (db *DB) GetPlan(planDate string) (*Plan, error) {
	var p Plan
	err := db.QueryRow(`
		SELECT id, plan_date, source, tasks, created_at
		FROM plans WHERE plan_date = ?
	`, planDate).Scan(&p.ID, &p.PlanDate, &p.Source, &p.Tasks, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return &p, nil
}
