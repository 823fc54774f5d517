package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "goals: study/life goals with deadline and priority",
		SQL: `
CREATE TABLE goals (
    id          INTEGER PRIMARY KEY,
    public_id   TEXT NOT NULL UNIQUE,
    title       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    deadline    INTEGER NOT NULL,
    priority    INTEGER NOT NULL CHECK (priority BETWEEN 1 AND 5),
    status      TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'completed', 'archived')),
    created_at  INTEGER NOT NULL,
    updated_at  INTEGER NOT NULL
);

CREATE INDEX idx_goals_status   ON goals(status);
CREATE INDEX idx_goals_deadline ON goals(deadline);
`,
	},
	{
		Version:     2,
		Description: "topics: reviewable units of a goal",
		SQL: `
CREATE TABLE topics (
    id            INTEGER PRIMARY KEY,
    public_id     TEXT NOT NULL UNIQUE,
    goal_id       INTEGER NOT NULL,
    name          TEXT NOT NULL,
    last_reviewed INTEGER,
    review_count  INTEGER NOT NULL DEFAULT 0 CHECK (review_count >= 0),
    created_at    INTEGER NOT NULL,
    updated_at    INTEGER NOT NULL,

    FOREIGN KEY (goal_id) REFERENCES goals(id) ON DELETE CASCADE
);

CREATE INDEX idx_topics_goal          ON topics(goal_id);
CREATE INDEX idx_topics_last_reviewed ON topics(last_reviewed);
`,
	},
	{
		Version:     3,
		Description: "study_sessions: logged reviews against topics",
		SQL: `
CREATE TABLE study_sessions (
    id           INTEGER PRIMARY KEY,
    public_id    TEXT NOT NULL UNIQUE,
    topic_id     INTEGER NOT NULL,
    started_at   INTEGER NOT NULL,
    duration_min INTEGER NOT NULL DEFAULT 0,
    notes        TEXT NOT NULL DEFAULT '',
    created_at   INTEGER NOT NULL,

    FOREIGN KEY (topic_id) REFERENCES topics(id) ON DELETE CASCADE
);

CREATE INDEX idx_sessions_topic   ON study_sessions(topic_id);
CREATE INDEX idx_sessions_started ON study_sessions(started_at DESC);
`,
	},
	{
		Version:     4,
		Description: "plans: generated daily task lists",
		SQL: `
CREATE TABLE plans (
    id         INTEGER PRIMARY KEY,
    plan_date  TEXT NOT NULL UNIQUE,
    source     TEXT NOT NULL CHECK (source IN ('llm', 'fallback')),
    tasks      TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
