// Package planner turns scheduling signal into a daily task list.
//
// The planner itself never scores anything: all ranking comes from the
// schedule package, evaluated at a single reference instant per plan. The
// LLM free-forms the task list from that signal; its output is parsed and
// validated as an untrusted input, and any failure falls back to a
// deterministic plan built from the same ranking.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cadence-sh/cadence/internal/llm"
	"github.com/cadence-sh/cadence/internal/schedule"
	"github.com/cadence-sh/cadence/internal/store"
)

// Task is one entry of a generated daily plan.
type Task struct {
	TopicID          string `json:"topic_id"`
	Topic            string `json:"topic"`
	Goal             string `json:"goal"`
	Action           string `json:"action"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

// Plan is a generated daily task list.
type Plan struct {
	Date   string `json:"date"`
	Source string `json:"source"` // "llm" or "fallback"
	Tasks  []Task `json:"tasks"`
}

// Planner generates and persists daily plans.
type Planner struct {
	DB       *store.DB
	LLM      llm.Client // nil disables LLM generation entirely
	MaxTasks int
}

// New creates a Planner. maxTasks caps the plan length; values below 1
// fall back to 6.
func New(db *store.DB, client llm.Client, maxTasks int) *Planner {
	if maxTasks < 1 {
		maxTasks = 6
	}
	return &Planner{DB: db, LLM: client, MaxTasks: maxTasks}
}

// dueTopic pairs a due topic with its owning goal for prompt rendering and
// task construction.
type dueTopic struct {
	topic   store.Topic
	goal    store.Goal
	level   schedule.Level
	urgency int
}

// Generate builds, persists, and returns the plan for the day containing
// the reference instant. An existing plan for that date is replaced.
// Whenever the LLM path fails (no client, transport error, unparseable or
// entirely invalid output) the deterministic fallback plan is used instead.
func (p *Planner) Generate(ctx context.Context, now time.Time) (*Plan, error) {
	date := now.UTC().Format("2006-01-02")

	goals, due, err := p.gather(now)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Date: date, Source: "fallback"}

	if p.LLM != nil && len(due) > 0 {
		tasks, err := p.generateLLM(ctx, date, goals, due, now)
		if err != nil {
			log.Printf("plan: llm generation failed, using fallback: %v", err)
		} else {
			plan.Source = "llm"
			plan.Tasks = tasks
		}
	}

	if plan.Source == "fallback" {
		plan.Tasks = p.fallbackTasks(goals, due, now)
	}

	if err := p.save(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// GenerateFallback builds and persists the deterministic plan for the day,
// skipping the LLM even when one is configured.
func (p *Planner) GenerateFallback(now time.Time) (*Plan, error) {
	date := now.UTC().Format("2006-01-02")

	goals, due, err := p.gather(now)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Date:   date,
		Source: "fallback",
		Tasks:  p.fallbackTasks(goals, due, now),
	}
	if err := p.save(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// gather loads active goals and their due topics, ranked by urgency at the
// reference instant.
func (p *Planner) gather(now time.Time) ([]store.Goal, []dueTopic, error) {
	goals, err := p.DB.ListGoals("active")
	if err != nil {
		return nil, nil, fmt.Errorf("list goals: %w", err)
	}

	views := make([]schedule.Goal, len(goals))
	goalByID := make(map[string]store.Goal, len(goals))
	goalByInternal := make(map[int64]store.Goal, len(goals))
	for i, g := range goals {
		views[i] = schedule.Goal{ID: g.PublicID, Deadline: g.DeadlineTime(), Priority: g.Priority}
		goalByID[g.PublicID] = g
		goalByInternal[g.ID] = g
	}

	ranked := schedule.RankGoals(views, now)
	orderedGoals := make([]store.Goal, len(ranked))
	for i, v := range ranked {
		orderedGoals[i] = goalByID[v.ID]
	}

	topics, err := p.DB.ListActiveTopics()
	if err != nil {
		return nil, nil, fmt.Errorf("list topics: %w", err)
	}

	var due []dueTopic
	for _, t := range topics {
		last := t.LastReviewedTime()
		if !schedule.IsDue(last, t.ReviewCount, now) {
			continue
		}
		view := schedule.Topic{ID: t.PublicID, LastReviewed: last, ReviewCount: t.ReviewCount}
		due = append(due, dueTopic{
			topic:   t,
			goal:    goalByInternal[t.GoalID],
			level:   schedule.Decay(last, t.ReviewCount, now),
			urgency: schedule.TopicUrgency(view, now),
		})
	}

	// Most urgent first; equal scores keep store order.
	sortDueTopics(due)

	return orderedGoals, due, nil
}

// generateLLM runs the LLM path: prompt, complete, parse, validate.
// It errors when nothing usable survives validation.
func (p *Planner) generateLLM(ctx context.Context, date string, goals []store.Goal, due []dueTopic, now time.Time) ([]Task, error) {
	prompt := llm.PlanPrompt(date, renderGoals(goals, now), renderTopics(due), p.MaxTasks)

	resp, err := p.LLM.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("llm complete: %w", err)
	}

	raw, err := parsePlanResponse(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse plan response: %w", err)
	}

	byID := make(map[string]dueTopic, len(due))
	for _, d := range due {
		byID[d.topic.PublicID] = d
	}

	var tasks []Task
	for _, r := range raw {
		task, err := validateTask(r, byID)
		if err != nil {
			log.Printf("plan: rejecting task %q: %v", r.Action, err)
			continue
		}
		tasks = append(tasks, task)
		if len(tasks) == p.MaxTasks {
			break
		}
	}

	if len(tasks) == 0 {
		return nil, fmt.Errorf("no valid tasks in LLM plan (%d candidates)", len(raw))
	}
	return tasks, nil
}

func (p *Planner) save(plan *Plan) error {
	tasks := plan.Tasks
	if tasks == nil {
		tasks = []Task{}
	}
	encoded, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if _, err := p.DB.SavePlan(plan.Date, plan.Source, string(encoded)); err != nil {
		return err
	}
	return nil
}

// renderGoals builds the ranked goal digest for the plan prompt.
func renderGoals(goals []store.Goal, now time.Time) string {
	if len(goals) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, g := range goals {
		score := schedule.GoalUrgency(g.DeadlineTime(), g.Priority, now)
		fmt.Fprintf(&b, "- [urgency %d] %s (deadline %s, priority %d)\n",
			score, g.Title, g.DeadlineTime().Format("2006-01-02"), g.Priority)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderTopics builds the due-topic digest for the plan prompt.
func renderTopics(due []dueTopic) string {
	if len(due) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, d := range due {
		fmt.Fprintf(&b, "- id=%s [%s] %s (goal: %s, urgency %d)\n",
			d.topic.PublicID, d.level, d.topic.Name, d.goal.Title, d.urgency)
	}
	return strings.TrimRight(b.String(), "\n")
}
