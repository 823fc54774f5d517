package store

import (
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var testDeadline = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestCreateGoal(t *testing.T) {
	db := testDB(t)

	g, err := db.CreateGoal("Learn Go", "stdlib and tooling", testDeadline, 4)
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	if g.PublicID == "" {
		t.Error("expected a minted public ID")
	}
	if g.Status != "active" {
		t.Errorf("Status = %q, want active", g.Status)
	}
	if !g.DeadlineTime().Equal(testDeadline) {
		t.Errorf("DeadlineTime = %v, want %v", g.DeadlineTime(), testDeadline)
	}
}

func TestCreateGoalRejectsBadPriority(t *testing.T) {
	db := testDB(t)

	if _, err := db.CreateGoal("bad", "", testDeadline, 0); err == nil {
		t.Error("expected CHECK violation for priority 0")
	}
	if _, err := db.CreateGoal("bad", "", testDeadline, 6); err == nil {
		t.Error("expected CHECK violation for priority 6")
	}
}

func TestGetGoal(t *testing.T) {
	db := testDB(t)

	created, err := db.CreateGoal("Learn Go", "", testDeadline, 3)
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	got, err := db.GetGoal(created.PublicID)
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("GetGoal = %+v, want id %d", got, created.ID)
	}

	missing, err := db.GetGoal("nope")
	if err != nil {
		t.Fatalf("GetGoal missing: %v", err)
	}
	if missing != nil {
		t.Errorf("GetGoal missing = %+v, want nil", missing)
	}
}

func TestListGoalsByStatus(t *testing.T) {
	db := testDB(t)

	a, _ := db.CreateGoal("a", "", testDeadline, 3)
	if _, err := db.CreateGoal("b", "", testDeadline, 3); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	status := "archived"
	if _, err := db.UpdateGoal(a.PublicID, GoalPatch{Status: &status}); err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}

	active, err := db.ListGoals("active")
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if len(active) != 1 || active[0].Title != "b" {
		t.Errorf("active = %+v, want just b", active)
	}

	all, err := db.ListGoals("")
	if err != nil {
		t.Fatalf("ListGoals all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len(all) = %d, want 2", len(all))
	}
}

func TestUpdateGoalPartialPatch(t *testing.T) {
	db := testDB(t)

	g, _ := db.CreateGoal("Learn Go", "desc", testDeadline, 3)

	p := 5
	updated, err := db.UpdateGoal(g.PublicID, GoalPatch{Priority: &p})
	if err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}
	if updated.Priority != 5 {
		t.Errorf("Priority = %d, want 5", updated.Priority)
	}
	if updated.Title != "Learn Go" || updated.Description != "desc" {
		t.Error("unpatched fields changed")
	}

	none, err := db.UpdateGoal("missing", GoalPatch{Priority: &p})
	if err != nil {
		t.Fatalf("UpdateGoal missing: %v", err)
	}
	if none != nil {
		t.Errorf("UpdateGoal missing = %+v, want nil", none)
	}
}

func TestDeleteGoalCascades(t *testing.T) {
	db := testDB(t)

	g, _ := db.CreateGoal("Learn Go", "", testDeadline, 3)
	topic, err := db.CreateTopic(g.ID, "goroutines")
	if err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}

	ok, err := db.DeleteGoal(g.PublicID)
	if err != nil {
		t.Fatalf("DeleteGoal: %v", err)
	}
	if !ok {
		t.Fatal("DeleteGoal reported no rows")
	}

	orphan, err := db.GetTopic(topic.PublicID)
	if err != nil {
		t.Fatalf("GetTopic: %v", err)
	}
	if orphan != nil {
		t.Error("topic survived goal deletion; cascade broken")
	}
}
