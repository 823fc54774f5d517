package cli

import (
	"fmt"
	"time"

	"github.com/cadence-sh/cadence/internal/schedule"
	"github.com/cadence-sh/cadence/internal/store"
	"github.com/spf13/cobra"
)

var dueAsOf string

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List topics due for review",
	RunE:  runDue,
}

func init() {
	dueCmd.Flags().StringVar(&dueAsOf, "as-of", "", "evaluate at this date (YYYY-MM-DD) instead of now")
}

func runDue(cmd *cobra.Command, args []string) error {
	now := time.Now().UTC()
	if dueAsOf != "" {
		var err error
		now, err = time.Parse("2006-01-02", dueAsOf)
		if err != nil {
			return fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
		}
	}

	db, err := openDB(loadConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	topics, err := db.ListActiveTopics()
	if err != nil {
		return err
	}
	goals, err := db.ListGoals("active")
	if err != nil {
		return err
	}
	goalByID := make(map[int64]store.Goal, len(goals))
	for _, g := range goals {
		goalByID[g.ID] = g
	}

	views := make([]schedule.Topic, len(topics))
	topicByID := make(map[string]store.Topic, len(topics))
	for i, t := range topics {
		views[i] = schedule.Topic{ID: t.PublicID, LastReviewed: t.LastReviewedTime(), ReviewCount: t.ReviewCount}
		topicByID[t.PublicID] = t
	}

	due := schedule.RankTopics(schedule.DueTopics(views, now), now)
	if len(due) == 0 {
		fmt.Println("nothing due — all caught up")
		return nil
	}

	for _, v := range due {
		t := topicByID[v.ID]
		level := schedule.Decay(v.LastReviewed, v.ReviewCount, now)
		last := "never"
		if v.LastReviewed != nil {
			last = v.LastReviewed.Format("2006-01-02")
		}
		fmt.Printf("[%-6s] %-30s  goal: %-25s  last: %s  (%s)\n",
			level, t.Name, goalByID[t.GoalID].Title, last, t.PublicID)
	}
	return nil
}
