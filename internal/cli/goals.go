package cli

import (
	"fmt"
	"time"

	"github.com/cadence-sh/cadence/internal/schedule"
	"github.com/cadence-sh/cadence/internal/store"
	"github.com/spf13/cobra"
)

var goalsAll bool

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "List goals ranked by urgency",
	RunE:  runGoals,
}

func init() {
	goalsCmd.Flags().BoolVar(&goalsAll, "all", false, "include completed and archived goals")
}

func runGoals(cmd *cobra.Command, args []string) error {
	db, err := openDB(loadConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	status := "active"
	if goalsAll {
		status = ""
	}
	goals, err := db.ListGoals(status)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		fmt.Println("no goals")
		return nil
	}

	now := time.Now().UTC()

	views := make([]schedule.Goal, len(goals))
	byID := make(map[string]store.Goal, len(goals))
	for i, g := range goals {
		views[i] = schedule.Goal{ID: g.PublicID, Deadline: g.DeadlineTime(), Priority: g.Priority}
		byID[g.PublicID] = g
	}

	for _, v := range schedule.RankGoals(views, now) {
		g := byID[v.ID]
		score := schedule.GoalUrgency(g.DeadlineTime(), g.Priority, now)
		fmt.Printf("%3d  %-9s  %s  p%d  %s  (%s)\n",
			score, g.Status, g.DeadlineTime().Format("2006-01-02"), g.Priority, g.Title, g.PublicID)
	}
	return nil
}
