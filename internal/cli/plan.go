package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cadence-sh/cadence/internal/llm"
	"github.com/cadence-sh/cadence/internal/planner"
	"github.com/spf13/cobra"
)

var (
	planDate     string
	planFallback bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate the daily study plan",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planDate, "date", "", "plan date (YYYY-MM-DD), defaults to today")
	planCmd.Flags().BoolVar(&planFallback, "fallback", false, "skip the LLM and build the deterministic plan")
}

func runPlan(cmd *cobra.Command, args []string) error {
	now := time.Now().UTC()
	if planDate != "" {
		var err error
		now, err = time.Parse("2006-01-02", planDate)
		if err != nil {
			return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
		}
	}

	cfg := loadConfig()
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	var client llm.Client
	if !planFallback {
		client, err = llm.NewClient(cfg.LLM)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: LLM not configured (%v), using fallback\n", err)
			client = nil
		}
	}

	pl := planner.New(db, client, cfg.Planner.MaxTasks)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	plan, err := pl.Generate(ctx, now)
	if err != nil {
		return err
	}

	fmt.Printf("plan for %s (%s)\n", plan.Date, plan.Source)
	if len(plan.Tasks) == 0 {
		fmt.Println("nothing to do — all caught up")
		return nil
	}
	for i, task := range plan.Tasks {
		fmt.Printf("%2d. %s — %s [%s, %d min]\n",
			i+1, task.Topic, task.Action, task.Goal, task.EstimatedMinutes)
	}
	return nil
}
