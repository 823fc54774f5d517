package cli

import (
	"fmt"
	"time"

	"github.com/cadence-sh/cadence/internal/schedule"
	"github.com/spf13/cobra"
)

var (
	logMinutes int
	logNotes   string
	logAt      string
)

var logCmd = &cobra.Command{
	Use:   "log <topic-id>",
	Short: "Record a study session against a topic",
	Args:  cobra.ExactArgs(1),
	RunE:  runLog,
}

func init() {
	logCmd.Flags().IntVar(&logMinutes, "minutes", 25, "session length in minutes")
	logCmd.Flags().StringVar(&logNotes, "notes", "", "what was covered")
	logCmd.Flags().StringVar(&logAt, "at", "", "session start (RFC3339), defaults to now")
}

func runLog(cmd *cobra.Command, args []string) error {
	startedAt := time.Now().UTC()
	if logAt != "" {
		var err error
		startedAt, err = time.Parse(time.RFC3339, logAt)
		if err != nil {
			return fmt.Errorf("--at must be RFC3339: %w", err)
		}
	}
	if logMinutes < 0 {
		return fmt.Errorf("--minutes must be non-negative")
	}

	db, err := openDB(loadConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	topic, err := db.GetTopic(args[0])
	if err != nil {
		return err
	}
	if topic == nil {
		return fmt.Errorf("no topic with id %s", args[0])
	}

	if _, err := db.LogSession(topic.ID, startedAt, logMinutes, logNotes); err != nil {
		return err
	}

	updated, err := db.GetTopic(topic.PublicID)
	if err != nil {
		return err
	}

	next := schedule.NextReview(updated.LastReviewedTime(), updated.ReviewCount)
	fmt.Printf("logged %d min on %s (review #%d)\n", logMinutes, updated.Name, updated.ReviewCount)
	if next != nil {
		fmt.Printf("next review: %s\n", next.Format("2006-01-02"))
	}
	return nil
}
