package cli

import (
	"fmt"
	"os"

	"github.com/cadence-sh/cadence/internal/config"
	"github.com/cadence-sh/cadence/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Spaced-repetition study planner",
	Long:  "Cadence tracks goals and topics, schedules reviews with spaced repetition, and generates a daily study plan. Single Go binary.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(goalsCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(planCmd)
}

// loadConfig returns the defaults with environment overrides applied.
func loadConfig() config.Config {
	cfg := config.Default()
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		cfg.LLM.Provider = "anthropic"
		cfg.LLM.AnthropicKey = key
	}
	if path := os.Getenv("CADENCE_DB"); path != "" {
		cfg.Database.Path = path
	}
	return cfg
}

// openDB opens the configured database, resolving the default path when
// none is set.
func openDB(cfg config.Config) (*store.DB, error) {
	path := cfg.Database.Path
	if path == "" {
		var err error
		path, err = store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve db path: %w", err)
		}
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}
