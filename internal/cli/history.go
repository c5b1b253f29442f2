package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/zotero-readwise/internal/config"
	"github.com/mrlokans/zotero-readwise/internal/database"
	"github.com/mrlokans/zotero-readwise/internal/database/runs"
)

// HistoryCommand lists recent sync runs.
type HistoryCommand struct {
	cfg *config.Config

	DatabasePath string
	Limit        int
}

// NewHistoryCommand creates a new HistoryCommand with config-derived defaults.
func NewHistoryCommand(cfg *config.Config) *HistoryCommand {
	return &HistoryCommand{cfg: cfg}
}

// ParseFlags parses command line flags
func (cmd *HistoryCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the sync-run history database")
	fs.IntVar(&cmd.Limit, "limit", 10, "Number of runs to show")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s history [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show recent sync runs and their outcomes.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the history command
func (cmd *HistoryCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to open run-history database: %w", err)
	}
	defer db.Close()

	recent, err := runs.NewRepository(db.DB).Recent(cmd.Limit)
	if err != nil {
		return fmt.Errorf("failed to load sync runs: %w", err)
	}

	if len(recent) == 0 {
		fmt.Println("No sync runs recorded yet.")
		return nil
	}

	for _, run := range recent {
		fmt.Printf("#%d  %s  %s  since=%d version=%d  retrieved=%d formatted=%d (%d failed) uploaded=%d (%d failed)\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Status,
			run.Since,
			run.LibraryVersion,
			run.Retrieved,
			run.Formatted,
			run.FormatFailed,
			run.Uploaded,
			run.UploadFailed,
		)
		if run.Error != "" {
			fmt.Printf("    ❌ %s\n", run.Error)
		}
	}

	return nil
}
