package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/zotero-readwise/internal/audit"
	"github.com/mrlokans/zotero-readwise/internal/config"
	"github.com/mrlokans/zotero-readwise/internal/database"
	"github.com/mrlokans/zotero-readwise/internal/database/runs"
	"github.com/mrlokans/zotero-readwise/internal/formatter"
	"github.com/mrlokans/zotero-readwise/internal/readwise"
	"github.com/mrlokans/zotero-readwise/internal/syncer"
	"github.com/mrlokans/zotero-readwise/internal/zotero"
)

// SyncCommand runs one Zotero-to-Readwise synchronization.
type SyncCommand struct {
	cfg *config.Config

	Since              int
	IncludeAnnotations bool
	IncludeNotes       bool
	FilterColors       string
	FailedDir          string
	DatabasePath       string
	DryRun             bool
}

// NewSyncCommand creates a new SyncCommand with config-derived defaults.
func NewSyncCommand(cfg *config.Config) *SyncCommand {
	return &SyncCommand{cfg: cfg}
}

// ParseFlags parses command line flags
func (cmd *SyncCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)

	fs.IntVar(&cmd.Since, "since", -1, "Library version to sync from (0 = full history, -1 = resume from last recorded run)")
	fs.BoolVar(&cmd.IncludeAnnotations, "annotations", cmd.cfg.Sync.IncludeAnnotations, "Sync PDF annotations")
	fs.BoolVar(&cmd.IncludeNotes, "notes", cmd.cfg.Sync.IncludeNotes, "Sync standalone notes")
	fs.StringVar(&cmd.FilterColors, "filter-colors", strings.Join(cmd.cfg.Sync.FilterColors, ","), "Comma-separated highlight colors to include (empty = all)")
	fs.StringVar(&cmd.FailedDir, "failed-dir", cmd.cfg.Failures.Dir, "Directory for failure logs")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.cfg.Database.Path, "Path to the sync-run history database")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Format items and report counts without uploading")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sync [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Sync Zotero annotations and notes to Readwise as highlights.\n\n")
		fmt.Fprintf(os.Stderr, "This command:\n")
		fmt.Fprintf(os.Stderr, "  1. Retrieves annotations/notes from the Zotero Web API since a cursor\n")
		fmt.Fprintf(os.Stderr, "  2. Resolves document metadata and formats each item\n")
		fmt.Fprintf(os.Stderr, "  3. Uploads the formatted highlights to Readwise in one batch\n\n")
		fmt.Fprintf(os.Stderr, "Credentials come from ZOTERO_LIBRARY_ID, ZOTERO_KEY and READWISE_TOKEN\n")
		fmt.Fprintf(os.Stderr, "(environment variables or a .env file).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s sync\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sync -since 0 -notes\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s sync -filter-colors \"#ffd400,#a28ae5\" -dry-run\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	return nil
}

// Run executes the sync command
func (cmd *SyncCommand) Run() error {
	ctx := context.Background()

	fmt.Println("📚 Zotero → Readwise Sync")
	fmt.Println("=========================")

	if cmd.cfg.Readwise.Token == "" {
		return fmt.Errorf("READWISE_TOKEN is not set")
	}

	zoteroClient, err := zotero.NewClient(
		cmd.cfg.Zotero.LibraryID,
		cmd.cfg.Zotero.APIKey,
		zotero.LibraryType(cmd.cfg.Zotero.LibraryType),
	)
	if err != nil {
		return fmt.Errorf("failed to create Zotero client: %w", err)
	}

	readwiseClient := readwise.NewClient(cmd.cfg.Readwise.Token)
	if err := readwiseClient.ValidateToken(ctx); err != nil {
		return fmt.Errorf("failed to validate Readwise token: %w", err)
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	// Run history is best-effort: a broken local database disables the
	// "-since -1" resume but never blocks a sync.
	var recorder syncer.RunRecorder
	var repo *runs.Repository
	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		log.Printf("WARNING: could not open run-history database: %v", err)
	} else {
		defer func() {
			if err := db.Close(); err != nil {
				log.Printf("Error closing database: %v", err)
			}
		}()
		repo = runs.NewRepository(db.DB)
		recorder = repo
	}

	since := cmd.Since
	if since < 0 {
		since = 0
		if repo != nil {
			version, err := repo.LastLibraryVersion()
			if err != nil {
				log.Printf("WARNING: could not read last library version, syncing full history: %v", err)
			} else {
				since = version
			}
		}
	}

	fmt.Printf("📁 Failure logs: %s\n", cmd.FailedDir)
	if since == 0 {
		fmt.Println("🔄 Syncing full history")
	} else {
		fmt.Printf("🔄 Syncing changes since library version %d\n", since)
	}

	f := formatter.New(zoteroClient, config.SplitColors(cmd.FilterColors))

	s := syncer.New(
		zoteroClient,
		readwiseClient,
		f,
		audit.NewAuditor(cmd.FailedDir),
		recorder,
		syncer.Options{
			IncludeAnnotations: cmd.IncludeAnnotations,
			IncludeNotes:       cmd.IncludeNotes,
			Since:              since,
			DryRun:             cmd.DryRun,
		},
	)

	summary, err := s.Run(ctx, nil)
	if err != nil {
		return err
	}

	fmt.Println("\n✅ Sync complete!")
	fmt.Printf("  📥 Retrieved: %d\n", summary.Retrieved)
	fmt.Printf("  📝 Formatted: %d (%d failed)\n", summary.Formatted, summary.FormatFailed)
	if cmd.DryRun {
		fmt.Println("  ⏭️  Upload skipped (dry run)")
	} else {
		fmt.Printf("  📤 Uploaded: %d (%d failed)\n", summary.Uploaded, summary.UploadFailed)
	}
	if summary.LibraryVersion > 0 {
		fmt.Printf("  🔖 Library version: %d\n", summary.LibraryVersion)
	}

	return nil
}
