package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/zotero-readwise/internal/cli"
	"github.com/mrlokans/zotero-readwise/internal/config"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	command := "sync"
	args := os.Args[1:]
	if len(os.Args) >= 2 {
		command = os.Args[1]
		args = os.Args[2:]
	}

	switch command {
	case "sync":
		cfg := config.NewConfig()
		cmd := cli.NewSyncCommand(cfg)
		if err := cmd.ParseFlags(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "history":
		cfg := config.NewConfig()
		cmd := cli.NewHistoryCommand(cfg)
		if err := cmd.ParseFlags(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "version":
		fmt.Printf("zotero-readwise %s (%s)\n", Version, Commit)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  sync      Sync Zotero annotations/notes to Readwise (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  history   Show recent sync runs\n")
	fmt.Fprintf(os.Stderr, "  version   Print version information\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
