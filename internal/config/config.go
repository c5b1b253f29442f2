package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Zotero
		Readwise
		Sync
		Database
		Failures
	}

	Zotero struct {
		LibraryID   string
		APIKey      string
		LibraryType string // "user" or "group"
	}
	Readwise struct {
		Token string
	}
	Sync struct {
		IncludeAnnotations bool
		IncludeNotes       bool
		FilterColors       []string // hex colors; empty = no filtering
	}
	Database struct {
		Path string
	}
	Failures struct {
		Dir string
	}
)

func NewConfig() *Config {
	// A .env in the working directory complements the environment
	// without overriding variables that are already set.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("zotero_library_type", "user")
	v.SetDefault("sync_include_annotations", true)
	v.SetDefault("sync_include_notes", false)
	v.SetDefault("sync_filter_colors", "")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("failed_items_dir", DefaultFailedItemsDir)

	return &Config{
		Zotero: Zotero{
			LibraryID:   v.GetString("ZOTERO_LIBRARY_ID"),
			APIKey:      v.GetString("ZOTERO_KEY"),
			LibraryType: v.GetString("ZOTERO_LIBRARY_TYPE"),
		},
		Readwise: Readwise{
			Token: v.GetString("READWISE_TOKEN"),
		},
		Sync: Sync{
			IncludeAnnotations: v.GetBool("SYNC_INCLUDE_ANNOTATIONS"),
			IncludeNotes:       v.GetBool("SYNC_INCLUDE_NOTES"),
			FilterColors:       SplitColors(v.GetString("SYNC_FILTER_COLORS")),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Failures: Failures{
			Dir: v.GetString("FAILED_ITEMS_DIR"),
		},
	}
}

// SplitColors parses a comma-separated color list, dropping empty
// segments so "" yields no filter at all.
func SplitColors(colors string) []string {
	var out []string
	for _, c := range strings.Split(colors, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
