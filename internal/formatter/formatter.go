package formatter

import (
	"context"
	"log"
	"slices"

	"github.com/mrlokans/zotero-readwise/internal/entities"
	"github.com/mrlokans/zotero-readwise/internal/zotero"
)

// Formatter turns a batch of raw Zotero records into canonical items,
// isolating per-item failures so one malformed record never aborts the
// whole batch.
type Formatter struct {
	resolver     *Resolver
	filterColors []string
}

// New creates a formatter. When filterColors is non-empty, only
// annotations whose color is in the set are formatted; everything else is
// skipped silently.
func New(fetcher ItemFetcher, filterColors []string) *Formatter {
	return &Formatter{
		resolver:     NewResolver(fetcher),
		filterColors: filterColors,
	}
}

// FailureRecord retains a record that could not be formatted, together
// with the reason it failed.
type FailureRecord struct {
	Record zotero.Record `json:"record"`
	Reason string        `json:"reason"`
}

// FormatAll formats records in input order. Filtered and failed records
// are omitted from the output; failures are returned alongside it.
func (f *Formatter) FormatAll(ctx context.Context, records []zotero.Record) ([]entities.Item, []FailureRecord) {
	var items []entities.Item
	var failures []FailureRecord

	for _, record := range records {
		if len(f.filterColors) > 0 && !slices.Contains(f.filterColors, record.Data.AnnotationColor) {
			continue
		}

		item, err := f.formatOne(ctx, record)
		if err != nil {
			log.Printf("ZOTERO: failed to format item %s: %v", record.Key, err)
			failures = append(failures, FailureRecord{Record: record, Reason: err.Error()})
			continue
		}

		items = append(items, item)
	}

	return items, failures
}

func (f *Formatter) formatOne(ctx context.Context, record zotero.Record) (entities.Item, error) {
	metadata, err := f.resolver.Resolve(ctx, record)
	if err != nil {
		return entities.Item{}, err
	}
	return Normalize(record, metadata)
}
