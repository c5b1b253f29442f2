package formatter

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrlokans/zotero-readwise/internal/entities"
	"github.com/mrlokans/zotero-readwise/internal/zotero"
)

// ItemFetcher fetches a single Zotero record by key.
type ItemFetcher interface {
	Item(ctx context.Context, key string) (*zotero.Record, error)
}

// Resolver recovers the document-level metadata an annotation belongs to
// by walking its parent/top-item chain.
//
// Both caches are scoped to one resolver instance, i.e. one sync run, and
// are never invalidated: a run is assumed not to observe documents being
// edited while it is in progress.
type Resolver struct {
	fetcher ItemFetcher

	// metadata of already-resolved documents, keyed by top-level item key
	cache map[string]entities.DocumentMetadata
	// immediate parent key -> top-level item key, collapsing the extra
	// hop when an annotation's parent is an attachment
	parentMapping map[string]string
}

// NewResolver creates a resolver backed by the given fetcher.
func NewResolver(fetcher ItemFetcher) *Resolver {
	return &Resolver{
		fetcher:       fetcher,
		cache:         make(map[string]entities.DocumentMetadata),
		parentMapping: make(map[string]string),
	}
}

// Resolve returns the document metadata for the given annotation or note,
// fetching the parent and top-level items at most once per document.
func (r *Resolver) Resolve(ctx context.Context, record zotero.Record) (entities.DocumentMetadata, error) {
	parentKey := record.Data.ParentItem
	if parentKey == "" {
		return entities.DocumentMetadata{}, fmt.Errorf("%w: item %s has no parent item", ErrMetadataLookup, record.Data.Key)
	}

	var top *zotero.Record
	topKey, mapped := r.parentMapping[parentKey]
	if mapped {
		if metadata, ok := r.cache[topKey]; ok {
			return metadata, nil
		}
		fetched, err := r.fetcher.Item(ctx, topKey)
		if err != nil {
			return entities.DocumentMetadata{}, fmt.Errorf("fetching top-level item %s: %w", topKey, err)
		}
		top = fetched
	} else {
		parent, err := r.fetcher.Item(ctx, parentKey)
		if err != nil {
			return entities.DocumentMetadata{}, fmt.Errorf("fetching parent item %s: %w", parentKey, err)
		}

		if parent.Data.ParentItem != "" {
			// The parent is an attachment; its own parent is the document.
			topKey = parent.Data.ParentItem
			r.parentMapping[parentKey] = topKey

			if metadata, ok := r.cache[topKey]; ok {
				return metadata, nil
			}

			fetched, err := r.fetcher.Item(ctx, topKey)
			if err != nil {
				return entities.DocumentMetadata{}, fmt.Errorf("fetching top-level item %s: %w", topKey, err)
			}
			top = fetched
		} else {
			topKey = parentKey
			r.parentMapping[parentKey] = topKey
			top = parent
		}
	}

	metadata, err := documentMetadata(top)
	if err != nil {
		return entities.DocumentMetadata{}, err
	}

	r.cache[topKey] = metadata
	return metadata, nil
}

func documentMetadata(top *zotero.Record) (entities.DocumentMetadata, error) {
	if top.Links.Alternate == nil || top.Links.Alternate.Href == "" {
		return entities.DocumentMetadata{}, fmt.Errorf("%w: top-level item %s has no alternate link", ErrMetadataLookup, top.Data.Key)
	}
	if top.Data.Title == "" {
		return entities.DocumentMetadata{}, fmt.Errorf("%w: top-level item %s has no title", ErrMetadataLookup, top.Data.Key)
	}

	metadata := entities.DocumentMetadata{
		Title:        top.Data.Title,
		Tags:         FlattenTags(top.Data.Tags),
		DocumentType: top.Data.ItemType,
		SourceURL:    top.Links.Alternate.Href,
		Creators:     joinCreators(top.Data.Creators),
	}

	if att := top.Links.Attachment; att != nil && att.AttachmentType == "application/pdf" {
		metadata.AttachmentURL = att.Href
	}

	return metadata, nil
}

// joinCreators renders creators as "First Last, First Last, ...".
// Institutional creators fall back to their single name field.
func joinCreators(creators []zotero.Creator) string {
	names := make([]string, 0, len(creators))
	for _, c := range creators {
		name := strings.TrimSpace(c.FirstName + " " + c.LastName)
		if name == "" {
			name = c.Name
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
