package readwise

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"

	"github.com/mrlokans/zotero-readwise/internal/entities"
)

// HighlightMaxLength is the longest highlight text Readwise accepts.
const HighlightMaxLength = 8191

// locationTypePage marks a location as a page number.
const locationTypePage = "page"

// MapItem converts one canonical Zotero item into a Readwise highlight.
// Items whose text is at or over the size limit are rejected with
// ErrContentTooLarge before any mapping happens.
func MapItem(item entities.Item) (Highlight, error) {
	// The limit counts characters, not bytes, so multi-byte text is not
	// rejected early.
	if n := utf8.RuneCountInString(item.Text); n >= HighlightMaxLength {
		return Highlight{}, fmt.Errorf("%w: %d characters, limit is %d", ErrContentTooLarge, n, HighlightMaxLength)
	}

	// A non-numeric page label ("ii", "A-3", ...) carries no usable
	// location; zero would pin the highlight to the top of the document,
	// so it stays absent instead.
	var location int
	var locationType string
	if n, err := strconv.Atoi(item.PageLabel); err == nil && n > 0 {
		location = n
		locationType = locationTypePage
	}

	category := CategoryArticles
	if item.DocumentType == "book" {
		category = CategoryBooks
	}

	highlightURL := item.AnnotationURL
	if item.AttachmentURL != "" {
		highlightURL = fmt.Sprintf("zotero://open-pdf/library/items/%s?page=%d&annotation=%s",
			trailingID(item.AttachmentURL), location, trailingID(item.AnnotationURL))
	}

	return Highlight{
		Text:          item.Text,
		Title:         item.Title,
		Author:        item.Creators,
		SourceURL:     item.SourceURL,
		Category:      category,
		Note:          formatNote(item.Tags, item.Comment),
		Location:      location,
		LocationType:  locationType,
		HighlightedAt: item.AnnotatedAt,
		HighlightURL:  highlightURL,
	}, nil
}

// formatNote renders annotation tags as space-joined ".tag" tokens with
// the comment on its own line below. Empty tags and an empty comment
// yield an empty note, which is then omitted from the payload entirely.
func formatNote(tags []string, comment string) string {
	tokens := make([]string, 0, len(tags))
	for _, tag := range tags {
		tokens = append(tokens, "."+slug.Make(tag))
	}

	note := strings.Join(tokens, " ")
	if comment != "" {
		if note != "" {
			note += "\n"
		}
		note += comment
	}
	return note
}

// trailingID extracts the item key from the final segment of an API URL.
func trailingID(url string) string {
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		return url[idx+1:]
	}
	return url
}
