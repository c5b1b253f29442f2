package formatter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mrlokans/zotero-readwise/internal/entities"
	"github.com/mrlokans/zotero-readwise/internal/zotero"
)

const (
	// creatorsMaxLength caps the author string so oversized creator lists
	// do not blow up the destination's author field.
	creatorsMaxLength = 1024
	etAlSuffix        = " et al."
)

// relationKey is where the Zotero API nests related-item links.
const relationKey = "dc:relation"

// Normalize converts one raw annotation or note record plus its resolved
// document metadata into a canonical item.
func Normalize(record zotero.Record, metadata entities.DocumentMetadata) (entities.Item, error) {
	data := record.Data

	var text, comment string
	switch data.ItemType {
	case zotero.ItemTypeAnnotation:
		switch data.AnnotationType {
		case zotero.AnnotationTypeHighlight:
			text = data.AnnotationText
			comment = data.AnnotationComment
		case zotero.AnnotationTypeNote:
			// A note-annotation keeps its body in the comment field.
			text = data.AnnotationComment
		case zotero.AnnotationTypeImage:
			return entities.Item{}, fmt.Errorf("%w: image annotations cannot be synced", ErrUnsupportedAnnotationType)
		default:
			return entities.Item{}, fmt.Errorf("%w: %q", ErrUnsupportedAnnotationType, data.AnnotationType)
		}
	case zotero.ItemTypeNote:
		text = data.Note
	default:
		return entities.Item{}, fmt.Errorf("%w: %q, only notes and annotations are supported", ErrUnsupportedItemType, data.ItemType)
	}

	if text == "" {
		return entities.Item{}, ErrEmptyContent
	}

	var annotationURL string
	if record.Links.Alternate != nil {
		annotationURL = record.Links.Alternate.Href
	}

	return entities.Item{
		Key:            data.Key,
		Version:        data.Version,
		ItemType:       data.ItemType,
		Text:           text,
		Comment:        comment,
		AnnotatedAt:    data.DateModified,
		AnnotationURL:  annotationURL,
		AttachmentURL:  metadata.AttachmentURL,
		Title:          metadata.Title,
		Tags:           FlattenTags(data.Tags),
		DocumentTags:   metadata.Tags,
		DocumentType:   metadata.DocumentType,
		AnnotationType: data.AnnotationType,
		Creators:       capCreators(metadata.Creators),
		SourceURL:      metadata.SourceURL,
		PageLabel:      data.AnnotationPageLabel,
		Color:          data.AnnotationColor,
		Relations:      data.Relations[relationKey],
	}, nil
}

// FlattenTags converts the API's tag-object list into a flat name list.
func FlattenTags(tags []zotero.Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Tag)
	}
	return names
}

// capCreators truncates an overlong creators string at comma-separated
// name boundaries and marks the cut with " et al.". Strings within the
// cap are returned unchanged. The cap counts characters, not bytes, and
// the hard cut lands on a rune boundary so the result stays valid UTF-8.
func capCreators(creators string) string {
	if utf8.RuneCountInString(creators) <= creatorsMaxLength {
		return creators
	}

	max := creatorsMaxLength - len(etAlSuffix)
	for utf8.RuneCountInString(creators) > max {
		idx := strings.LastIndex(creators, ",")
		if idx < 0 {
			// A single name longer than the cap; hard cut.
			creators = string([]rune(creators)[:max])
			break
		}
		creators = creators[:idx]
	}

	return creators + etAlSuffix
}
