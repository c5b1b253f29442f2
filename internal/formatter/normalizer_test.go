package formatter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/zotero-readwise/internal/entities"
	"github.com/mrlokans/zotero-readwise/internal/zotero"
)

func testMetadata() entities.DocumentMetadata {
	return entities.DocumentMetadata{
		Title:         "On Testing",
		Tags:          []string{"methodology"},
		DocumentType:  "journalArticle",
		SourceURL:     "https://www.zotero.org/users/123/items/DOC1",
		Creators:      "Ada Lovelace",
		AttachmentURL: "https://api.zotero.org/users/123/items/ATTACH1",
	}
}

func TestNormalize_Highlight(t *testing.T) {
	record := zotero.Record{
		Key: "ANNOT1",
		Data: zotero.ItemData{
			Key:                 "ANNOT1",
			Version:             101,
			ItemType:            zotero.ItemTypeAnnotation,
			AnnotationType:      zotero.AnnotationTypeHighlight,
			AnnotationText:      "the highlighted passage",
			AnnotationComment:   "my thoughts",
			AnnotationColor:     "#ffd400",
			AnnotationPageLabel: "12",
			DateModified:        "2026-08-01T10:00:00Z",
			Tags:                []zotero.Tag{{Tag: "to-review"}, {Tag: "philosophy"}},
			Relations: map[string]zotero.StringList{
				"dc:relation": {"http://zotero.org/users/123/items/ABC"},
			},
		},
		Links: zotero.Links{
			Alternate: &zotero.Link{Href: "https://www.zotero.org/users/123/items/ANNOT1"},
		},
	}

	item, err := Normalize(record, testMetadata())
	require.NoError(t, err)

	assert.Equal(t, "ANNOT1", item.Key)
	assert.Equal(t, 101, item.Version)
	assert.Equal(t, "the highlighted passage", item.Text)
	assert.Equal(t, "my thoughts", item.Comment)
	assert.Equal(t, "2026-08-01T10:00:00Z", item.AnnotatedAt)
	assert.Equal(t, "https://www.zotero.org/users/123/items/ANNOT1", item.AnnotationURL)
	assert.Equal(t, []string{"to-review", "philosophy"}, item.Tags)
	assert.Equal(t, []string{"methodology"}, item.DocumentTags)
	assert.Equal(t, "journalArticle", item.DocumentType)
	assert.Equal(t, "Ada Lovelace", item.Creators)
	assert.Equal(t, "12", item.PageLabel)
	assert.Equal(t, "#ffd400", item.Color)
	assert.Equal(t, []string{"http://zotero.org/users/123/items/ABC"}, item.Relations)
}

func TestNormalize_NoteAnnotation(t *testing.T) {
	record := zotero.Record{
		Data: zotero.ItemData{
			ItemType:          zotero.ItemTypeAnnotation,
			AnnotationType:    zotero.AnnotationTypeNote,
			AnnotationComment: "a standalone thought",
		},
	}

	item, err := Normalize(record, testMetadata())
	require.NoError(t, err)

	assert.Equal(t, "a standalone thought", item.Text)
	assert.Empty(t, item.Comment)
}

func TestNormalize_PlainNote(t *testing.T) {
	record := zotero.Record{
		Data: zotero.ItemData{
			ItemType: zotero.ItemTypeNote,
			Note:     "<p>a note body</p>",
		},
	}

	item, err := Normalize(record, testMetadata())
	require.NoError(t, err)

	assert.Equal(t, "<p>a note body</p>", item.Text)
	assert.Empty(t, item.Comment)
}

func TestNormalize_Failures(t *testing.T) {
	tests := []struct {
		name    string
		data    zotero.ItemData
		wantErr error
	}{
		{
			name:    "image annotation",
			data:    zotero.ItemData{ItemType: zotero.ItemTypeAnnotation, AnnotationType: zotero.AnnotationTypeImage},
			wantErr: ErrUnsupportedAnnotationType,
		},
		{
			name:    "unknown annotation type",
			data:    zotero.ItemData{ItemType: zotero.ItemTypeAnnotation, AnnotationType: "ink"},
			wantErr: ErrUnsupportedAnnotationType,
		},
		{
			name:    "unsupported item type",
			data:    zotero.ItemData{ItemType: "attachment"},
			wantErr: ErrUnsupportedItemType,
		},
		{
			name:    "highlight without text",
			data:    zotero.ItemData{ItemType: zotero.ItemTypeAnnotation, AnnotationType: zotero.AnnotationTypeHighlight},
			wantErr: ErrEmptyContent,
		},
		{
			name:    "note without body",
			data:    zotero.ItemData{ItemType: zotero.ItemTypeNote},
			wantErr: ErrEmptyContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(zotero.Record{Data: tt.data}, testMetadata())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNormalize_MissingRelationsAreAbsent(t *testing.T) {
	record := zotero.Record{
		Data: zotero.ItemData{
			ItemType: zotero.ItemTypeNote,
			Note:     "body",
		},
	}

	item, err := Normalize(record, testMetadata())
	require.NoError(t, err)
	assert.Nil(t, item.Relations)
}

func TestCapCreators(t *testing.T) {
	t.Run("short string unchanged", func(t *testing.T) {
		assert.Equal(t, "Ada Lovelace", capCreators("Ada Lovelace"))
	})

	t.Run("exactly 1024 characters unchanged", func(t *testing.T) {
		creators := strings.Repeat("a", 1000) + ", " + strings.Repeat("b", 22)
		require.Len(t, creators, 1024)

		assert.Equal(t, creators, capCreators(creators))
	})

	t.Run("1025 characters truncated at a name boundary", func(t *testing.T) {
		creators := strings.Repeat("a", 1000) + ", " + strings.Repeat("b", 23)
		require.Len(t, creators, 1025)

		capped := capCreators(creators)
		assert.LessOrEqual(t, len(capped), 1024)
		assert.True(t, strings.HasSuffix(capped, " et al."))
		assert.Equal(t, strings.Repeat("a", 1000)+" et al.", capped)
	})

	t.Run("single overlong name is hard cut", func(t *testing.T) {
		creators := strings.Repeat("a", 2000)

		capped := capCreators(creators)
		assert.LessOrEqual(t, len(capped), 1024)
		assert.True(t, strings.HasSuffix(capped, " et al."))
	})

	t.Run("cap counts characters not bytes", func(t *testing.T) {
		creators := strings.Repeat("é", 600)

		assert.Equal(t, creators, capCreators(creators), "600 accented characters are within the cap")
	})

	t.Run("multi-byte truncation happens at a name boundary", func(t *testing.T) {
		creators := strings.Repeat("é", 1000) + ", " + strings.Repeat("ö", 23)
		require.Equal(t, 1025, utf8.RuneCountInString(creators))

		capped := capCreators(creators)
		assert.True(t, utf8.ValidString(capped))
		assert.Equal(t, strings.Repeat("é", 1000)+" et al.", capped)
	})

	t.Run("multi-byte hard cut stays valid utf-8", func(t *testing.T) {
		creators := strings.Repeat("é", 2000)

		capped := capCreators(creators)
		assert.True(t, utf8.ValidString(capped))
		assert.LessOrEqual(t, utf8.RuneCountInString(capped), 1024)
		assert.True(t, strings.HasSuffix(capped, " et al."))
	})
}

func TestFlattenTags(t *testing.T) {
	assert.Nil(t, FlattenTags(nil))
	assert.Equal(t, []string{"one", "two"}, FlattenTags([]zotero.Tag{{Tag: "one"}, {Tag: "two"}}))
}
