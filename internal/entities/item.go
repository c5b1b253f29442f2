package entities

// Item is the normalized, service-agnostic form of one Zotero annotation
// or note, combining the raw record with its resolved document metadata.
type Item struct {
	Key            string   `json:"key"`
	Version        int      `json:"version"`
	ItemType       string   `json:"item_type"`
	Text           string   `json:"text"`
	Comment        string   `json:"comment,omitempty"`
	AnnotatedAt    string   `json:"annotated_at"`
	AnnotationURL  string   `json:"annotation_url,omitempty"`
	AttachmentURL  string   `json:"attachment_url,omitempty"`
	Title          string   `json:"title,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	DocumentTags   []string `json:"document_tags,omitempty"`
	DocumentType   string   `json:"document_type,omitempty"`
	AnnotationType string   `json:"annotation_type,omitempty"`
	Creators       string   `json:"creators,omitempty"`
	SourceURL      string   `json:"source_url,omitempty"`
	PageLabel      string   `json:"page_label,omitempty"`
	Color          string   `json:"color,omitempty"`
	Relations      []string `json:"relations,omitempty"`
}

// NonEmptyFields projects the item onto a map holding only its non-zero
// fields, matching how it is written to failure logs.
func (i Item) NonEmptyFields() map[string]any {
	fields := map[string]any{
		"key":     i.Key,
		"text":    i.Text,
		"version": i.Version,
	}

	add := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	add("item_type", i.ItemType)
	add("comment", i.Comment)
	add("annotated_at", i.AnnotatedAt)
	add("annotation_url", i.AnnotationURL)
	add("attachment_url", i.AttachmentURL)
	add("title", i.Title)
	add("document_type", i.DocumentType)
	add("annotation_type", i.AnnotationType)
	add("creators", i.Creators)
	add("source_url", i.SourceURL)
	add("page_label", i.PageLabel)
	add("color", i.Color)

	if len(i.Tags) > 0 {
		fields["tags"] = i.Tags
	}
	if len(i.DocumentTags) > 0 {
		fields["document_tags"] = i.DocumentTags
	}
	if len(i.Relations) > 0 {
		fields["relations"] = i.Relations
	}

	return fields
}

// DocumentMetadata holds the resolved attributes of the top-level document
// (book, article, ...) that an annotation ultimately belongs to.
type DocumentMetadata struct {
	Title         string
	Tags          []string
	DocumentType  string
	SourceURL     string
	Creators      string
	AttachmentURL string
}
