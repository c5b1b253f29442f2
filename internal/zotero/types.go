package zotero

import "encoding/json"

// Item type and annotation sub-type values used by the Zotero Web API.
const (
	ItemTypeAnnotation = "annotation"
	ItemTypeNote       = "note"

	AnnotationTypeHighlight = "highlight"
	AnnotationTypeNote      = "note"
	AnnotationTypeImage     = "image"
)

// Record is one item as returned by the Zotero Web API.
type Record struct {
	Key     string   `json:"key"`
	Version int      `json:"version"`
	Links   Links    `json:"links"`
	Data    ItemData `json:"data"`
}

// ItemData is the payload of a Zotero item record. A single struct covers
// annotations, notes and top-level items; fields that do not apply to a
// given item type are simply empty.
type ItemData struct {
	Key                 string                `json:"key,omitempty"`
	Version             int                   `json:"version,omitempty"`
	ItemType            string                `json:"itemType,omitempty"`
	Title               string                `json:"title,omitempty"`
	ParentItem          string                `json:"parentItem,omitempty"`
	AnnotationType      string                `json:"annotationType,omitempty"`
	AnnotationText      string                `json:"annotationText,omitempty"`
	AnnotationComment   string                `json:"annotationComment,omitempty"`
	AnnotationColor     string                `json:"annotationColor,omitempty"`
	AnnotationPageLabel string                `json:"annotationPageLabel,omitempty"`
	Note                string                `json:"note,omitempty"`
	DateModified        string                `json:"dateModified,omitempty"`
	Tags                []Tag                 `json:"tags,omitempty"`
	Creators            []Creator             `json:"creators,omitempty"`
	Relations           map[string]StringList `json:"relations,omitempty"`
}

// Tag is the single-field tag object the API nests in a tags array.
type Tag struct {
	Tag string `json:"tag"`
}

// Creator is one entry of a top-level item's creators array. Person
// creators carry first/last names; institutional creators carry a
// single name.
type Creator struct {
	CreatorType string `json:"creatorType,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Name        string `json:"name,omitempty"`
}

// Links groups the hypermedia links attached to a record.
type Links struct {
	Alternate  *Link           `json:"alternate,omitempty"`
	Attachment *AttachmentLink `json:"attachment,omitempty"`
}

// Link is a generic hypermedia link.
type Link struct {
	Href string `json:"href,omitempty"`
	Type string `json:"type,omitempty"`
}

// AttachmentLink points at an item's primary attachment.
type AttachmentLink struct {
	Href           string `json:"href,omitempty"`
	Type           string `json:"type,omitempty"`
	AttachmentType string `json:"attachmentType,omitempty"`
}

// StringList tolerates the API returning either a single string or an
// array of strings for the same key; dc:relation does both depending on
// how many related items exist.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*s = many
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*s = StringList{one}
	return nil
}
