package readwise

// Category buckets a highlight's source document.
type Category string

const (
	CategoryArticles Category = "articles"
	CategoryBooks    Category = "books"
)

// Highlight is one entry of the bulk highlight-create payload. Every
// optional field is omitted from the JSON body when empty; absent means
// absent, never null or zero.
type Highlight struct {
	Text          string   `json:"text"`
	Title         string   `json:"title,omitempty"`
	Author        string   `json:"author,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	SourceURL     string   `json:"source_url,omitempty"`
	SourceType    string   `json:"source_type,omitempty"`
	Category      Category `json:"category,omitempty"`
	Note          string   `json:"note,omitempty"`
	Location      int      `json:"location,omitempty"`
	LocationType  string   `json:"location_type,omitempty"`
	HighlightedAt string   `json:"highlighted_at,omitempty"`
	HighlightURL  string   `json:"highlight_url,omitempty"`
}
