package readwise

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/mrlokans/zotero-readwise/internal/entities"
)

const (
	highlightsAPIURL = "https://readwise.io/api/v2/highlights/"
	authAPIURL       = "https://readwise.io/api/v2/auth/"

	defaultTimeout = 30 * time.Second
)

// Client interfaces with the Readwise highlight-create API
type Client struct {
	httpClient    *http.Client
	token         string
	highlightsURL string
	authURL       string
}

// NewClient creates a new Readwise API client
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		token:         token,
		highlightsURL: highlightsAPIURL,
		authURL:       authAPIURL,
	}
}

// ValidateToken checks if the configured token is valid by calling the
// auth endpoint
func (c *Client) ValidateToken(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.authURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrInvalidToken
	}
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// CreateHighlights submits highlights as one bulk create request. The
// batch is treated as atomic: any non-2xx status rejects the whole batch,
// returned as *UploadError carrying the raw response body.
func (c *Client) CreateHighlights(ctx context.Context, highlights []Highlight) error {
	payload, err := json.Marshal(map[string][]Highlight{"highlights": highlights})
	if err != nil {
		return fmt.Errorf("failed to marshal highlights: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.highlightsURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return &UploadError{StatusCode: resp.StatusCode, Body: body}
	}

	return nil
}

// PushResult reports the outcome of one upload batch.
type PushResult struct {
	// Uploaded is the number of highlights accepted by the bulk call.
	Uploaded int
	// Failed holds the non-empty-field projections of items that could
	// not be mapped to highlights.
	Failed []map[string]any
}

// Push maps canonical items to highlights, isolating per-item mapping
// failures, and submits the remainder in a single bulk call. A rejected
// bulk call fails the whole batch.
func (c *Client) Push(ctx context.Context, items []entities.Item) (PushResult, error) {
	var result PushResult

	highlights := make([]Highlight, 0, len(items))
	for _, item := range items {
		highlight, err := MapItem(item)
		if err != nil {
			log.Printf("READWISE: skipping item %s (version %d) from %q: %v", item.Key, item.Version, item.Title, err)
			result.Failed = append(result.Failed, item.NonEmptyFields())
			continue
		}
		highlights = append(highlights, highlight)
	}

	if len(highlights) == 0 {
		return result, nil
	}

	if err := c.CreateHighlights(ctx, highlights); err != nil {
		return result, err
	}

	result.Uploaded = len(highlights)
	return result, nil
}
