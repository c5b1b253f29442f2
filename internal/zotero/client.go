package zotero

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api.zotero.org"
	defaultTimeout = 30 * time.Second

	// pageLimit is the maximum page size the Zotero API allows.
	pageLimit = 100
)

// LibraryType selects between a personal and a shared group library.
type LibraryType string

const (
	LibraryTypeUser  LibraryType = "user"
	LibraryTypeGroup LibraryType = "group"
)

// Client interfaces with the Zotero Web API for a single library.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	prefix     string

	// libraryVersion is the Last-Modified-Version reported by the most
	// recent API response. It is the cursor value for incremental syncs.
	libraryVersion int
}

// NewClient creates a Zotero API client for the given library.
func NewClient(libraryID, apiKey string, libraryType LibraryType) (*Client, error) {
	if libraryID == "" {
		return nil, fmt.Errorf("zotero library ID is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("zotero API key is required")
	}

	var prefix string
	switch libraryType {
	case LibraryTypeUser:
		prefix = "/users/" + libraryID
	case LibraryTypeGroup:
		prefix = "/groups/" + libraryID
	default:
		return nil, fmt.Errorf("library type must be %q or %q, got %q", LibraryTypeUser, LibraryTypeGroup, libraryType)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		prefix:  prefix,
	}, nil
}

// Query describes one items listing: an item type filter plus the library
// version to fetch changes since. Drain it with Everything.
type Query struct {
	ItemType string
	Since    int
}

// Item fetches a single item record by key.
func (c *Client) Item(ctx context.Context, key string) (*Record, error) {
	if key == "" {
		return nil, fmt.Errorf("item key is required")
	}

	var record Record
	if err := c.get(ctx, c.prefix+"/items/"+url.PathEscape(key), nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Items builds a query for all items of the given type modified since the
// given library version. Since 0 requests full history.
func (c *Client) Items(itemType string, since int) *Query {
	return &Query{ItemType: itemType, Since: since}
}

// Everything drains a query's pagination and returns all matching records
// in API order.
func (c *Client) Everything(ctx context.Context, query *Query) ([]Record, error) {
	var all []Record

	for start := 0; ; start += pageLimit {
		params := url.Values{}
		params.Set("itemType", query.ItemType)
		params.Set("since", strconv.Itoa(query.Since))
		params.Set("limit", strconv.Itoa(pageLimit))
		params.Set("start", strconv.Itoa(start))

		var page []Record
		if err := c.get(ctx, c.prefix+"/items", params, &page); err != nil {
			return nil, err
		}

		all = append(all, page...)
		if len(page) < pageLimit {
			break
		}
	}

	return all, nil
}

// LibraryVersion returns the library version reported by the most recent
// API response, or 0 if no request has been made yet. Passing it as the
// next run's since cursor yields an incremental sync.
func (c *Client) LibraryVersion() int {
	return c.libraryVersion
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Zotero-API-Version", "3")
	req.Header.Set("Zotero-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if v := resp.Header.Get("Last-Modified-Version"); v != "" {
		if version, err := strconv.Atoi(v); err == nil {
			c.libraryVersion = version
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrInvalidKey
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode >= 500:
		return &ServerError{StatusCode: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
