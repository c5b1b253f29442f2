package zotero

import (
	"errors"
	"fmt"
)

// ErrInvalidKey indicates the provided API key is invalid or lacks access
// to the requested library
var ErrInvalidKey = errors.New("invalid or unauthorized Zotero API key")

// ErrNotFound indicates the requested item does not exist in the library
var ErrNotFound = errors.New("zotero item not found")

// ErrRateLimited indicates the API rate limit was exceeded
var ErrRateLimited = errors.New("zotero API rate limit exceeded")

// ServerError represents a 5xx error from the Zotero API
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Zotero server error: HTTP %d", e.StatusCode)
}
