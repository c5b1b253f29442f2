package readwise

import (
	"errors"
	"fmt"
)

// ErrInvalidToken indicates the provided API token is invalid
var ErrInvalidToken = errors.New("invalid or expired Readwise token")

// ErrContentTooLarge indicates a highlight text at or over the Readwise
// size limit
var ErrContentTooLarge = errors.New("highlight text exceeds the Readwise size limit")

// UploadError reports a rejected bulk highlight upload. Body carries the
// raw response so callers can persist it for diagnosis before failing.
type UploadError struct {
	StatusCode int
	Body       []byte
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("Readwise rejected the highlight upload: HTTP %d", e.StatusCode)
}
