package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Well-known diagnostic file names.
const (
	FailedZoteroFile   = "failed_zotero_items.json"
	FailedReadwiseFile = "failed_readwise_items.json"
)

// UploadErrorFile names the log file persisted when the bulk upload is
// rejected with the given status code.
func UploadErrorFile(statusCode int) string {
	return fmt.Sprintf("error_log_%d_failed_post_request_to_readwise.json", statusCode)
}

// Auditor persists diagnostic payloads as JSON files in a single
// directory, keeping console output bounded regardless of batch size.
type Auditor struct {
	Dir string
}

func NewAuditor(dir string) *Auditor {
	return &Auditor{
		Dir: dir,
	}
}

// WriteJSON saves the payload under the given file name, creating the
// directory if needed. It returns the full path of the written file.
func (a *Auditor) WriteJSON(name string, payload any) (string, error) {
	if err := a.ensureDir(); err != nil {
		return "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload to JSON: %w", err)
	}

	path := filepath.Join(a.Dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	return path, nil
}

// SaveJSON saves the payload under a generated UUID4 file name.
func (a *Auditor) SaveJSON(payload any) (string, error) {
	return a.WriteJSON(fmt.Sprintf("%s.json", uuid.New().String()), payload)
}

func (a *Auditor) ensureDir() error {
	if _, err := os.Stat(a.Dir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}
