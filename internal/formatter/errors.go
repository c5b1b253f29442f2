package formatter

import "errors"

// The closed set of formatting error kinds. Every failed item is recorded
// against one of these so each failure path stays explicit and testable.

// ErrUnsupportedAnnotationType indicates an annotation sub-type that
// cannot be synced (images, or anything unrecognized)
var ErrUnsupportedAnnotationType = errors.New("unsupported annotation type")

// ErrUnsupportedItemType indicates an item that is neither an annotation
// nor a note
var ErrUnsupportedItemType = errors.New("unsupported item type")

// ErrEmptyContent indicates an item with no extractable text
var ErrEmptyContent = errors.New("no annotation or note text found")

// ErrMetadataLookup indicates the parent/top-item walk hit a malformed or
// incomplete record
var ErrMetadataLookup = errors.New("document metadata lookup failed")
