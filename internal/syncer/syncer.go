package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/mrlokans/zotero-readwise/internal/audit"
	"github.com/mrlokans/zotero-readwise/internal/entities"
	"github.com/mrlokans/zotero-readwise/internal/formatter"
	"github.com/mrlokans/zotero-readwise/internal/readwise"
	"github.com/mrlokans/zotero-readwise/internal/zotero"
)

// SourceClient is the slice of the Zotero client the syncer uses.
type SourceClient interface {
	Items(itemType string, since int) *zotero.Query
	Everything(ctx context.Context, query *zotero.Query) ([]zotero.Record, error)
	LibraryVersion() int
}

// DestinationClient is the slice of the Readwise client the syncer uses.
type DestinationClient interface {
	Push(ctx context.Context, items []entities.Item) (readwise.PushResult, error)
}

// Sink persists diagnostic payloads (failure lists, error responses).
type Sink interface {
	WriteJSON(name string, payload any) (string, error)
}

// RunRecorder persists per-run history.
type RunRecorder interface {
	Start(since int) (*entities.SyncRun, error)
	Complete(run *entities.SyncRun, succeeded bool, errorMsg string) error
}

// Options configures one sync run.
type Options struct {
	IncludeAnnotations bool
	IncludeNotes       bool
	// Since is the library version cursor; 0 requests full history.
	Since int
	// DryRun formats and reports without uploading anything.
	DryRun bool
}

// Syncer coordinates one end-to-end run: retrieve from Zotero, format,
// persist failures, upload to Readwise, record the run.
type Syncer struct {
	source      SourceClient
	destination DestinationClient
	formatter   *formatter.Formatter
	sink        Sink
	recorder    RunRecorder
	opts        Options
}

// New creates a syncer. The recorder may be nil, in which case no run
// history is kept.
func New(source SourceClient, destination DestinationClient, f *formatter.Formatter, sink Sink, recorder RunRecorder, opts Options) *Syncer {
	return &Syncer{
		source:      source,
		destination: destination,
		formatter:   f,
		sink:        sink,
		recorder:    recorder,
		opts:        opts,
	}
}

// Summary reports the outcome of one run.
type Summary struct {
	Retrieved      int
	Formatted      int
	FormatFailed   int
	Uploaded       int
	UploadFailed   int
	LibraryVersion int
}

// Run performs one synchronization. When prefetched is nil the configured
// item types are retrieved from Zotero first. An empty or fully
// filtered/failed batch is a normal outcome and makes no upload call; a
// rejected bulk upload fails the run after its response body has been
// persisted.
func (s *Syncer) Run(ctx context.Context, prefetched []zotero.Record) (Summary, error) {
	var summary Summary

	run := s.startRun()

	records := prefetched
	if records == nil {
		retrieved, err := s.retrieve(ctx)
		if err != nil {
			s.completeRun(run, summary, err)
			return summary, err
		}
		records = retrieved
	}
	summary.Retrieved = len(records)

	log.Printf("ZOTERO: formatting %d annotations/notes...", len(records))
	items, failures := s.formatter.FormatAll(ctx, records)
	summary.Formatted = len(items)
	summary.FormatFailed = len(failures)
	summary.LibraryVersion = s.source.LibraryVersion()

	if len(failures) > 0 {
		log.Printf("ZOTERO: %d out of %d annotations/notes failed to format", len(failures), len(records))
		if path, err := s.sink.WriteJSON(audit.FailedZoteroFile, failures); err != nil {
			log.Printf("WARNING: could not persist failed Zotero items: %v", err)
		} else {
			log.Printf("ZOTERO: failed item details saved to %s", path)
		}
	}

	if len(items) == 0 {
		log.Printf("No new items to upload.")
		s.completeRun(run, summary, nil)
		return summary, nil
	}

	if s.opts.DryRun {
		log.Printf("DRY RUN: would upload %d highlights to Readwise", len(items))
		s.completeRun(run, summary, nil)
		return summary, nil
	}

	log.Printf("READWISE: pushing %d highlights...", len(items))
	result, pushErr := s.destination.Push(ctx, items)
	summary.Uploaded = result.Uploaded
	summary.UploadFailed = len(result.Failed)

	if len(result.Failed) > 0 {
		log.Printf("READWISE: %d highlights failed to format for upload", len(result.Failed))
		if path, err := s.sink.WriteJSON(audit.FailedReadwiseFile, result.Failed); err != nil {
			log.Printf("WARNING: could not persist failed Readwise items: %v", err)
		} else {
			log.Printf("READWISE: failed item details saved to %s", path)
		}
	}

	if pushErr != nil {
		var uploadErr *readwise.UploadError
		if errors.As(pushErr, &uploadErr) {
			s.persistUploadError(uploadErr)
		}
		s.completeRun(run, summary, pushErr)
		return summary, fmt.Errorf("uploading highlights to Readwise: %w", pushErr)
	}

	log.Printf("READWISE: %d highlights uploaded successfully", result.Uploaded)
	s.completeRun(run, summary, nil)
	return summary, nil
}

func (s *Syncer) retrieve(ctx context.Context) ([]zotero.Record, error) {
	var records []zotero.Record

	fetch := func(itemType string) error {
		if s.opts.Since == 0 {
			log.Printf("ZOTERO: retrieving ALL %ss from the library", itemType)
		} else {
			log.Printf("ZOTERO: retrieving %ss modified since version %d", itemType, s.opts.Since)
		}

		batch, err := s.source.Everything(ctx, s.source.Items(itemType, s.opts.Since))
		if err != nil {
			return fmt.Errorf("retrieving %ss: %w", itemType, err)
		}
		records = append(records, batch...)
		return nil
	}

	if s.opts.IncludeAnnotations {
		if err := fetch(zotero.ItemTypeAnnotation); err != nil {
			return nil, err
		}
	}
	if s.opts.IncludeNotes {
		if err := fetch(zotero.ItemTypeNote); err != nil {
			return nil, err
		}
	}

	log.Printf("ZOTERO: %d items retrieved", len(records))
	return records, nil
}

// persistUploadError writes the rejected upload's response body before
// the error propagates and fails the run.
func (s *Syncer) persistUploadError(uploadErr *readwise.UploadError) {
	var payload any
	if err := json.Unmarshal(uploadErr.Body, &payload); err != nil {
		payload = string(uploadErr.Body)
	}

	if path, err := s.sink.WriteJSON(audit.UploadErrorFile(uploadErr.StatusCode), payload); err != nil {
		log.Printf("WARNING: could not persist upload error response: %v", err)
	} else {
		log.Printf("READWISE: upload error response saved to %s", path)
	}
}

func (s *Syncer) startRun() *entities.SyncRun {
	if s.recorder == nil {
		return nil
	}
	run, err := s.recorder.Start(s.opts.Since)
	if err != nil {
		log.Printf("WARNING: could not record sync run start: %v", err)
		return nil
	}
	return run
}

func (s *Syncer) completeRun(run *entities.SyncRun, summary Summary, runErr error) {
	if s.recorder == nil || run == nil {
		return
	}

	run.Retrieved = summary.Retrieved
	run.Formatted = summary.Formatted
	run.FormatFailed = summary.FormatFailed
	run.Uploaded = summary.Uploaded
	run.UploadFailed = summary.UploadFailed
	run.LibraryVersion = summary.LibraryVersion

	errorMsg := ""
	if runErr != nil {
		errorMsg = runErr.Error()
	}
	if err := s.recorder.Complete(run, runErr == nil, errorMsg); err != nil {
		log.Printf("WARNING: could not record sync run completion: %v", err)
	}
}
