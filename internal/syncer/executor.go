package syncer

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/strongclose/media-offload/internal/attachment"
	"github.com/strongclose/media-offload/internal/thumbnail"
)

// Executor drives the sync of a single attachment: optional derivative
// regeneration, per-file uploads, immediate record writes, and the
// local-delete step when a pass completes without failures.
type Executor struct {
	store       attachment.Store
	files       *attachment.Files
	remote      RemoteStore
	thumbs      thumbnail.Generator
	planner     *Planner
	deleteLocal bool
	logger      zerolog.Logger
}

func NewExecutor(store attachment.Store, files *attachment.Files, remote RemoteStore, thumbs thumbnail.Generator, deleteLocal bool, logger zerolog.Logger) *Executor {
	return &Executor{
		store:       store,
		files:       files,
		remote:      remote,
		thumbs:      thumbs,
		planner:     NewPlanner(store, files),
		deleteLocal: deleteLocal,
		logger:      logger,
	}
}

func (e *Executor) SyncOne(ctx context.Context, att *attachment.Attachment, mode Mode, regenerate bool) Outcome {
	rec, err := LoadRecord(e.store, att.ID)
	if err != nil {
		return failure("failed to load sync record: %v", err)
	}

	primaryExists := e.files.Exists(att.FilePath)

	// A missing primary with nothing remote usually means the file was
	// already migrated out from under us; not an error.
	if !primaryExists && (mode == ModeFull || rec.PrimaryURL == "") {
		return skipped("file not found")
	}
	if mode == ModeFull && rec.PrimaryURL != "" {
		return skipped("already synced")
	}
	if mode == ModeIncremental && !att.IsImage() {
		return skipped("not an image, no sizes to check")
	}

	if regenerate && att.IsImage() && primaryExists && e.thumbs != nil {
		sizes, err := e.thumbs.Generate(ctx, e.files.Abs(att.FilePath))
		if err != nil {
			// Stale derivatives are still usable.
			e.logger.Warn().Err(err).Int64("attachmentId", att.ID).Msg("Failed to regenerate derivatives")
		} else if err := e.store.SetSizes(att.ID, sizes); err != nil {
			return failure("failed to store derivative sizes: %v", err)
		}
	}

	sizes, err := e.store.GetSizes(att.ID)
	if err != nil {
		return failure("failed to load derivative sizes: %v", err)
	}
	if mode == ModeIncremental && len(sizes) == 0 {
		return skipped("no derivative sizes recorded")
	}

	plan := e.planner.PlanFiles(att, sizes, rec, mode)
	if len(plan) == 0 {
		return skipped("all sizes already synced")
	}

	uploaded := 0
	var uploadedFiles []PlannedFile
	var failedSizes []string

	for _, pf := range plan {
		mediaID, err := e.remote.Upload(ctx, e.files.Abs(pf.RelPath), pf.RelPath)
		if err != nil {
			if pf.Name == PrimaryName {
				// A broken primary makes the record not worth touching.
				return failure("primary upload failed: %v", err)
			}
			failedSizes = append(failedSizes, pf.Name)
			e.logger.Warn().Err(err).Str("size", pf.Name).Int64("attachmentId", att.ID).Msg("Derivative upload failed")
			continue
		}

		url := e.remote.PublicURL(ctx, pf.RelPath)
		if err := SaveUpload(e.store, att.ID, pf.Name, url, mediaID); err != nil {
			if pf.Name == PrimaryName {
				return failure("failed to record primary upload: %v", err)
			}
			failedSizes = append(failedSizes, pf.Name)
			e.logger.Error().Err(err).Str("size", pf.Name).Int64("attachmentId", att.ID).Msg("Failed to record derivative upload")
			continue
		}

		uploaded++
		uploadedFiles = append(uploadedFiles, pf)
	}

	if uploaded == 0 {
		return failure("nothing uploaded")
	}

	message := fmt.Sprintf("synced %d file(s)", uploaded)
	if len(failedSizes) > 0 {
		message += fmt.Sprintf(" (failed: %s)", strings.Join(failedSizes, ", "))
	}

	// Local copies survive any partial failure: a partially uploaded
	// attachment keeps its source of truth on disk.
	if e.deleteLocal && len(failedSizes) == 0 {
		for _, pf := range uploadedFiles {
			if err := e.files.Delete(pf.RelPath); err != nil {
				e.logger.Warn().Err(err).Str("path", pf.RelPath).Msg("Failed to delete local file")
			}
		}
		if err := MarkLocalDeleted(e.store, att.ID); err != nil {
			e.logger.Error().Err(err).Int64("attachmentId", att.ID).Msg("Failed to mark local files deleted")
		} else {
			message += " (local files deleted)"
		}
	}

	return Outcome{Kind: OutcomeSuccess, Message: message, Uploaded: uploaded, FailedSizes: failedSizes}
}

// PurgeRemote best-effort deletes every remote copy an attachment has,
// then clears its sync record. Called when the attachment is removed
// from the host library.
func (e *Executor) PurgeRemote(ctx context.Context, att *attachment.Attachment) error {
	rec, err := LoadRecord(e.store, att.ID)
	if err != nil {
		return err
	}

	for _, mediaID := range rec.RemoteIDs() {
		if err := e.remote.Delete(ctx, mediaID); err != nil {
			e.logger.Warn().Err(err).Str("mediaId", mediaID).Int64("attachmentId", att.ID).Msg("Failed to delete remote copy")
		}
	}
	return e.store.DeleteTags(att.ID)
}
