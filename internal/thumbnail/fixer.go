package thumbnail

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/strongclose/media-offload/internal/attachment"
)

// Fixer rebuilds the derivative set for an attachment: stale derivative
// files are removed, fresh ones generated, and the recorded sizes
// replaced.
type Fixer struct {
	store  attachment.Store
	files  *attachment.Files
	gen    Generator
	logger zerolog.Logger
}

func NewFixer(store attachment.Store, files *attachment.Files, gen Generator, logger zerolog.Logger) *Fixer {
	return &Fixer{store: store, files: files, gen: gen, logger: logger}
}

// Fix regenerates derivatives for one attachment and returns how many
// sizes were produced.
func (f *Fixer) Fix(ctx context.Context, att *attachment.Attachment) (int, error) {
	if !att.IsImage() {
		return 0, fmt.Errorf("attachment %d is not an image", att.ID)
	}
	if !f.files.Exists(att.FilePath) {
		return 0, fmt.Errorf("file not found for attachment %d: %s", att.ID, att.FilePath)
	}

	old, err := f.store.GetSizes(att.ID)
	if err != nil {
		return 0, err
	}
	for name, size := range old {
		rel := att.SizePath(size)
		if !f.files.Exists(rel) {
			continue
		}
		if err := f.files.Delete(rel); err != nil {
			f.logger.Warn().Err(err).Str("size", name).Int64("attachmentId", att.ID).Msg("Failed to delete stale derivative")
		}
	}

	sizes, err := f.gen.Generate(ctx, f.files.Abs(att.FilePath))
	if err != nil {
		return 0, fmt.Errorf("failed to regenerate derivatives for attachment %d: %w", att.ID, err)
	}
	if err := f.store.SetSizes(att.ID, sizes); err != nil {
		return 0, err
	}
	return len(sizes), nil
}
