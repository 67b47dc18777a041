package thumbnail

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/strongclose/media-offload/internal/attachment"
	"github.com/stretchr/testify/assert"
)

func TestFixer_Fix_ShouldReplaceStaleDerivatives(t *testing.T) {
	// given
	root := t.TempDir()
	files := attachment.NewFiles(root)
	store := attachment.NewMemoryStore()
	fixer := NewFixer(store, files, NewImagingGenerator(map[string]Dimensions{
		"small": {Width: 100, Height: 100},
	}, zerolog.Nop()), zerolog.Nop())

	att := &attachment.Attachment{ID: 1, FilePath: "2026/01/photo.jpg", MimeType: "image/jpeg"}
	store.Create(att)
	os.MkdirAll(filepath.Join(root, "2026/01"), 0o755)
	writeTestImage(t, filepath.Join(root, "2026/01"), 400, 300)

	// a stale derivative left over from an earlier size configuration
	stale := "photo-999x999.jpg"
	os.WriteFile(filepath.Join(root, "2026/01", stale), []byte("stale"), 0o644)
	store.SetSizes(1, map[string]attachment.Size{"old": {File: stale, Width: 999, Height: 999}})

	// when
	generated, err := fixer.Fix(context.Background(), att)

	// then
	assert.NoError(t, err)
	assert.Equal(t, 1, generated)
	assert.False(t, files.Exists("2026/01/"+stale))

	sizes, _ := store.GetSizes(1)
	assert.Contains(t, sizes, "small")
	assert.NotContains(t, sizes, "old")
	assert.True(t, files.Exists("2026/01/"+sizes["small"].File))
}

func TestFixer_Fix_ShouldRejectNonImage(t *testing.T) {
	// given
	store := attachment.NewMemoryStore()
	files := attachment.NewFiles(t.TempDir())
	fixer := NewFixer(store, files, NewImagingGenerator(nil, zerolog.Nop()), zerolog.Nop())

	att := &attachment.Attachment{ID: 1, FilePath: "doc.pdf", MimeType: "application/pdf"}

	// when
	_, err := fixer.Fix(context.Background(), att)

	// then
	assert.Error(t, err)
}

func TestFixer_Fix_ShouldRejectMissingFile(t *testing.T) {
	// given
	store := attachment.NewMemoryStore()
	files := attachment.NewFiles(t.TempDir())
	fixer := NewFixer(store, files, NewImagingGenerator(nil, zerolog.Nop()), zerolog.Nop())

	att := &attachment.Attachment{ID: 1, FilePath: "gone.jpg", MimeType: "image/jpeg"}

	// when
	_, err := fixer.Fix(context.Background(), att)

	// then
	assert.Error(t, err)
}
