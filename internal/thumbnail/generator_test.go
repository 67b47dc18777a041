package thumbnail

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func writeTestImage(t *testing.T, dir string, width, height int) string {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	path := filepath.Join(dir, "photo.jpg")
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save test image: %v", err)
	}
	return path
}

func TestImagingGenerator_Generate_ShouldWriteResizedSiblings(t *testing.T) {
	// given
	dir := t.TempDir()
	src := writeTestImage(t, dir, 400, 300)
	gen := NewImagingGenerator(map[string]Dimensions{
		"small": {Width: 100, Height: 100},
	}, zerolog.Nop())

	// when
	sizes, err := gen.Generate(context.Background(), src)

	// then
	assert.NoError(t, err)
	assert.Len(t, sizes, 1)

	small := sizes["small"]
	assert.LessOrEqual(t, small.Width, 100)
	assert.LessOrEqual(t, small.Height, 100)
	assert.Contains(t, small.File, "photo-")

	out := filepath.Join(dir, small.File)
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected derivative file at %s: %v", out, err)
	}
	resized, err := imaging.Open(out)
	assert.NoError(t, err)
	assert.Equal(t, small.Width, resized.Bounds().Dx())
	assert.Equal(t, small.Height, resized.Bounds().Dy())
}

func TestImagingGenerator_Generate_ShouldSkipSizesLargerThanSource(t *testing.T) {
	// given
	dir := t.TempDir()
	src := writeTestImage(t, dir, 400, 300)
	gen := NewImagingGenerator(map[string]Dimensions{
		"small": {Width: 100, Height: 100},
		"big":   {Width: 2000, Height: 2000},
	}, zerolog.Nop())

	// when
	sizes, err := gen.Generate(context.Background(), src)

	// then
	assert.NoError(t, err)
	assert.Contains(t, sizes, "small")
	assert.NotContains(t, sizes, "big")
}

func TestImagingGenerator_Generate_ShouldPreserveAspectRatio(t *testing.T) {
	// given
	dir := t.TempDir()
	src := writeTestImage(t, dir, 400, 200)
	gen := NewImagingGenerator(map[string]Dimensions{
		"small": {Width: 100, Height: 100},
	}, zerolog.Nop())

	// when
	sizes, err := gen.Generate(context.Background(), src)

	// then
	assert.NoError(t, err)
	small := sizes["small"]
	assert.Equal(t, 100, small.Width)
	assert.Equal(t, 50, small.Height)
}

func TestImagingGenerator_Generate_ShouldFailOnNonImageFile(t *testing.T) {
	// given
	dir := t.TempDir()
	path := filepath.Join(dir, "not-an-image.jpg")
	os.WriteFile(path, []byte("plain text"), 0o644)
	gen := NewImagingGenerator(nil, zerolog.Nop())

	// when
	_, err := gen.Generate(context.Background(), path)

	// then
	assert.Error(t, err)
}

func TestImagingGenerator_Generate_ShouldStopOnCancelledContext(t *testing.T) {
	// given
	dir := t.TempDir()
	src := writeTestImage(t, dir, 400, 300)
	gen := NewImagingGenerator(DefaultSizes(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// when
	_, err := gen.Generate(ctx, src)

	// then
	assert.ErrorIs(t, err, context.Canceled)
}
