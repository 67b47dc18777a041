package thumbnail

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"github.com/strongclose/media-offload/internal/attachment"
)

// Dimensions is the bounding box for a named derivative size.
type Dimensions struct {
	Width  int `mapstructure:"width" json:"width"`
	Height int `mapstructure:"height" json:"height"`
}

// Generator produces the derivative variants of an image file and
// reports their filenames and actual dimensions.
type Generator interface {
	Generate(ctx context.Context, absPath string) (map[string]attachment.Size, error)
}

// DefaultSizes mirrors the host library's stock derivative set.
func DefaultSizes() map[string]Dimensions {
	return map[string]Dimensions{
		"thumbnail": {Width: 150, Height: 150},
		"medium":    {Width: 300, Height: 300},
		"large":     {Width: 1024, Height: 1024},
	}
}

type ImagingGenerator struct {
	sizes  map[string]Dimensions
	logger zerolog.Logger
}

func NewImagingGenerator(sizes map[string]Dimensions, logger zerolog.Logger) *ImagingGenerator {
	if len(sizes) == 0 {
		sizes = DefaultSizes()
	}
	return &ImagingGenerator{sizes: sizes, logger: logger}
}

// Generate writes one resized sibling file per configured size, named
// <base>-<W>x<H><ext>. Sizes not smaller than the source are skipped.
func (g *ImagingGenerator) Generate(ctx context.Context, absPath string) (map[string]attachment.Size, error) {
	img, err := imaging.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", absPath, err)
	}

	srcW := img.Bounds().Dx()
	srcH := img.Bounds().Dy()

	names := make([]string, 0, len(g.sizes))
	for name := range g.sizes {
		names = append(names, name)
	}
	sort.Strings(names)

	ext := filepath.Ext(absPath)
	base := strings.TrimSuffix(absPath, ext)

	result := make(map[string]attachment.Size)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dims := g.sizes[name]
		if srcW <= dims.Width && srcH <= dims.Height {
			continue
		}

		resized := imaging.Fit(img, dims.Width, dims.Height, imaging.Lanczos)
		w := resized.Bounds().Dx()
		h := resized.Bounds().Dy()

		outName := fmt.Sprintf("%s-%dx%d%s", filepath.Base(base), w, h, ext)
		outPath := filepath.Join(filepath.Dir(absPath), outName)
		if err := imaging.Save(resized, outPath); err != nil {
			return nil, fmt.Errorf("failed to save %s derivative: %w", name, err)
		}

		result[name] = attachment.Size{File: outName, Width: w, Height: h}
	}
	return result, nil
}
