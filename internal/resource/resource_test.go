package resource

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"render/internal/override"
	"render/internal/raster/memraster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	writeSquarePNG(t, path, 4)
}

func writeSquarePNG(t *testing.T, path string, size int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestResolve_RelativePathAgainstBaseDir(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "logo.png"))

	p := New(dir, override.Document{ImageLayers: map[string]override.ResolvedImageOverride{}}, memraster.FontManager{}, 0, 0)
	defer p.Close()

	img, err := p.Resolve(context.Background(), "asset_0", "logo.png")
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestResolve_OverrideTakesPrecedenceOverOriginalFileName(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "override.png"))

	ov := override.Document{ImageLayers: map[string]override.ResolvedImageOverride{
		"asset_0": {Path: filepath.Join(dir, "override.png")},
	}}
	p := New(dir, ov, memraster.FontManager{}, 0, 0)
	defer p.Close()

	img, err := p.Resolve(context.Background(), "asset_0", "original.png")
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestResolve_OversizedAssetIsCappedToCanvas(t *testing.T) {
	dir := t.TempDir()
	writeSquarePNG(t, filepath.Join(dir, "big.png"), 16)

	p := New(dir, override.Document{}, memraster.FontManager{}, 4, 4)
	defer p.Close()

	img, err := p.Resolve(context.Background(), "asset_0", "big.png")
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), 4)
	assert.LessOrEqual(t, img.Bounds().Dy(), 4)
}

func TestResolve_AssetWithinCanvasIsUntouched(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "logo.png"))

	p := New(dir, override.Document{}, memraster.FontManager{}, 100, 100)
	defer p.Close()

	img, err := p.Resolve(context.Background(), "asset_0", "logo.png")
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestResolve_MissingFileErrors(t *testing.T) {
	dir := t.TempDir()
	p := New(dir, override.Document{}, memraster.FontManager{}, 0, 0)
	defer p.Close()

	_, err := p.Resolve(context.Background(), "asset_0", "nope.png")
	assert.Error(t, err)
}
