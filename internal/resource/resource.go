// Package resource implements the Resource Provider (C12): resolving an
// animation's image assets against the input file's directory, applying
// any image overrides, and caching decoded images so repeated seeks
// through one Provider never re-decode the same asset.
package resource

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"render/internal/override"
	"render/internal/raster"

	"github.com/jellydator/ttlcache/v3"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/singleflight"
)

// cacheTTL bounds how long a decoded asset is kept once idle; a render
// run is short-lived, so this mostly exists to cap memory on very long
// animations with many distinct assets.
const cacheTTL = 5 * time.Minute

// Provider resolves and decodes image assets relative to baseDir,
// honoring any per-asset-id overrides from an override document. It is
// safe for concurrent use by multiple workers; decodes for the same
// path are deduplicated via singleflight so a cache-cold burst across
// workers never decodes the same file twice.
type Provider struct {
	baseDir    string
	images     override.Document
	fonts      raster.FontManager
	maxW, maxH int

	cache *ttlcache.Cache[string, image.Image]
	group singleflight.Group
}

// New returns a Provider that resolves relative asset paths against
// baseDir (the input animation's directory) and serves fonts from the
// fonts manager the Animation Factory built. maxW/maxH cap decoded image
// assets to the animation's own canvas size; an asset exceeding either
// bound is downsampled, preserving aspect ratio, before it is handed to
// the rasterizer. maxW <= 0 or maxH <= 0 disables the cap.
func New(baseDir string, images override.Document, fonts raster.FontManager, maxW, maxH int) *Provider {
	cache := ttlcache.New[string, image.Image](
		ttlcache.WithTTL[string, image.Image](cacheTTL),
	)
	go cache.Start()
	return &Provider{baseDir: baseDir, images: images, fonts: fonts, maxW: maxW, maxH: maxH, cache: cache}
}

// FontManager implements raster.ResourceProvider.
func (p *Provider) FontManager() raster.FontManager { return p.fonts }

// Close stops the cache's background janitor goroutine.
func (p *Provider) Close() { p.cache.Stop() }

// Resolve returns the decoded image file for assetID. Every call goes
// through resolvePath, the override map and the cache; there is no
// separate path for embedded (data-URI) assets, so an override keyed by
// an embedded asset's id is applied like any other.
func (p *Provider) Resolve(ctx context.Context, assetID, fileName string) (image.Image, error) {
	path := p.resolvePath(assetID, fileName)

	if entry := p.cache.Get(path); entry != nil {
		return entry.Value(), nil
	}

	v, err, _ := p.group.Do(path, func() (interface{}, error) {
		img, err := decodeFile(path)
		if err != nil {
			return nil, err
		}
		return p.capToCanvas(img), nil
	})
	if err != nil {
		return nil, fmt.Errorf("resource: decode %s: %w", path, err)
	}
	img := v.(image.Image)
	p.cache.Set(path, img, ttlcache.DefaultTTL)
	return img, nil
}

// capToCanvas downsamples img, preserving aspect ratio, when it exceeds
// the provider's maxW/maxH bounds; images that already fit are returned
// unchanged to avoid a needless copy.
func (p *Provider) capToCanvas(img image.Image) image.Image {
	if p.maxW <= 0 || p.maxH <= 0 {
		return img
	}
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w <= p.maxW && h <= p.maxH {
		return img
	}

	ratio := float64(w) / float64(h)
	newW, newH := p.maxW, p.maxH
	if float64(p.maxW)/float64(p.maxH) > ratio {
		newW = int(float64(p.maxH) * ratio)
	} else {
		newH = int(float64(p.maxW) / ratio)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}

// resolvePath applies the precedence order: an explicit per-asset
// override wins outright; otherwise the asset's own fileName is
// resolved against baseDir.
func (p *Provider) resolvePath(assetID, fileName string) string {
	if ov, ok := p.images.ImageLayers[assetID]; ok {
		return ov.Path
	}
	if filepath.IsAbs(fileName) {
		return fileName
	}
	return filepath.Join(p.baseDir, fileName)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return img, nil
}
