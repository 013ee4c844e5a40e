// Package factory implements the Animation Factory (C6): parsing the
// input animation once, then handing every worker its own independent
// clone plus a private resource provider, so no two workers ever touch
// shared rasterizer state.
package factory

import (
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"render/internal/override"
	"render/internal/raster"
	"render/internal/raster/gxfont"
	"render/internal/resource"
)

// Opener constructs one independent Animation from the parsed document
// bytes and its resource provider. It is the seam a real vector-graphics
// rasterizer plugs into; each call must return an Animation safe to use
// exclusively by one worker.
type Opener func(doc []byte, resources raster.ResourceProvider) (raster.Animation, error)

// Factory builds one Animation clone and one ResourceProvider per
// worker from a single parsed document.
type Factory struct {
	doc        []byte
	baseDir    string
	images     override.Document
	open       Opener
	fonts      raster.FontManager
	maxW, maxH int
}

// NewFonts loads the built-in default font manager. Callers build this
// once per run, measure against it during autofit, and hand the same
// instance to the Factory built from the rewritten document, so the
// measuring pass and every worker clone share one font manager.
func NewFonts() (*gxfont.Manager, error) {
	fonts, err := gxfont.New()
	if err != nil {
		return nil, fmt.Errorf("factory: loading default font: %w", err)
	}
	return fonts, nil
}

// New returns a Factory bound to doc, using fonts for every clone's
// resource provider. baseDir is the input animation's own directory,
// used to resolve relative image asset paths. canvasW/canvasH are the
// animation's own canvas size; every clone's resource provider caps
// decoded image assets to that size (see resource.New).
func New(doc []byte, baseDir string, images override.Document, open Opener, fonts raster.FontManager, canvasW, canvasH int) *Factory {
	return &Factory{doc: doc, baseDir: baseDir, images: images, open: open, fonts: fonts, maxW: canvasW, maxH: canvasH}
}

// Clone builds one worker's private Animation and ResourceProvider.
func (f *Factory) Clone() (raster.Animation, *resource.Provider, error) {
	provider := resource.New(f.baseDir, f.images, f.fonts, f.maxW, f.maxH)
	anim, err := f.open(f.doc, provider)
	if err != nil {
		provider.Close()
		return nil, nil, fmt.Errorf("factory: opening animation clone: %w", err)
	}
	return anim, provider, nil
}

