package override

import (
	"path/filepath"
	"strings"

	"render/internal/jsonfast"
	"render/internal/model"

	"github.com/rs/zerolog"
)

// ResolvedImageOverride is an image override record after path resolution
// if FilePath is empty, FileName must already be the full path;
// otherwise the final path is FilePath+FileName, with a relative
// FilePath resolved against the override document's directory.
type ResolvedImageOverride struct {
	Path string
}

// Document is the parsed and validated override document.
type Document struct {
	TextLayers  map[string]model.TextOverride
	ImageLayers map[string]ResolvedImageOverride
}

// etxRune is the ASCII ETX control character some authoring tools emit as
// a soft line break inside override text values. Its JSON escape sequence
// decodes to this same rune, so one comparison catches both spellings.
const etxRune = rune(3)

// Parse decodes the override document found at data, logging and
// recovering from any parse error by returning an empty Document rather
// than failing the run: an invalid override file logs an error and
// rendering proceeds with no overrides. baseDir is the override
// document's own directory, used to resolve relative image filePaths.
func Parse(data []byte, baseDir string, log zerolog.Logger) Document {
	doc := Document{
		TextLayers:  map[string]model.TextOverride{},
		ImageLayers: map[string]ResolvedImageOverride{},
	}
	if len(data) == 0 {
		return doc
	}

	var raw rawDocument
	if err := jsonfast.Unmarshal(data, &raw); err != nil {
		log.Error().Err(err).Msg("override document is invalid JSON; rendering continues with no overrides")
		return doc
	}

	for name, r := range raw.TextLayers {
		to := model.TextOverride{
			MinSize:      r.MinSize,
			MaxSize:      r.MaxSize,
			FallbackText: r.FallbackText,
			TextBoxWidth: r.TextBoxWidth,
		}
		if r.Value != nil {
			v := normalizeText(*r.Value)
			to.Value = &v
		}
		if err := to.Validate(); err != nil {
			log.Warn().Str("layer", name).Err(err).Msg("ignoring invalid text override")
			continue
		}
		doc.TextLayers[name] = to
	}

	for id, r := range raw.ImageLayers {
		doc.ImageLayers[id] = ResolvedImageOverride{Path: resolveImagePath(r, baseDir)}
	}

	return doc
}

// normalizeText folds the line-break conventions authoring tools use into
// the single carriage-return form the rasterizer treats as a line break.
// \r\n is collapsed to a single \r first, so it is never double-counted
// once the per-rune ETX/\n fold below turns the remaining \n into a
// second \r; the ETX rune and all remaining newlines are then folded to
// a carriage return.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\r")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case etxRune, '\n':
			b.WriteByte('\r')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func resolveImagePath(r rawImageOverride, baseDir string) string {
	if r.FilePath == "" {
		return r.FileName
	}
	if filepath.IsAbs(r.FilePath) {
		return filepath.Join(r.FilePath, r.FileName)
	}
	return filepath.Join(baseDir, r.FilePath, r.FileName)
}
