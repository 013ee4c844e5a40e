package override

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_EmptyInputReturnsEmptyDocument(t *testing.T) {
	doc := Parse(nil, "/base", zerolog.Nop())
	assert.Empty(t, doc.TextLayers)
	assert.Empty(t, doc.ImageLayers)
}

func TestParse_InvalidJSONLogsAndReturnsEmptyDocument(t *testing.T) {
	doc := Parse([]byte(`{not json`), "/base", zerolog.Nop())
	assert.Empty(t, doc.TextLayers)
	assert.Empty(t, doc.ImageLayers)
}

func TestParse_InvalidOverrideIsSkippedNotFatal(t *testing.T) {
	raw := `{"textLayers": {"Bad": {"minSize": 40, "maxSize": 10}}}`
	doc := Parse([]byte(raw), "/base", zerolog.Nop())
	assert.Empty(t, doc.TextLayers)
}

func TestParse_CRLFCollapsesToOneLineBreak(t *testing.T) {
	raw := `{"textLayers": {"Title": {"value": "line one\r\nline two"}}}`
	doc := Parse([]byte(raw), "/base", zerolog.Nop())

	require.Contains(t, doc.TextLayers, "Title")
	got := *doc.TextLayers["Title"].Value
	assert.Equal(t, "line one\rline two", got)
}

func TestParse_BareNewlineFoldsToCarriageReturn(t *testing.T) {
	raw := `{"textLayers": {"Title": {"value": "ab\nc"}}}`
	doc := Parse([]byte(raw), "/base", zerolog.Nop())

	got := *doc.TextLayers["Title"].Value
	assert.Equal(t, "ab\rc", got)
}

func TestParse_ETXEscapeFoldsToCarriageReturn(t *testing.T) {
	raw := `{"textLayers": {"Title": {"value": "ab\u0003c"}}}`
	doc := Parse([]byte(raw), "/base", zerolog.Nop())

	got := *doc.TextLayers["Title"].Value
	assert.Equal(t, "ab\rc", got)
}

func TestParse_ImageOverrideResolvesRelativeFilePathAgainstBaseDir(t *testing.T) {
	raw := `{"imageLayers": {"asset_0": {"filePath": "img", "fileName": "logo.png"}}}`
	doc := Parse([]byte(raw), "/base", zerolog.Nop())

	require.Contains(t, doc.ImageLayers, "asset_0")
	assert.Equal(t, "/base/img/logo.png", doc.ImageLayers["asset_0"].Path)
}

func TestParse_ImageOverrideWithoutFilePathUsesFileNameAsFullPath(t *testing.T) {
	raw := `{"imageLayers": {"asset_0": {"fileName": "/abs/logo.png"}}}`
	doc := Parse([]byte(raw), "/base", zerolog.Nop())

	assert.Equal(t, "/abs/logo.png", doc.ImageLayers["asset_0"].Path)
}
