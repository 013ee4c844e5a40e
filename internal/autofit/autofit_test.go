package autofit

import (
	"testing"

	"render/internal/measure"
	"render/internal/model"
	"render/internal/override"
	"render/internal/raster/memraster"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `{
  "w": 500, "h": 200, "fr": 30, "ip": 0, "op": 30,
  "fonts": {"list": [{"fName": "Arial", "fFamily": "Arial", "fStyle": "Regular"}]},
  "layers": [
    {
      "ty": 5,
      "nm": "Headline",
      "t": {"d": {"k": [{"s": {"s": 48, "f": "Arial", "t": "Short"}, "t": 0}]}},
      "a": [{"p": {"s": [-30, 0, 0]}}]
    }
  ]
}`

func TestRun_SubstitutesTextAndShrinksToFit(t *testing.T) {
	min, max := 8.0, 48.0
	value := "A much, much longer replacement headline that needs to shrink"
	ov := override.Document{
		TextLayers: map[string]model.TextOverride{
			"Headline": {MinSize: &min, MaxSize: &max, Value: &value},
		},
	}

	m := measure.New(memraster.FontManager{})
	result := Run([]byte(doc), ov, m, model.Fast, 0, zerolog.Nop())

	require.Len(t, result.Modifications, 1)
	mod := result.Modifications[0]
	assert.Equal(t, value, mod.TextToUse)
	assert.Less(t, mod.OptimalSize, 48.0)
	assert.Contains(t, string(result.Doc), value)
}

func TestRun_FallbackTextUsedWhenMinSizeStillDoesNotFit(t *testing.T) {
	min, max := 40.0, 48.0
	value := "An extremely long replacement headline that will never fit in this narrow text box"
	fallback := "Fits"
	ov := override.Document{
		TextLayers: map[string]model.TextOverride{
			"Headline": {MinSize: &min, MaxSize: &max, Value: &value, FallbackText: &fallback},
		},
	}

	m := measure.New(memraster.FontManager{})
	result := Run([]byte(doc), ov, m, model.Fast, 0, zerolog.Nop())

	require.Len(t, result.Modifications, 1)
	assert.Equal(t, fallback, result.Modifications[0].TextToUse)
}

func TestRun_EmptyValueKeepsOriginalSize(t *testing.T) {
	min, max := 8.0, 48.0
	value := ""
	ov := override.Document{
		TextLayers: map[string]model.TextOverride{
			"Headline": {MinSize: &min, MaxSize: &max, Value: &value},
		},
	}

	m := measure.New(memraster.FontManager{})
	result := Run([]byte(doc), ov, m, model.Fast, 0, zerolog.Nop())

	require.Len(t, result.Modifications, 1)
	mod := result.Modifications[0]
	assert.Equal(t, "", mod.TextToUse)
	assert.Equal(t, 48.0, mod.OptimalSize)
}

func TestRun_UnknownLayerIsSkippedWithoutError(t *testing.T) {
	min, max := 8.0, 48.0
	ov := override.Document{
		TextLayers: map[string]model.TextOverride{
			"DoesNotExist": {MinSize: &min, MaxSize: &max},
		},
	}
	m := measure.New(memraster.FontManager{})
	result := Run([]byte(doc), ov, m, model.Fast, 0, zerolog.Nop())
	assert.Empty(t, result.Modifications)
	assert.Equal(t, doc, string(result.Doc))
}
