package sizer

import (
	"errors"
	"testing"

	"render/internal/measure"
	"render/internal/model"
	"render/internal/raster/memraster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMeasurer() measure.Measurer {
	return measure.New(memraster.FontManager{})
}

func TestFind_SizesDownWhenTooWide(t *testing.T) {
	m := newMeasurer()
	fi := model.FontInfo{Family: "f", Size: 48, TextBoxWidth: 200}
	size, err := Find(m, fi, "a very long line of sample text", 8, 48, fi.TextBoxWidth*0.97, model.Fast)
	require.NoError(t, err)
	assert.Less(t, size, 48.0)
	assert.GreaterOrEqual(t, size, 8.0)
}

func TestFind_SizesUpWhenRoomAvailable(t *testing.T) {
	m := newMeasurer()
	fi := model.FontInfo{Family: "f", Size: 10, TextBoxWidth: 400}
	size, err := Find(m, fi, "short", 8, 60, fi.TextBoxWidth*0.97, model.Fast)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, size, 10.0)
	assert.LessOrEqual(t, size, 60.0)
}

func TestFind_DidNotFitAtMinSize(t *testing.T) {
	m := newMeasurer()
	fi := model.FontInfo{Family: "f", Size: 48, TextBoxWidth: 10}
	_, err := Find(m, fi, "this text cannot possibly fit in ten units", 8, 48, fi.TextBoxWidth*0.97, model.Fast)
	var notFit ErrDidNotFit
	assert.True(t, errors.As(err, &notFit))
}

func TestFind_EmptyTextReturnsOriginalSize(t *testing.T) {
	m := newMeasurer()
	fi := model.FontInfo{Family: "f", Size: 32, TextBoxWidth: 400}
	size, err := Find(m, fi, "", 8, 60, fi.TextBoxWidth*0.97, model.Fast)
	require.NoError(t, err)
	assert.Equal(t, fi.Size, size)
}
