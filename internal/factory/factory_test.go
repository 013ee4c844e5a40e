package factory

import (
	"testing"
	"time"

	"render/internal/override"
	"render/internal/raster"
	"render/internal/raster/memraster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClone_ReturnsIndependentAnimationsAndProviders(t *testing.T) {
	open := memraster.Opener(time.Second, 10, 10)
	fac := New([]byte(`{}`), t.TempDir(), override.Document{}, open, memraster.FontManager{}, 0, 0)

	a1, p1, err := fac.Clone()
	require.NoError(t, err)
	defer p1.Close()
	a2, p2, err := fac.Clone()
	require.NoError(t, err)
	defer p2.Close()

	assert.NotSame(t, a1, a2)
	assert.NotSame(t, p1, p2)
}

func TestClone_PropagatesOpenerError(t *testing.T) {
	boom := func(doc []byte, resources raster.ResourceProvider) (raster.Animation, error) {
		return nil, assertErr
	}
	fac := New([]byte(`{}`), t.TempDir(), override.Document{}, boom, memraster.FontManager{}, 0, 0)

	_, _, err := fac.Clone()
	assert.Error(t, err)
}

var assertErr = errOpenerFailed{}

type errOpenerFailed struct{}

func (errOpenerFailed) Error() string { return "opener failed" }
