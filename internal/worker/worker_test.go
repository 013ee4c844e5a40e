package worker

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"render/internal/raster"
	"render/internal/raster/memraster"
	"render/internal/writer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderShare_WritesOneFilePerCodecPerFrame(t *testing.T) {
	dir := t.TempDir()
	anim := memraster.New(time.Second, 4, 4)
	w := New(0, anim, Options{
		OutputDir: dir,
		Prefix:    "f",
		Codecs:    []raster.Codec{memraster.Codec{NameValue: "png"}, memraster.Codec{NameValue: "webp"}},
	})

	frameTime := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}
	var progress Progress
	errs := w.RenderShare([]int{0, 1, 2}, frameTime, &progress, nil)
	assert.Empty(t, errs)

	rendered, failed := progress.Snapshot()
	assert.Equal(t, 3, rendered)
	assert.Equal(t, 0, failed)

	for _, idx := range []int{0, 1, 2} {
		for _, ext := range []string{"png", "webp"} {
			_, err := os.Stat(filepath.Join(dir, fmt.Sprintf("f%05d.%s", idx, ext)))
			assert.NoError(t, err)
		}
	}
}

func TestRenderShare_StreamModeSubmitsInOrderViaWriter(t *testing.T) {
	var buf memBuf
	sw := writer.New(&buf, 2)
	anim := memraster.New(time.Second, 2, 2)
	w := New(0, anim, Options{
		Stream: true,
		Stdout: sw,
		Codecs: []raster.Codec{memraster.Codec{NameValue: "png"}},
	})

	frameTime := []time.Duration{50 * time.Millisecond, 0}
	var progress Progress
	errs := w.RenderShare([]int{1, 0}, frameTime, &progress, nil)
	require.Empty(t, errs)

	written, failed := sw.Wait()
	assert.Equal(t, 2, written)
	assert.Equal(t, 0, failed)
}

func TestRenderShare_SameFrameTwiceProducesIdenticalEncoding(t *testing.T) {
	anim := memraster.New(time.Second, 4, 4)
	codecs := []raster.Codec{memraster.Codec{NameValue: "png"}}

	dirA, dirB := t.TempDir(), t.TempDir()
	wa := New(0, anim, Options{OutputDir: dirA, Prefix: "f", Codecs: codecs})
	wb := New(1, memraster.New(time.Second, 4, 4), Options{OutputDir: dirB, Prefix: "f", Codecs: codecs})

	frameTime := []time.Duration{123 * time.Millisecond}
	var pa, pb Progress
	require.Empty(t, wa.RenderShare([]int{0}, frameTime, &pa, nil))
	require.Empty(t, wb.RenderShare([]int{0}, frameTime, &pb, nil))

	a, err := os.ReadFile(filepath.Join(dirA, "f00000.png"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dirB, "f00000.png"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

type memBuf struct{ data []byte }

func (m *memBuf) Write(p []byte) (int, error) {
	m.data = append(m.data, p...)
	return len(p), nil
}
