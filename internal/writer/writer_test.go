package writer

import (
	"bytes"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_EmitsInOrderRegardlessOfSubmitOrder(t *testing.T) {
	var buf bytes.Buffer
	total := 20
	w := New(&buf, total)

	order := rand.New(rand.NewSource(1)).Perm(total)
	var wg sync.WaitGroup
	for _, idx := range order {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			w.Submit(Frame{Index: idx, Encoded: []byte(fmt.Sprintf("%02d|", idx))})
		}(idx)
	}
	wg.Wait()

	written, failed := w.Wait()
	assert.Equal(t, total, written)
	assert.Equal(t, 0, failed)

	want := ""
	for i := 0; i < total; i++ {
		want += fmt.Sprintf("%02d|", i)
	}
	assert.Equal(t, want, buf.String())
}

func TestWriter_FailedFrameStillAdvancesCursor(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, 3)

	w.Submit(Frame{Index: 0, Encoded: []byte("a")})
	w.Submit(Frame{Index: 1, Err: fmt.Errorf("boom")})
	w.Submit(Frame{Index: 2, Encoded: []byte("c")})

	written, failed := w.Wait()
	assert.Equal(t, 2, written)
	assert.Equal(t, 1, failed)
	assert.Equal(t, "ac", buf.String())
}
