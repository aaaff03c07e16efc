package spinner

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncWriter serializes writes so the test can read the buffer safely.
type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestSpinnerWritesAndClears(t *testing.T) {
	w := &syncWriter{}
	stop := Start(w, "thinking")

	time.Sleep(3 * frameInterval)
	stop()

	out := w.String()
	assert.Contains(t, out, "thinking")
	// The final write clears the line.
	assert.True(t, strings.HasSuffix(out, "\r"))
}

func TestStopIsIdempotent(t *testing.T) {
	w := &syncWriter{}
	stop := Start(w, "working")
	stop()
	assert.NotPanics(t, stop)
}
