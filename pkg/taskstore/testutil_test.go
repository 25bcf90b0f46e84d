package taskstore

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeHandle is a hand-driven Handle for store tests. Tests control exactly
// when it becomes terminal via finish.
type fakeHandle struct {
	mu        sync.Mutex
	cancelled bool
	err       error
	done      chan struct{}
	closeOnce sync.Once
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{done: make(chan struct{})}
}

func (h *fakeHandle) Cancel() {
	h.mu.Lock()
	h.cancelled = true
	h.mu.Unlock()
}

func (h *fakeHandle) Cancelled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

func (h *fakeHandle) Done() <-chan struct{} {
	return h.done
}

func (h *fakeHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// finish drives the handle to a terminal state. Idempotent.
func (h *fakeHandle) finish(err error) {
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
	h.closeOnce.Do(func() { close(h.done) })
}

// finishCancelled finishes as if cooperative cancellation completed.
func (h *fakeHandle) finishCancelled() {
	h.finish(context.Canceled)
}

// waitLen blocks until the store holds exactly n entries.
func waitLen[K comparable, H Handle](t *testing.T, s *Store[K, H], n int) {
	t.Helper()
	require.Eventually(t, func() bool { return s.Len() == n },
		2*time.Second, 2*time.Millisecond)
}

// syncBuffer is a goroutine-safe writer for capturing log output.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
