package queue

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStorage struct {
	mu      sync.Mutex
	removed []string
	err     error
	done    chan struct{}
}

func newRecordingStorage() *recordingStorage {
	return &recordingStorage{done: make(chan struct{}, 16)}
}

func (s *recordingStorage) Save(context.Context, string, io.Reader, int64) (int64, error) {
	return 0, errors.New("not implemented")
}

func (s *recordingStorage) Open(context.Context, string) (io.ReadCloser, string, error) {
	return nil, "", errors.New("not implemented")
}

func (s *recordingStorage) Remove(_ context.Context, name string) error {
	s.mu.Lock()
	s.removed = append(s.removed, name)
	s.mu.Unlock()
	s.done <- struct{}{}
	return s.err
}

func (s *recordingStorage) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.removed...)
}

func waitFor(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for removal %d", i+1)
		}
	}
}

func TestJanitor_RemovesEnqueuedCovers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storage := newRecordingStorage()
	j := NewJanitor(2, storage, zerolog.Nop())
	j.Start(ctx)

	j.Enqueue("uploads/a.png")
	j.Enqueue("uploads/b.gif")
	waitFor(t, storage.done, 2)

	assert.ElementsMatch(t, []string{"a.png", "b.gif"}, storage.names())
}

func TestJanitor_IgnoresForeignPaths(t *testing.T) {
	storage := newRecordingStorage()
	j := NewJanitor(1, storage, zerolog.Nop())

	j.Enqueue("")
	j.Enqueue("/etc/passwd")
	j.Enqueue("uploads/../go.mod")
	j.Enqueue("uploads/nested/x.png")

	assert.Len(t, j.jobs, 0)
}

func TestJanitor_DropsWhenFull(t *testing.T) {
	storage := newRecordingStorage()
	j := NewJanitor(1, storage, zerolog.Nop())

	for i := 0; i < channelBuffer+10; i++ {
		j.Enqueue("uploads/x.png")
	}
	require.Len(t, j.jobs, channelBuffer)
}

func TestJanitor_FailureDoesNotStopWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storage := newRecordingStorage()
	storage.err = errors.New("disk gone")
	j := NewJanitor(1, storage, zerolog.Nop())
	j.Start(ctx)

	j.Enqueue("uploads/a.png")
	j.Enqueue("uploads/b.png")
	waitFor(t, storage.done, 2)

	assert.Equal(t, []string{"a.png", "b.png"}, storage.names())
}
