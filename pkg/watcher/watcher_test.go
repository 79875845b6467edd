package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/philipparndt/gopath/pkg/pathgeom"
	"github.com/philipparndt/gopath/pkg/toolpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitResult returns the first rebuild matching ok, skipping extra rebuilds
// caused by a write arriving as several events.
func waitResult(t *testing.T, results <-chan Result, ok func(Result) bool) Result {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case r := <-results:
			if ok(r) {
				return r
			}
		case <-timeout:
			t.Fatal("timed out waiting for rebuild")
			return Result{}
		}
	}
}

func TestWatcherBuild(t *testing.T) {
	file := filepath.Join(t.TempDir(), "part.nc")
	require.NoError(t, os.WriteFile(file, []byte("G0 X1\nG1 Y1\n"), 0o644))

	w, err := New(file, pathgeom.DefaultOptions(), 10*time.Millisecond, nil, nil)
	require.NoError(t, err)
	defer w.Close()

	result := w.Build()
	require.NoError(t, result.Err)
	assert.Equal(t, 2, result.Commands)
	assert.Len(t, result.Geometry.Points, 3)
}

func TestWatcherRebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "part.nc")
	require.NoError(t, os.WriteFile(file, []byte("G0 X1\n"), 0o644))

	results := make(chan Result, 16)
	w, err := New(file, pathgeom.DefaultOptions(), 20*time.Millisecond, nil, func(r Result) {
		results <- r
	})
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.nc"), []byte("G0 X9\n"), 0o644))
	require.NoError(t, os.WriteFile(file, []byte("G0 X1\nG1 X2\nG1 X3\n"), 0o644))

	result := waitResult(t, results, func(r Result) bool { return r.Commands == 3 })
	require.NoError(t, result.Err)
	assert.Equal(t, 3, result.Commands)
	assert.Len(t, result.Geometry.Points, 4)

	require.NoError(t, os.WriteFile(file, []byte("G1 X#\n"), 0o644))
	result = waitResult(t, results, func(r Result) bool { return r.Err != nil })
	assert.True(t, errors.Is(result.Err, toolpath.ErrSyntax))
	assert.Nil(t, result.Geometry)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "part.nc"), pathgeom.DefaultOptions(), time.Millisecond, nil, nil)
	assert.Error(t, err)
}
