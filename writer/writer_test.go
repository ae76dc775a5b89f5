package writer

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognusion/go-rangeget"
)

func TestNew_PreSizesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")

	w, err := New(path, 4096)
	require.NoError(t, err)
	defer w.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(4096), info.Size())
}

func TestNew_TruncatesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is long"), 0644))

	w, err := New(path, 10)
	require.NoError(t, err)
	defer w.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(10), info.Size())
}

func TestWriteAt_ConcurrentOffsetsProduceCorrectContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")
	const chunkSize = 256
	const chunks = 16
	total := int64(chunkSize * chunks)

	w, err := New(path, total)
	require.NoError(t, err)

	want := make([]byte, total)
	var wg sync.WaitGroup
	for i := 0; i < chunks; i++ {
		i := i
		data := make([]byte, chunkSize)
		for j := range data {
			data[j] = byte(i)
		}
		copy(want[i*chunkSize:], data)

		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, w.WriteAt(int64(i*chunkSize), data))
		}()
	}
	wg.Wait()
	require.NoError(t, w.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClose_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")

	w, err := New(path, 10)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestNew_FailsOnUnwritableParentDirectory(t *testing.T) {
	_, err := New(filepath.Join("/nonexistent-parent-dir", "out"), 10)
	require.Error(t, err)
	de, ok := err.(*rangeget.DownloadError)
	require.True(t, ok)
	assert.Equal(t, rangeget.KindFileWriteError, de.Kind)
}
