// Package writer provides PositionalWriter, the core's shared output-file
// sink: a file pre-sized to the full content length, written at absolute
// offsets under a single internal lock so concurrent chunk writes never
// interleave or tear.
package writer

import (
	"os"
	"sync"

	"github.com/cognusion/go-rangeget"
)

// PositionalWriter serializes offset writes into a single pre-sized file.
type PositionalWriter struct {
	mu   sync.Mutex
	file *os.File
}

// New opens path for read/write, creating or truncating it, and sets its
// length to exactly totalBytes.
func New(path string, totalBytes int64) (*PositionalWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
	if err != nil {
		return nil, rangeget.NewFileWriteError("creating output file", err)
	}
	if err := f.Truncate(totalBytes); err != nil {
		f.Close()
		return nil, rangeget.NewFileWriteError("sizing output file", err)
	}
	return &PositionalWriter{file: f}, nil
}

// WriteAt writes data in full at offset. Safe to call from many concurrent
// goroutines: writes are serialized so no two ever interleave.
func (w *PositionalWriter) WriteAt(offset int64, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.file.WriteAt(data, offset); err != nil {
		return rangeget.NewFileWriteError("writing chunk", err)
	}
	return nil
}

// Close flushes and releases the handle. Idempotent: a second Close returns nil.
func (w *PositionalWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	if err != nil {
		return rangeget.NewFileWriteError("closing output file", err)
	}
	return nil
}
