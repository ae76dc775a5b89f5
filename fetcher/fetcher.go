// Package fetcher drives the bounded-concurrency parallel range phase of a
// download: a semaphore-gated, structured-concurrency scope (one goroutine
// per range, joined by an errgroup.Group) that retries each range
// individually, verifies its length, writes it at its offset, and reports
// monotonically advancing progress.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync/atomic"
	"time"

	"github.com/cognusion/go-sequence"
	"github.com/cognusion/go-timings"
	"github.com/cognusion/semaphore"
	"golang.org/x/sync/errgroup"

	"github.com/cognusion/go-rangeget"
	"github.com/cognusion/go-rangeget/writer"
)

var seq = sequence.New(0)

// Fetcher runs the parallel range phase for a single download.
type Fetcher struct {
	URL        string
	Ranges     []rangeget.ByteRange
	TotalBytes int64
	Client     rangeget.HttpClient
	Writer     *writer.PositionalWriter
	Config     rangeget.DownloadConfig
	Listener   rangeget.ProgressListener

	TimingsOut *log.Logger
	DebugOut   *log.Logger
}

// Run spawns one task per range under a semaphore of Config.MaxParallelDownloads
// permits, joined by a structured concurrency scope: the first task to raise
// an error that escapes its own retry cancels every sibling, and that error
// propagates from Run unchanged. There is no partial success.
func (f *Fetcher) Run(ctx context.Context) error {
	listener := f.Listener
	if listener == nil {
		listener = rangeget.NoopProgressListener
	}
	timingsOut := f.TimingsOut
	if timingsOut == nil {
		timingsOut = log.New(io.Discard, "", 0)
	}
	debugOut := f.DebugOut
	if debugOut == nil {
		debugOut = log.New(io.Discard, "", 0)
	}

	dlid := seq.NextHashID()
	defer timings.Track(fmt.Sprintf("[%s] Fetcher", dlid), time.Now(), timingsOut)
	debugOut.Printf("[%s] fetching %d ranges, %d in flight, total %d bytes\n", dlid, len(f.Ranges), f.Config.MaxParallelDownloads, f.TotalBytes)

	sem := semaphore.NewSemaphore(f.Config.MaxParallelDownloads)
	group, gctx := errgroup.WithContext(ctx)

	var progress int64

	for _, rng := range f.Ranges {
		rng := rng
		group.Go(func() error {
			sem.Lock()
			defer sem.Unlock()

			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			defer timings.Track(fmt.Sprintf("\t[%s] range %s", dlid, rng.Header()), time.Now(), timingsOut)

			data, err := f.retryRange(gctx, rng)
			if err != nil {
				debugOut.Printf("[%s] range %s failed: %v\n", dlid, rng.Header(), err)
				return err
			}

			if int64(len(data)) != rng.Length() {
				return rangeget.NewChunkSizeMismatch(rng.Length(), int64(len(data)), rng.Header())
			}

			if err := f.Writer.WriteAt(rng.Start, data); err != nil {
				return err
			}

			newTotal := atomic.AddInt64(&progress, int64(len(data)))
			listener.OnProgress(newTotal, f.TotalBytes)

			debugOut.Printf("[%s] range %s complete (%d/%d)\n", dlid, rng.Header(), newTotal, f.TotalBytes)
			return nil
		})
	}

	return group.Wait()
}

// retryRange wraps a single range's download in the core's generic retry:
// exactly Config.MaxRetries+1 attempts on persistent failure, retrying only
// NetworkError. A ChunkSizeMismatch is raised by the caller, after a
// successful-but-wrong-length download, and is never retried.
func (f *Fetcher) retryRange(ctx context.Context, rng rangeget.ByteRange) ([]byte, error) {
	return rangeget.WithRetry(ctx, f.Config.MaxRetries, f.Config.RetryDelay, f.Config.MaxRetryDelay, rangeget.IsNetworkError, func() ([]byte, error) {
		return f.Client.DownloadRange(ctx, f.URL, rng)
	})
}
