// Package downloader provides Downloader, the core's single entry point:
// probe metadata, then either run the bounded concurrent Fetcher against a
// PositionalWriter, or fall back to a retried single-stream GET.
package downloader

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/cognusion/go-sequence"
	"github.com/cognusion/go-timings"

	"github.com/cognusion/go-rangeget"
	"github.com/cognusion/go-rangeget/fetcher"
	"github.com/cognusion/go-rangeget/writer"
)

var seq = sequence.New(0)

// Downloader is the facade described in spec.md 4.6. Construct with New.
type Downloader struct {
	Client   rangeget.HttpClient
	Config   rangeget.DownloadConfig
	Listener rangeget.ProgressListener

	TimingsOut *log.Logger
	DebugOut   *log.Logger
}

// New validates config and returns a Downloader using client for transport.
// Logged messages are discarded unless TimingsOut/DebugOut are set afterward.
func New(client rangeget.HttpClient, config rangeget.DownloadConfig) (*Downloader, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Downloader{
		Client:     client,
		Config:     config,
		Listener:   rangeget.NoopProgressListener,
		TimingsOut: log.New(io.Discard, "", 0),
		DebugOut:   log.New(io.Discard, "", 0),
	}, nil
}

// Download retrieves url into outputPath. Errors propagate unchanged: the
// facade never wraps or reinterprets a DownloadError.
func (d *Downloader) Download(ctx context.Context, url, outputPath string) (err error) {
	dlid := seq.NextHashID()
	defer timings.Track(fmt.Sprintf("[%s] Download", dlid), time.Now(), d.TimingsOut)

	metadata, err := d.Client.FetchMetadata(ctx, url)
	if err != nil {
		return err
	}
	d.DebugOut.Printf("[%s] %s: %d bytes, ranges=%v\n", dlid, url, metadata.ContentLength, metadata.AcceptsRanges)

	if !metadata.AcceptsRanges {
		if d.Config.StrictRanges {
			return rangeget.NewRangesNotSupported(url)
		}
		return d.downloadFallback(ctx, dlid, url, outputPath, metadata)
	}

	ranges, err := rangeget.Split(metadata.ContentLength, d.Config.ChunkSize)
	if err != nil {
		return err
	}

	w, err := writer.New(outputPath, metadata.ContentLength)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	f := &fetcher.Fetcher{
		URL:        url,
		Ranges:     ranges,
		TotalBytes: metadata.ContentLength,
		Client:     d.Client,
		Writer:     w,
		Config:     d.Config,
		Listener:   d.Listener,
		TimingsOut: d.TimingsOut,
		DebugOut:   d.DebugOut,
	}

	return f.Run(ctx)
}

// downloadFallback performs the graceful single-stream path for an origin
// that doesn't advertise range support: a retried full GET, one progress
// callback, then a single write of the whole buffer.
func (d *Downloader) downloadFallback(ctx context.Context, dlid, url, outputPath string, metadata rangeget.FileMetadata) error {
	d.DebugOut.Printf("[%s] ranges unsupported, falling back to full GET\n", dlid)

	data, err := rangeget.WithRetry(ctx, d.Config.MaxRetries, d.Config.RetryDelay, d.Config.MaxRetryDelay, rangeget.IsNetworkError, func() ([]byte, error) {
		return d.Client.DownloadFull(ctx, url)
	})
	if err != nil {
		return err
	}

	total := metadata.ContentLength
	if total <= 0 {
		total = int64(len(data))
	}
	if d.Listener != nil {
		d.Listener.OnProgress(int64(len(data)), total)
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return rangeget.NewFileWriteError("writing fallback output", err)
	}
	return nil
}
