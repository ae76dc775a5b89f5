package rangeget

import "time"

// Tuning defaults, matching the teacher's own New/NewWithLoggers defaults
// where it mattered (bounded worker count), extended with the rest of the
// parameters this core's DownloadConfig exposes.
const (
	DefaultChunkSize            = 1 << 20 // 1 MiB
	DefaultMaxParallelDownloads = 4
	DefaultMaxRetries           = 3
	DefaultRetryDelay           = time.Second
	DefaultMaxRetryDelay        = 30 * time.Second
)

// DownloadConfig holds validated tuning for a download. Construct with
// NewDownloadConfig or DefaultDownloadConfig; a zero-value DownloadConfig
// is not valid.
type DownloadConfig struct {
	// ChunkSize is the target size, in bytes, of each range request.
	ChunkSize int64
	// MaxParallelDownloads bounds the number of range requests in flight at once.
	MaxParallelDownloads int
	// MaxRetries is the number of retries permitted beyond the first attempt.
	MaxRetries int
	// RetryDelay is the initial backoff delay; it doubles after each retry.
	RetryDelay time.Duration
	// MaxRetryDelay caps the backoff delay. Zero means uncapped.
	MaxRetryDelay time.Duration
	// StrictRanges, when true, makes Downloader.Download raise
	// RangesNotSupported instead of falling back to a single-stream GET.
	StrictRanges bool
}

// DefaultDownloadConfig returns the core's documented defaults: 1 MiB
// chunks, 4-way parallelism, 3 retries, 1s initial backoff capped at 30s.
func DefaultDownloadConfig() DownloadConfig {
	return DownloadConfig{
		ChunkSize:            DefaultChunkSize,
		MaxParallelDownloads: DefaultMaxParallelDownloads,
		MaxRetries:           DefaultMaxRetries,
		RetryDelay:           DefaultRetryDelay,
		MaxRetryDelay:        DefaultMaxRetryDelay,
	}
}

// NewDownloadConfig validates and returns a DownloadConfig, or an
// InvalidConfig DownloadError.
func NewDownloadConfig(chunkSize int64, maxParallelDownloads, maxRetries int, retryDelay time.Duration) (DownloadConfig, error) {
	cfg := DownloadConfig{
		ChunkSize:            chunkSize,
		MaxParallelDownloads: maxParallelDownloads,
		MaxRetries:           maxRetries,
		RetryDelay:           retryDelay,
		MaxRetryDelay:        DefaultMaxRetryDelay,
	}
	if err := cfg.Validate(); err != nil {
		return DownloadConfig{}, err
	}
	return cfg, nil
}

// Validate enforces DownloadConfig's invariants: ChunkSize > 0,
// MaxParallelDownloads >= 1, MaxRetries >= 0, RetryDelay >= 0,
// MaxRetryDelay >= 0.
func (c DownloadConfig) Validate() error {
	if c.ChunkSize <= 0 {
		return NewInvalidConfig("ChunkSize must be strictly positive")
	}
	if c.MaxParallelDownloads < 1 {
		return NewInvalidConfig("MaxParallelDownloads must be at least 1")
	}
	if c.MaxRetries < 0 {
		return NewInvalidConfig("MaxRetries cannot be negative")
	}
	if c.RetryDelay < 0 {
		return NewInvalidConfig("RetryDelay cannot be negative")
	}
	if c.MaxRetryDelay < 0 {
		return NewInvalidConfig("MaxRetryDelay cannot be negative")
	}
	return nil
}
