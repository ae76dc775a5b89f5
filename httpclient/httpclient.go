// Package httpclient is the net/http-backed implementation of
// rangeget.HttpClient. It wraps an *http.Client with
// github.com/eapache/go-resiliency/retrier, the way the teacher's own
// RetryClient wraps transport-level connection hiccups in retryclient.go:
// this is a separate, inner layer of resilience from the core's own
// rangeget.WithRetry, which the Fetcher and Downloader apply one level up
// for the spec-mandated, exactly-counted per-range/per-full-GET retries.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eapache/go-resiliency/retrier"

	"github.com/cognusion/go-rangeget"
)

// errNonRetryableStatus marks a 4xx response so the retrier's blacklist
// classifier fails fast instead of spending retries on a request that will
// never succeed unmodified.
var errNonRetryableStatus = errors.New("non-retryable HTTP status received")

// Client is a rangeget.HttpClient implementation backed by *http.Client.
type Client struct {
	http    *http.Client
	retrier *retrier.Retrier
}

// New returns a Client with the given request timeout and up to
// connectionRetries inner retries (exponential backoff starting at 250ms)
// for raw connection-level faults.
func New(timeout time.Duration, connectionRetries int) *Client {
	blacklist := make(retrier.BlacklistClassifier, 1)
	blacklist[0] = errNonRetryableStatus

	return &Client{
		http:    &http.Client{Timeout: timeout},
		retrier: retrier.New(retrier.ExponentialBackoff(connectionRetries, 250*time.Millisecond), blacklist),
	}
}

// do executes req, retrying connection-level faults per the inner retrier,
// and never retrying a 4xx response (those return errNonRetryableStatus to
// the caller, who translates the original request shape into a NetworkError).
func (c *Client) do(req *http.Request) (*http.Response, error) {
	var resp *http.Response

	try := func() error {
		r, err := c.http.Do(req)
		if err != nil {
			return err
		}
		if r.StatusCode >= 400 && r.StatusCode < 500 {
			r.Body.Close()
			return errNonRetryableStatus
		}
		resp = r
		return nil
	}

	if err := c.retrier.Run(try); err != nil {
		return nil, err
	}
	return resp, nil
}

// FetchMetadata implements rangeget.HttpClient.
func (c *Client) FetchMetadata(ctx context.Context, url string) (rangeget.FileMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return rangeget.FileMetadata{}, rangeget.NewNetworkError("building HEAD request", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return rangeget.FileMetadata{}, rangeget.NewNetworkError("HEAD "+url, err)
	}
	defer resp.Body.Close()

	cl := resp.Header.Get("Content-Length")
	if cl == "" {
		return rangeget.FileMetadata{}, rangeget.NewNetworkError("missing Content-Length header", nil)
	}

	length, err := strconv.ParseInt(cl, 10, 64)
	if err != nil {
		return rangeget.FileMetadata{}, rangeget.NewNetworkError(fmt.Sprintf("Content-Length not numeric: %q", cl), err)
	}

	accepts := strings.Contains(strings.ToLower(resp.Header.Get("Accept-Ranges")), "bytes")
	return rangeget.FileMetadata{ContentLength: length, AcceptsRanges: accepts}, nil
}

// DownloadRange implements rangeget.HttpClient.
func (c *Client) DownloadRange(ctx context.Context, url string, r rangeget.ByteRange) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, rangeget.NewNetworkError("building range request", err)
	}
	req.Header.Set("Range", r.Header())

	resp, err := c.do(req)
	if err != nil {
		return nil, rangeget.NewNetworkError(fmt.Sprintf("GET %s", r.Header()), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent {
		return nil, rangeget.NewNetworkError(fmt.Sprintf("unexpected status %d for %s", resp.StatusCode, r.Header()), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, rangeget.NewNetworkError("reading range body", err)
	}
	return body, nil
}

// DownloadFull implements rangeget.HttpClient.
func (c *Client) DownloadFull(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, rangeget.NewNetworkError("building GET request", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, rangeget.NewNetworkError("GET "+url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, rangeget.NewNetworkError(fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, rangeget.NewNetworkError("reading body", err)
	}
	return body, nil
}

// Close releases idle connections. Idempotent.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
