// Package httpx wraps net/http with the retry and rate-limiting rules
// §5 CONCURRENCY & RESOURCE MODEL imposes on every external call: a
// per-call timeout, exponential backoff on transient failures, and a
// per-service minimum-interval gate shared across concurrent callers.
//
// Grounded on pkg/sync.Limiter's channel-based semaphore for the
// bounded-concurrency half of the contract, and cenkalti/backoff/v4 for
// the retry half (the dependency both the teacher's vectorstores module
// and jordigilh-kubernaut's go.mod carry for exactly this purpose).
package httpx

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Sologa/AUTOSR-SDSE-sub001/internal/xerrors"
	sdksync "github.com/Sologa/AUTOSR-SDSE-sub001/pkg/sync"
)

// Gate enforces a per-service minimum interval between outgoing calls
// and a maximum concurrency, both shared across every caller holding a
// reference to the same Gate.
type Gate struct {
	limiter     *sdksync.Limiter
	minInterval time.Duration

	mu       sync.Mutex
	lastCall time.Time
}

// NewGate constructs a Gate allowing at most maxConcurrent in-flight
// calls, each spaced at least minInterval apart from the previous one.
func NewGate(maxConcurrent int, minInterval time.Duration) *Gate {
	return &Gate{limiter: sdksync.NewLimiter(maxConcurrent), minInterval: minInterval}
}

// Wait blocks until both a concurrency slot is free and the minimum
// interval since the last call has elapsed, then returns a release
// function the caller must invoke when the call completes.
func (g *Gate) Wait(ctx context.Context) (release func(), err error) {
	g.limiter.Acquire()

	g.mu.Lock()
	wait := g.minInterval - time.Since(g.lastCall)
	g.mu.Unlock()

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			g.limiter.Release()
			return nil, ctx.Err()
		}
	}

	g.mu.Lock()
	g.lastCall = time.Now()
	g.mu.Unlock()

	return g.limiter.Release, nil
}

// Client is an HTTP client with per-call timeout, backoff-retried GET,
// and an optional Gate shared across every call it issues.
type Client struct {
	HTTP    *http.Client
	Gate    *Gate
	Timeout time.Duration
	MaxRetries uint64
}

// NewClient constructs a Client with the given per-call timeout and
// retry budget, optionally rate-gated.
func NewClient(timeout time.Duration, maxRetries uint64, gate *Gate) *Client {
	return &Client{
		HTTP:       &http.Client{},
		Gate:       gate,
		Timeout:    timeout,
		MaxRetries: maxRetries,
	}
}

// Get issues a GET request against url, retrying transient failures
// (timeouts, 5xx, 429) with exponential backoff (base 2s, bounded by
// MaxRetries) per §5's cancellation & timeouts rule.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	if c.Gate != nil {
		release, err := c.Gate.Wait(ctx)
		if err != nil {
			return nil, xerrors.Wrap(err, xerrors.ExternalTimeout, "rate gate wait")
		}
		defer release()
	}

	var body []byte
	op := func() error {
		cctx, cancel := context.WithTimeout(ctx, c.Timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(cctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(xerrors.Wrap(err, xerrors.ConfigError, "build request"))
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return xerrors.Wrap(err, xerrors.ExternalTimeout, "http request")
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return xerrors.Newf(xerrors.RateLimited, "rate limited: %s", url)
		}
		if resp.StatusCode >= 500 {
			return xerrors.Newf(xerrors.ExternalHttpError, "server error %d: %s", resp.StatusCode, url)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(xerrors.Newf(xerrors.ExternalHttpError, "client error %d: %s", resp.StatusCode, url))
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return xerrors.Wrap(err, xerrors.ExternalHttpError, "read response body")
		}
		body = data
		return nil
	}

	policy := backoff.WithMaxRetries(c.retryPolicy(), c.MaxRetries)
	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

// Download GETs url and writes the response body to destPath via
// write-to-temp-then-rename, for PDF retrieval (§4.2 step 5) where the
// caller wants the bytes on disk rather than buffered.
func (c *Client) Download(ctx context.Context, url, destPath string) error {
	body, err := c.Get(ctx, url, nil)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return xerrors.Wrap(err, xerrors.ConfigError, "create download directory")
	}
	tmp := destPath + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return xerrors.Wrap(err, xerrors.ConfigError, "write downloaded file")
	}
	if err := os.Rename(tmp, destPath); err != nil {
		_ = os.Remove(tmp)
		return xerrors.Wrap(err, xerrors.ConfigError, "rename downloaded file into place")
	}
	return nil
}

func (c *Client) retryPolicy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.Multiplier = 2
	return b
}
