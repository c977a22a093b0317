package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"help2postman/internal/logging"

	"github.com/go-resty/resty/v2"
)

// ErrUnexpectedStatus is wrapped by Fetch when the server answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// Fetcher retrieves the raw HTML of a help page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Options configures the HTTP fetcher. Zero values keep resty's defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Logger    *slog.Logger
}

// HTTPFetcher performs a single synchronous GET per call. Retries are disabled.
type HTTPFetcher struct {
	client *resty.Client
	log    *slog.Logger
}

// New creates a fetcher backed by a resty client.
func New(opts Options) *HTTPFetcher {
	client := resty.New().
		SetRetryCount(0).
		SetHeader("Accept", "text/html,application/xhtml+xml")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &HTTPFetcher{client: client, log: log}
}

// Fetch returns the response body as text.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.log.Debug("fetcher: requesting", "url", url)

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	f.log.Debug("fetcher: response", "url", url, "status", resp.StatusCode(), "bytes", len(resp.Body()))

	if !resp.IsSuccess() {
		return "", fmt.Errorf("%w: %s returned %s", ErrUnexpectedStatus, url, resp.Status())
	}
	return resp.String(), nil
}
