package dar

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Defaults mirror the limits DAR copes well with in batch jobs.
const (
	DefaultBaseURL      = "https://api.dataforsyningen.dk"
	DefaultTimeout      = 30 * time.Second
	DefaultChunkSize    = 150
	DefaultConcurrency  = 10
	DefaultRetryCount   = 4
	DefaultRetryWaitMin = 1 * time.Second
	DefaultRetryWaitMax = 30 * time.Second
	DefaultCacheSize    = 4096
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL      string
	timeout      time.Duration
	chunkSize    int
	concurrency  int
	retryCount   int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	cacheSize    int
	httpClient   *http.Client
	logger       zerolog.Logger
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:      DefaultBaseURL,
		timeout:      DefaultTimeout,
		chunkSize:    DefaultChunkSize,
		concurrency:  DefaultConcurrency,
		retryCount:   DefaultRetryCount,
		retryWaitMin: DefaultRetryWaitMin,
		retryWaitMax: DefaultRetryWaitMax,
		cacheSize:    DefaultCacheSize,
		logger:       zerolog.Nop(),
	}
}

// WithBaseURL points the client at a different DAR endpoint.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithChunkSize sets the number of UUIDs sent per bulk request.
func WithChunkSize(size int) Option {
	return func(o *clientOptions) {
		if size > 0 {
			o.chunkSize = size
		}
	}
}

// WithConcurrency limits the number of in-flight bulk requests.
func WithConcurrency(n int) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithRetry configures retries of failed requests. A count of zero
// disables retrying entirely.
func WithRetry(count int, waitMin, waitMax time.Duration) Option {
	return func(o *clientOptions) {
		if count >= 0 {
			o.retryCount = count
		}
		if waitMin > 0 {
			o.retryWaitMin = waitMin
		}
		if waitMax > 0 {
			o.retryWaitMax = waitMax
		}
	}
}

// WithCacheSize sets the number of addresses kept in the in-memory cache.
// A size of zero disables caching.
func WithCacheSize(size int) Option {
	return func(o *clientOptions) {
		if size >= 0 {
			o.cacheSize = size
		}
	}
}

// WithHTTPClient sets a custom underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithLogger sets the logger used by the client.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}
