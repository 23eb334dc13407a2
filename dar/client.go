package dar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Client talks to the DAR address registry. All operations take a context
// and are safe for concurrent use; bulk operations fan out internally with
// bounded concurrency.
type Client struct {
	rest        *resty.Client
	chunkSize   int
	concurrency int
	cache       *addressCache
	logger      zerolog.Logger
}

// New creates a new DAR client. Without options it points at the public
// registry with retrying and caching enabled.
func New(opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var rest *resty.Client
	if o.httpClient != nil {
		rest = resty.NewWithClient(o.httpClient)
	} else {
		rest = resty.New()
	}
	rest.
		SetBaseURL(strings.TrimRight(o.baseURL, "/")).
		SetTimeout(o.timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(o.retryCount).
		SetRetryWaitTime(o.retryWaitMin).
		SetRetryMaxWaitTime(o.retryWaitMax).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})

	client := &Client{
		rest:        rest,
		chunkSize:   o.chunkSize,
		concurrency: o.concurrency,
		logger:      o.logger,
	}
	if o.cacheSize > 0 {
		client.cache = newAddressCache(o.cacheSize)
	}

	return client
}

// BaseURL returns the DAR endpoint the client is pointed at.
func (c *Client) BaseURL() string {
	return c.rest.BaseURL
}

// Healthcheck checks whether DAR can be reached. It reports false on any
// transport error, timeout or non-200 response and never fails.
func (c *Client) Healthcheck(ctx context.Context) bool {
	resp, err := c.rest.R().
		SetContext(ctx).
		Get("/autocomplete")
	if err != nil {
		c.logger.Debug().Err(err).Msg("DAR healthcheck failed")
		return false
	}
	if resp.StatusCode() != http.StatusOK {
		c.logger.Debug().Int("status", resp.StatusCode()).Msg("DAR healthcheck returned non-200")
		return false
	}
	return true
}

// Lookup resolves a single UUID. The given address types are tried in
// order, falling through to the next on a 404; with none given all types
// are tried. Returns ErrNotFound when the UUID exists in no collection.
func (c *Client) Lookup(ctx context.Context, id uuid.UUID, addrTypes ...AddressType) (*Address, error) {
	if len(addrTypes) == 0 {
		addrTypes = AllAddressTypes
	}

	if c.cache != nil {
		if addr, ok := c.cache.Get(id); ok {
			return &addr, nil
		}
	}

	for _, addrType := range addrTypes {
		addr, err := c.lookupSingle(ctx, id, addrType)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.IsNotFound() {
				continue
			}
			return nil, err
		}

		if c.cache != nil {
			c.cache.Put(id, *addr)
		}
		return addr, nil
	}

	return nil, fmt.Errorf("lookup %s: %w", id, ErrNotFound)
}

// lookupSingle fetches a UUID from one collection.
func (c *Client) lookupSingle(ctx context.Context, id uuid.UUID, addrType AddressType) (*Address, error) {
	endpoint := fmt.Sprintf("/%s/%s", addrType, id)

	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"struktur": "mini",
			"noformat": "1",
		}).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", id, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode(),
			Endpoint:   endpoint,
			Body:       resp.String(),
		}
	}

	var addr Address
	if err := json.Unmarshal(resp.Body(), &addr); err != nil {
		return nil, fmt.Errorf("failed to parse DAR reply for %s: %w", id, err)
	}

	c.logger.Debug().
		Stringer("uuid", id).
		Str("type", addrType.String()).
		Msg("Resolved address")

	return &addr, nil
}
