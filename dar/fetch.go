package dar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// FetchResult holds the outcome of a bulk fetch.
type FetchResult struct {
	// Found maps each resolved UUID to its address.
	Found map[uuid.UUID]Address
	// Missing lists the UUIDs found in none of the queried collections.
	Missing []uuid.UUID
}

// Fetch resolves a set of UUIDs in bulk. The address types are walked in
// order and only still-missing UUIDs are fed to the next type; with none
// given all types are tried. Large sets are split into chunks fetched
// concurrently.
func (c *Client) Fetch(ctx context.Context, ids []uuid.UUID, addrTypes ...AddressType) (*FetchResult, error) {
	if len(addrTypes) == 0 {
		addrTypes = AllAddressTypes
	}

	result := &FetchResult{Found: make(map[uuid.UUID]Address, len(ids))}

	pending := dedupe(ids)
	if c.cache != nil {
		remaining := pending[:0]
		for _, id := range pending {
			if addr, ok := c.cache.Get(id); ok {
				result.Found[id] = addr
			} else {
				remaining = append(remaining, id)
			}
		}
		pending = remaining
	}

	for _, addrType := range addrTypes {
		if len(pending) == 0 {
			break
		}

		found, missing, err := c.fetchType(ctx, pending, addrType)
		if err != nil {
			return nil, err
		}

		for id, addr := range found {
			result.Found[id] = addr
			if c.cache != nil {
				c.cache.Put(id, addr)
			}
		}
		pending = missing
	}

	result.Missing = pending

	c.logger.Debug().
		Int("requested", len(ids)).
		Int("found", len(result.Found)).
		Int("missing", len(result.Missing)).
		Msg("Bulk fetch finished")

	return result, nil
}

// fetchType resolves UUIDs against a single collection, chunking and
// fanning out when the set exceeds the chunk size.
func (c *Client) fetchType(ctx context.Context, ids []uuid.UUID, addrType AddressType) (map[uuid.UUID]Address, []uuid.UUID, error) {
	if len(ids) <= c.chunkSize {
		return c.fetchChunk(ctx, ids, addrType)
	}

	found := make(map[uuid.UUID]Address, len(ids))
	var missing []uuid.UUID
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for start := 0; start < len(ids); start += c.chunkSize {
		chunk := ids[start:min(start+c.chunkSize, len(ids))]
		g.Go(func() error {
			chunkFound, chunkMissing, err := c.fetchChunk(ctx, chunk, addrType)
			if err != nil {
				return err
			}

			mu.Lock()
			for id, addr := range chunkFound {
				found[id] = addr
			}
			missing = append(missing, chunkMissing...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return found, missing, nil
}

// fetchChunk resolves up to one chunk of UUIDs with a single request.
func (c *Client) fetchChunk(ctx context.Context, ids []uuid.UUID, addrType AddressType) (map[uuid.UUID]Address, []uuid.UUID, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]Address{}, nil, nil
	}

	idParam := make([]string, len(ids))
	for i, id := range ids {
		idParam[i] = id.String()
	}

	endpoint := "/" + addrType.String()
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"id":       strings.Join(idParam, "|"),
			"struktur": "mini",
			"noformat": "1",
		}).
		Get(endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("bulk fetch from %s: %w", addrType, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, nil, &APIError{
			StatusCode: resp.StatusCode(),
			Endpoint:   endpoint,
			Body:       resp.String(),
		}
	}

	var addrs []Address
	if err := json.Unmarshal(resp.Body(), &addrs); err != nil {
		return nil, nil, fmt.Errorf("failed to parse DAR bulk reply: %w", err)
	}

	found := make(map[uuid.UUID]Address, len(addrs))
	for _, addr := range addrs {
		found[addr.ID] = addr
	}

	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}

	c.logger.Debug().
		Str("type", addrType.String()).
		Int("requested", len(ids)).
		Int("found", len(found)).
		Msg("Fetched chunk")

	return found, missing, nil
}

// dedupe returns the UUIDs with duplicates removed, order preserved.
func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
