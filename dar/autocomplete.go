package dar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// AutocompleteOptions narrows an autocomplete query.
type AutocompleteOptions struct {
	// MunicipalityCode restricts suggestions to one municipality ("0101"
	// for Copenhagen). Empty means no restriction.
	MunicipalityCode string
	// PerPage caps the number of suggestions. Zero means the server default.
	PerPage int
	// Type restricts the suggestion kind: "adresse", "adgangsadresse" or
	// "vejnavn". Empty lets the server pick.
	Type string
}

// Autocomplete returns address suggestions for a partial query string.
func (c *Client) Autocomplete(ctx context.Context, query string, opts AutocompleteOptions) ([]AutocompleteItem, error) {
	params := map[string]string{
		"q":        query,
		"noformat": "1",
	}
	if opts.MunicipalityCode != "" {
		params["kommunekode"] = opts.MunicipalityCode
	}
	if opts.PerPage > 0 {
		params["per_side"] = strconv.Itoa(opts.PerPage)
	}
	if opts.Type != "" {
		params["type"] = opts.Type
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/autocomplete")
	if err != nil {
		return nil, fmt.Errorf("autocomplete %q: %w", query, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode(),
			Endpoint:   "/autocomplete",
			Body:       resp.String(),
		}
	}

	var items []AutocompleteItem
	if err := json.Unmarshal(resp.Body(), &items); err != nil {
		return nil, fmt.Errorf("failed to parse autocomplete reply: %w", err)
	}

	c.logger.Debug().
		Str("query", query).
		Int("count", len(items)).
		Msg("Autocomplete finished")

	return items, nil
}
