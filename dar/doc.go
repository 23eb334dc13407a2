// Package dar provides a client for DAR, the Danish address registry
// served by the DAWA API at https://api.dataforsyningen.dk.
//
// # Usage
//
// Create a client and resolve addresses by their DAR UUID:
//
//	client := dar.New(
//		dar.WithTimeout(10*time.Second),
//		dar.WithLogger(logger),
//	)
//
//	ctx := context.Background()
//	addr, err := client.Lookup(ctx, id)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Bulk resolution chunks the UUID set and fetches chunks concurrently:
//
//	result, err := client.Fetch(ctx, ids)
//	// result.Found maps UUID to address, result.Missing lists the rest.
//
// Lookups walk the address collections in order (current addresses, access
// addresses, then their historic counterparts) and stop at the first hit,
// so a UUID that was ever valid still resolves.
//
// # Error Handling
//
// Operations return ErrNotFound when a UUID exists in no collection, and
// *APIError for unexpected DAR responses:
//
//	var apiErr *dar.APIError
//	if errors.As(err, &apiErr) && apiErr.IsServerError() {
//		// DAR is having a bad day
//	}
//
// Transient failures (5xx responses and transport errors) are retried with
// exponential backoff before an error is reported.
package dar
