package dar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient creates a client against the given server with retries and
// caching off unless the options say otherwise.
func testClient(serverURL string, opts ...Option) *Client {
	base := []Option{
		WithBaseURL(serverURL),
		WithRetry(0, time.Millisecond, time.Millisecond),
		WithCacheSize(0),
		WithLogger(zerolog.Nop()),
	}
	return New(append(base, opts...)...)
}

func miniAddressJSON(id uuid.UUID) string {
	return fmt.Sprintf(`{
		"id": %q,
		"status": 1,
		"vejnavn": "Åbogade",
		"husnr": "15",
		"postnr": "8200",
		"postnrnavn": "Aarhus N",
		"kommunekode": "0751",
		"x": 10.21,
		"y": 56.17,
		"betegnelse": "Åbogade 15, 8200 Aarhus N"
	}`, id)
}

func TestNewDefaults(t *testing.T) {
	client := New()

	assert.Equal(t, DefaultBaseURL, client.BaseURL())
	assert.Equal(t, DefaultChunkSize, client.chunkSize)
	assert.Equal(t, DefaultConcurrency, client.concurrency)
	assert.NotNil(t, client.cache)
}

func TestNewOptions(t *testing.T) {
	t.Run("base url trailing slash trimmed", func(t *testing.T) {
		client := New(WithBaseURL("http://localhost:8080/"))
		assert.Equal(t, "http://localhost:8080", client.BaseURL())
	})

	t.Run("cache disabled", func(t *testing.T) {
		client := New(WithCacheSize(0))
		assert.Nil(t, client.cache)
	})

	t.Run("chunk size and concurrency", func(t *testing.T) {
		client := New(WithChunkSize(20), WithConcurrency(3))
		assert.Equal(t, 20, client.chunkSize)
		assert.Equal(t, 3, client.concurrency)
	})

	t.Run("invalid values keep defaults", func(t *testing.T) {
		client := New(WithChunkSize(0), WithConcurrency(-1))
		assert.Equal(t, DefaultChunkSize, client.chunkSize)
		assert.Equal(t, DefaultConcurrency, client.concurrency)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/autocomplete", r.URL.Path)
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := testClient(server.URL)
		assert.True(t, client.Healthcheck(context.Background()))
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := testClient(server.URL)
		assert.False(t, client.Healthcheck(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := testClient(server.URL)
		assert.False(t, client.Healthcheck(context.Background()))
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		client := testClient(server.URL, WithTimeout(20*time.Millisecond))
		assert.False(t, client.Healthcheck(context.Background()))
	})
}

func TestLookup(t *testing.T) {
	id := uuid.MustParse("0a3f50c4-379f-32b8-e044-0003ba298018")

	t.Run("found on first type", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/adresser/"+id.String(), r.URL.Path)
			assert.Equal(t, "mini", r.URL.Query().Get("struktur"))
			assert.Equal(t, "1", r.URL.Query().Get("noformat"))
			w.Write([]byte(miniAddressJSON(id)))
		}))
		defer server.Close()

		client := testClient(server.URL)
		addr, err := client.Lookup(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, addr.ID)
		assert.Equal(t, "Åbogade", addr.RoadName)
		assert.Equal(t, "8200", addr.PostalCode)
	})

	t.Run("404 falls through to next type", func(t *testing.T) {
		var paths []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			if r.URL.Path == "/adgangsadresser/"+id.String() {
				w.Write([]byte(miniAddressJSON(id)))
				return
			}
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := testClient(server.URL)
		addr, err := client.Lookup(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, addr.ID)
		assert.Equal(t, []string{
			"/adresser/" + id.String(),
			"/adgangsadresser/" + id.String(),
		}, paths)
	})

	t.Run("not found anywhere", func(t *testing.T) {
		var requests int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requests, 1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := testClient(server.URL)
		_, err := client.Lookup(context.Background(), id)
		require.ErrorIs(t, err, ErrNotFound)
		assert.EqualValues(t, len(AllAddressTypes), atomic.LoadInt32(&requests))
	})

	t.Run("server error aborts immediately", func(t *testing.T) {
		var requests int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requests, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := testClient(server.URL)
		_, err := client.Lookup(context.Background(), id)
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.True(t, apiErr.IsServerError())
		assert.EqualValues(t, 1, atomic.LoadInt32(&requests))
	})

	t.Run("explicit type not found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/historik/adresser/"+id.String(), r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := testClient(server.URL)
		_, err := client.Lookup(context.Background(), id, TypeHistoricAddress)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLookupCache(t *testing.T) {
	id := uuid.MustParse("0a3f50c4-379f-32b8-e044-0003ba298018")

	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write([]byte(miniAddressJSON(id)))
	}))
	defer server.Close()

	client := testClient(server.URL, WithCacheSize(16))

	first, err := client.Lookup(context.Background(), id)
	require.NoError(t, err)

	second, err := client.Lookup(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&requests))
}

func TestRetryOnServerError(t *testing.T) {
	id := uuid.MustParse("0a3f50c4-379f-32b8-e044-0003ba298018")

	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(miniAddressJSON(id)))
	}))
	defer server.Close()

	client := New(
		WithBaseURL(server.URL),
		WithRetry(3, time.Millisecond, 5*time.Millisecond),
		WithCacheSize(0),
	)

	addr, err := client.Lookup(context.Background(), id, TypeAddress)
	require.NoError(t, err)
	assert.Equal(t, id, addr.ID)
	assert.EqualValues(t, 3, atomic.LoadInt32(&requests))
}

func TestRetryNotOn404(t *testing.T) {
	id := uuid.New()

	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(
		WithBaseURL(server.URL),
		WithRetry(3, time.Millisecond, 5*time.Millisecond),
		WithCacheSize(0),
	)

	_, err := client.Lookup(context.Background(), id, TypeAddress)
	require.ErrorIs(t, err, ErrNotFound)
	assert.EqualValues(t, 1, atomic.LoadInt32(&requests))
}
