package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swilhoit/sunbeam/internal/api"
	"github.com/swilhoit/sunbeam/internal/metrics"
)

func ptr(s string) *string { return &s }

func makeProducts(start, n int) []api.Product {
	out := make([]api.Product, n)
	for i := range out {
		id := start + i
		out[i] = api.Product{
			ID:     int64(id),
			Handle: fmt.Sprintf("item-%d", id),
			Title:  fmt.Sprintf("Item %d", id),
		}
	}
	return out
}

func newTestProductsServer(t *testing.T, pages [][]api.Product, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/products.json", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		assert.NoError(t, err)
		assert.NotEmpty(t, r.URL.Query().Get("limit"))

		var products []api.Product
		if page >= 1 && page <= len(pages) {
			products = pages[page-1]
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(api.ProductsResponse{Products: products})
	}))
}

func TestFetchAllProducts_StopsOnShortPage(t *testing.T) {
	var hits atomic.Int32
	srv := newTestProductsServer(t, [][]api.Product{makeProducts(1, 2), makeProducts(3, 1)}, &hits)
	defer srv.Close()

	client := api.NewClient(api.Options{BaseURL: srv.URL, PageSize: 2})
	products, err := client.FetchAllProducts(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "item-1", products[0].Handle)
	assert.Equal(t, "item-3", products[2].Handle)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchAllProducts_StopsOnEmptyPage(t *testing.T) {
	var hits atomic.Int32
	srv := newTestProductsServer(t, [][]api.Product{makeProducts(1, 2), makeProducts(3, 2)}, &hits)
	defer srv.Close()

	client := api.NewClient(api.Options{BaseURL: srv.URL, PageSize: 2})
	products, err := client.FetchAllProducts(context.Background(), 0)

	require.NoError(t, err)
	assert.Len(t, products, 4)
	assert.Equal(t, int32(3), hits.Load())
}

func TestFetchAllProducts_Limit(t *testing.T) {
	var hits atomic.Int32
	srv := newTestProductsServer(t, [][]api.Product{makeProducts(1, 2), makeProducts(3, 2), makeProducts(5, 2)}, &hits)
	defer srv.Close()

	client := api.NewClient(api.Options{BaseURL: srv.URL, PageSize: 2})
	products, err := client.FetchAllProducts(context.Background(), 3)

	require.NoError(t, err)
	assert.Len(t, products, 3)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchAllProducts_EmptyStore(t *testing.T) {
	var hits atomic.Int32
	srv := newTestProductsServer(t, nil, &hits)
	defer srv.Close()

	client := api.NewClient(api.Options{BaseURL: srv.URL})
	products, err := client.FetchAllProducts(context.Background(), 0)

	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestFetchAllProducts_CanceledDuringPageDelay(t *testing.T) {
	var hits atomic.Int32
	srv := newTestProductsServer(t, [][]api.Product{makeProducts(1, 2), makeProducts(3, 2)}, &hits)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := api.NewClient(api.Options{BaseURL: srv.URL, PageSize: 2, PageDelay: time.Hour})
	_, err := client.FetchAllProducts(ctx, 0)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchPage_RetriesTransientFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(api.ProductsResponse{Products: makeProducts(1, 1)})
	}))
	defer srv.Close()

	m := metrics.New()
	client := api.NewClient(api.Options{BaseURL: srv.URL, MaxAttempts: 3, RetryWait: time.Millisecond, Metrics: m})
	products, err := client.FetchPage(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, int32(3), hits.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PagesFetched.WithLabelValues("ok")))
}

func TestFetchPage_ServerError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := api.NewClient(api.Options{BaseURL: srv.URL, MaxAttempts: 3, RetryWait: time.Millisecond})
	_, err := client.FetchPage(context.Background(), 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Equal(t, int32(3), hits.Load())

	var pageErr *api.PageError
	require.ErrorAs(t, err, &pageErr)
	assert.Equal(t, 1, pageErr.Page)
}

func TestFetchPage_NotFoundIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := api.NewClient(api.Options{BaseURL: srv.URL, RetryWait: time.Millisecond})
	_, err := client.FetchPage(context.Background(), 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchPage_TrailingContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"products": []} {"products": []}`)
	}))
	defer srv.Close()

	client := api.NewClient(api.Options{BaseURL: srv.URL})
	_, err := client.FetchPage(context.Background(), 1)
	assert.ErrorContains(t, err, "trailing")
}
