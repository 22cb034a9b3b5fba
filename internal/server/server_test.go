package server_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swilhoit/sunbeam/internal/catalog"
	"github.com/swilhoit/sunbeam/internal/metrics"
	"github.com/swilhoit/sunbeam/internal/server"
	"github.com/swilhoit/sunbeam/internal/store"
	"go.uber.org/zap"
)

func init() { gin.SetMode(gin.TestMode) }

func product(handle, category string, price float64, style catalog.Style) catalog.EnrichedProduct {
	return catalog.EnrichedProduct{
		RawProduct: catalog.RawProduct{
			ID:          int64(len(handle)),
			Title:       handle,
			Handle:      handle,
			ProductType: category,
			Price:       price,
			Tags:        []string{},
		},
		NormalizedCategory: category,
		Rooms:              []catalog.Room{catalog.RoomLivingRoom},
		Style:              style,
		Materials:          []string{},
	}
}

func fixture() []catalog.EnrichedProduct {
	return []catalog.EnrichedProduct{
		product("teak-sofa", "Sofas", 1200, catalog.StyleMidCentury),
		product("velvet-sofa", "Sofas", 800, catalog.StyleModern),
		product("oak-table", "Tables", 450, catalog.StyleNone),
		product("brass-lamp", "Lighting", 95, catalog.StyleMidCentury),
	}
}

func newServer(t *testing.T) (*server.Server, *store.Holder, *metrics.Metrics) {
	t.Helper()
	holder := store.NewHolder(store.New(fixture()))
	m := metrics.New()
	return server.New(holder, zap.NewNop(), m), holder, m
}

func get(t *testing.T, s *server.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) server.ProductsResponse {
	t.Helper()
	var resp server.ProductsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func handles(products []catalog.EnrichedProduct) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Handle
	}
	return out
}

func TestListProducts(t *testing.T) {
	s, _, _ := newServer(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all in catalog order", "/products", []string{"teak-sofa", "velvet-sofa", "oak-table", "brass-lamp"}},
		{"category", "/products?categories=Sofas", []string{"teak-sofa", "velvet-sofa"}},
		{"style", "/products?styles=Mid%20Century", []string{"teak-sofa", "brass-lamp"}},
		{"price range and sort", "/products?minPrice=100&maxPrice=900&sort=price-low", []string{"oak-table", "velvet-sofa"}},
		{"search", "/products?search=lamp", []string{"brass-lamp"}},
		{"limit", "/products?sort=price-high&limit=2", []string{"teak-sofa", "velvet-sofa"}},
		{"no match is empty", "/products?categories=Beds", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, s, tc.query)
			require.Equal(t, http.StatusOK, rec.Code)
			resp := decodeList(t, rec)
			assert.Equal(t, tc.want, handles(resp.Products))
			assert.Equal(t, len(tc.want), resp.Count)
			assert.Equal(t, 4, resp.Total)
		})
	}
}

func TestListProducts_InvalidParams(t *testing.T) {
	s, _, _ := newServer(t)
	for _, q := range []string{"rooms=Garage", "width=huge", "minPrice=cheap", "sort=random"} {
		rec := get(t, s, "/products?"+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Contains(t, rec.Body.String(), "error", q)
	}
}

func TestGetProduct(t *testing.T) {
	s, _, _ := newServer(t)

	rec := get(t, s, "/products/oak-table")
	require.Equal(t, http.StatusOK, rec.Code)
	var p map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "oak-table", p["handle"])
	assert.Nil(t, p["style"])

	rec = get(t, s, "/products/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"product not found","handle":"missing"}`, rec.Body.String())
}

func TestRelatedProducts(t *testing.T) {
	s, _, _ := newServer(t)

	rec := get(t, s, "/products/teak-sofa/related")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"velvet-sofa", "brass-lamp"}, handles(decodeList(t, rec).Products))

	rec = get(t, s, "/products/teak-sofa/related?limit=1")
	assert.Equal(t, []string{"velvet-sofa"}, handles(decodeList(t, rec).Products))

	rec = get(t, s, "/products/teak-sofa/related?limit=0")
	assert.Empty(t, decodeList(t, rec).Products)

	assert.Equal(t, http.StatusBadRequest, get(t, s, "/products/teak-sofa/related?limit=-1").Code)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/products/missing/related").Code)
}

func TestSearch(t *testing.T) {
	s, _, _ := newServer(t)

	rec := get(t, s, "/search?q=SOFA")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"teak-sofa", "velvet-sofa"}, handles(decodeList(t, rec).Products))

	rec = get(t, s, "/search?q=sofa&limit=1")
	assert.Equal(t, []string{"teak-sofa"}, handles(decodeList(t, rec).Products))

	rec = get(t, s, "/search?q=")
	resp := decodeList(t, rec)
	assert.NotNil(t, resp.Products)
	assert.Empty(t, resp.Products)
}

func TestFacets(t *testing.T) {
	s, _, _ := newServer(t)

	rec := get(t, s, "/facets?categories=Sofas")
	require.Equal(t, http.StatusOK, rec.Code)

	var f struct {
		Categories []string `json:"availableCategories"`
		Styles     []string `json:"availableStyles"`
		PriceRange struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"priceRange"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &f))
	assert.Equal(t, []string{"Lighting", "Sofas", "Tables"}, f.Categories)
	assert.Equal(t, []string{"Modern", "Mid Century"}, f.Styles)
	assert.Equal(t, 95.0, f.PriceRange.Min)
	assert.Equal(t, 1200.0, f.PriceRange.Max)
}

func TestHealthReflectsSwap(t *testing.T) {
	s, holder, _ := newServer(t)
	assert.JSONEq(t, `{"status":"ok","products":4}`, get(t, s, "/health").Body.String())

	holder.Swap(store.New(fixture()[:1]))
	assert.JSONEq(t, `{"status":"ok","products":1}`, get(t, s, "/health").Body.String())
	assert.Equal(t, http.StatusNotFound, get(t, s, "/products/oak-table").Code)
}

func TestRequestID(t *testing.T) {
	s, _, _ := newServer(t)

	rec := get(t, s, "/health")
	assert.Len(t, rec.Header().Get(server.RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(server.RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(server.RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	s, _, _ := newServer(t)
	get(t, s, "/products/missing")

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `sunbeam_http_requests_total{route="/products/:handle",status="404"} 1`)
}

func TestUnknownRoute(t *testing.T) {
	s, _, _ := newServer(t)
	rec := get(t, s, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"route not found"}`, rec.Body.String())
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	s, _, _ := newServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
