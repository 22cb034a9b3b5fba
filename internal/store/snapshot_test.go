package store_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swilhoit/sunbeam/internal/catalog"
	"github.com/swilhoit/sunbeam/internal/enrich"
	"github.com/swilhoit/sunbeam/internal/store"
)

func TestSnapshotRoundTrip(t *testing.T) {
	compareAt := 500.0
	products := []catalog.EnrichedProduct{{
		RawProduct: catalog.RawProduct{
			ID:             42,
			Title:          "Walnut & Brass Credenza",
			Handle:         "walnut-credenza",
			Tags:           []string{"Living Room"},
			Price:          400,
			CompareAtPrice: &compareAt,
			Variants:       []catalog.Variant{{ID: 1, Price: 400, Available: true, Options: map[string]string{"Title": "Default"}}},
		},
		NormalizedCategory: "Media Consoles",
		Rooms:              []catalog.Room{catalog.RoomLivingRoom},
		Era:                catalog.Era1960s,
		Materials:          []string{"Walnut", "Brass"},
		Dimensions:         &catalog.Dimensions{Width: catalog.Inches(72), Height: catalog.Inches(30)},
		IsOnSale:           true,
	}}

	var buf bytes.Buffer
	require.NoError(t, store.WriteSnapshot(&buf, products))
	assert.True(t, strings.HasPrefix(buf.String(), "[\n  {\n    \"id\": 42,"))
	assert.Contains(t, buf.String(), `"style": null`)
	assert.Contains(t, buf.String(), "Walnut & Brass")

	back, err := store.ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.Equal(t, products, back)
}

func TestWriteSnapshot_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, store.WriteSnapshot(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestReadSnapshot_RejectsUnknownEnum(t *testing.T) {
	_, err := store.ReadSnapshot(strings.NewReader(`[{"id":1,"handle":"a","style":"Baroque"}]`))
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "products.json")
	products := []catalog.EnrichedProduct{
		product("velvet-sofa", "Sofas", "Sofas & Couches", catalog.StyleModern),
	}
	require.NoError(t, store.Save(path, products))

	c, err := store.Load(path)
	require.NoError(t, err)
	p, ok := c.ByHandle("velvet-sofa")
	require.True(t, ok)
	assert.Equal(t, catalog.StyleModern, p.Style)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestLoad_Missing(t *testing.T) {
	_, err := store.Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveRaw_ReadableByIngest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw", "products-raw.json")
	raws := []catalog.RawProduct{
		{ID: 1, Handle: "teak-chair", Title: "Teak Chair", Tags: []string{"Office"}, Price: 120},
		{ID: 2, Handle: "oak-desk", Title: "Oak Desk", Price: 300},
	}
	require.NoError(t, store.SaveRaw(path, raws))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	decoded, rejected, err := enrich.DecodeRaw(f)
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, decoded, 2)
	assert.Equal(t, "teak-chair", decoded[0].Handle)
	assert.Equal(t, []string{"Office"}, decoded[0].Tags)
}

func TestSaveRaw_NilIsEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.json")
	require.NoError(t, store.SaveRaw(path, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}
