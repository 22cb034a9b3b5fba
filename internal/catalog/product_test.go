package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swilhoit/sunbeam/internal/catalog"
)

func TestQueryMatch(t *testing.T) {
	p := catalog.EnrichedProduct{
		RawProduct: catalog.RawProduct{
			Title:       "Lounge Chair",
			Description: "Restored frame.",
			Vendor:      "Sunbeam Vintage",
			ProductType: "Accent & Arm Chairs",
			Tags:        []string{"Living Room"},
		},
		NormalizedCategory: "Accent Chairs",
		Materials:          []string{"Walnut"},
	}

	tests := []struct {
		query string
		want  bool
	}{
		{"WALNUT", true},
		{"lounge", true},
		{"restored", true},
		{"sunbeam", true},
		{"arm chairs", true},
		{"accent chairs", true},
		{"living", true},
		{"  walnut  ", true},
		{"teak", false},
		{"", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, catalog.NewQuery(tt.query).Match(p), "query %q", tt.query)
	}
	assert.True(t, catalog.NewQuery("   ").Empty())
}

func TestInCategoryAndHasRoom(t *testing.T) {
	p := catalog.EnrichedProduct{
		RawProduct:         catalog.RawProduct{ProductType: "Sofas & Couches"},
		NormalizedCategory: "Sofas",
		Rooms:              []catalog.Room{catalog.RoomLivingRoom},
	}
	assert.True(t, p.InCategory("sofas"))
	assert.True(t, p.InCategory("SOFAS & COUCHES"))
	assert.False(t, p.InCategory("Desks"))
	assert.True(t, p.HasRoom(catalog.RoomLivingRoom))
	assert.False(t, p.HasRoom(catalog.RoomBedroom))
}

func TestDimensionsSize(t *testing.T) {
	in := catalog.Inches
	tests := []struct {
		name string
		dims *catalog.Dimensions
		want catalog.Size
	}{
		{"nil", nil, catalog.SizeNone},
		{"seat height only", &catalog.Dimensions{SeatHeight: in(18)}, catalog.SizeNone},
		{"small", &catalog.Dimensions{Width: in(20), Height: in(23.5)}, catalog.SizeSmall},
		{"medium", &catalog.Dimensions{Width: in(24)}, catalog.SizeMedium},
		{"large by diameter", &catalog.Dimensions{Diameter: in(60)}, catalog.SizeLarge},
		{"extra large", &catalog.Dimensions{Width: in(84), Depth: in(36), Height: in(30)}, catalog.SizeExtraLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dims.Size())
		})
	}
}

func TestEnrichedProductJSONShape(t *testing.T) {
	p := catalog.EnrichedProduct{
		RawProduct: catalog.RawProduct{
			ID:     7,
			Handle: "teak-desk",
			Tags:   []string{},
			Images: []catalog.Image{{Original: "https://cdn.example/desk.jpg", Width: 800, Height: 600}},
		},
		NormalizedCategory: "Desks",
		Rooms:              []catalog.Room{catalog.RoomOffice},
		Materials:          []string{"Teak"},
		Dimensions:         &catalog.Dimensions{Width: catalog.Inches(48)},
	}

	out, err := json.Marshal(p)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(out, &generic))
	assert.Equal(t, "teak-desk", generic["handle"])
	assert.Equal(t, []any{"Office"}, generic["rooms"])
	assert.Nil(t, generic["style"])
	assert.Contains(t, generic, "compareAtPrice")
	assert.Equal(t, map[string]any{"width": 48.0}, generic["dimensions"])

	var back catalog.EnrichedProduct
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, p, back)
}
