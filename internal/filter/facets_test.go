package filter_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swilhoit/sunbeam/internal/catalog"
	"github.com/swilhoit/sunbeam/internal/filter"
)

func TestAvailableCategories(t *testing.T) {
	assert.Equal(t, []string{"Desks", "Rugs", "Sofas"}, filter.AvailableCategories(sampleProducts()))
	assert.Empty(t, filter.AvailableCategories(nil))
}

func TestAvailableRoomsAndStyles(t *testing.T) {
	ps := sampleProducts()
	assert.Equal(t, []catalog.Room{catalog.RoomLivingRoom, catalog.RoomBedroom, catalog.RoomOffice}, filter.AvailableRooms(ps))
	assert.Equal(t, []catalog.Style{catalog.StyleVintage, catalog.StyleModern, catalog.StyleMidCentury}, filter.AvailableStyles(ps))
}

func TestAvailableDimensionRanges(t *testing.T) {
	ranges := filter.AvailableDimensionRanges(sampleProducts())
	assert.Equal(t, []filter.Bucket{filter.Bucket48To60, filter.Bucket72Plus}, ranges.Width)
	assert.Equal(t, []filter.Bucket{filter.Bucket24To36, filter.Bucket36To48}, ranges.Depth)
	assert.Equal(t, []filter.Bucket{filter.Bucket24To36}, ranges.Height)
}

func TestFacetsIgnoreCurrentSelection(t *testing.T) {
	all := sampleProducts()
	narrowed := filter.Apply(all, filter.Spec{Categories: []string{"Rugs"}})
	require.Len(t, narrowed, 1)

	facets := filter.Derive(all)
	assert.Len(t, facets.Categories, 3)
	assert.Equal(t, filter.PriceRange{Min: 300, Max: 1200}, facets.PriceRange)
}

func TestPriceRangeOf(t *testing.T) {
	ps := []catalog.EnrichedProduct{
		product("a", "A", "X", 19.99),
		product("b", "B", "X", 450.5),
		product("c", "C", "X", 120),
	}
	assert.Equal(t, filter.PriceRange{Min: 19, Max: 451}, filter.PriceRangeOf(ps))
	assert.Equal(t, filter.DefaultPriceRange, filter.PriceRangeOf(nil))
	assert.Equal(t, filter.PriceRange{Min: 0, Max: 10000}, filter.PriceRangeOf([]catalog.EnrichedProduct{}))
}

func TestBucketBounds(t *testing.T) {
	assert.True(t, filter.BucketUnder24.Contains(0))
	assert.False(t, filter.BucketUnder24.Contains(24))
	assert.True(t, filter.Bucket24To36.Contains(24))
	assert.True(t, filter.Bucket72Plus.Contains(500))
	assert.False(t, filter.Bucket(0).Contains(1))
	assert.False(t, filter.Bucket(99).Contains(1))

	b, ok := filter.ParseBucket("72+")
	require.True(t, ok)
	assert.Equal(t, filter.Bucket72Plus, b)
	_, ok = filter.ParseBucket("10-20")
	assert.False(t, ok)
}

func TestFacetsJSON(t *testing.T) {
	out, err := json.Marshal(filter.Derive(sampleProducts()))
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(out, &generic))
	assert.Equal(t, []any{"Living Room", "Bedroom", "Office"}, generic["availableRooms"])

	ranges := generic["availableDimensionRanges"].(map[string]any)
	width := ranges["width"].([]any)
	require.Len(t, width, 2)
	assert.Equal(t, map[string]any{"key": "48-60", "label": `48-60"`, "min": 48.0, "max": 60.0}, width[0])
	assert.Equal(t, map[string]any{"key": "72+", "label": `72"+`, "min": 72.0}, width[1])
}
