package filter_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swilhoit/sunbeam/internal/catalog"
	"github.com/swilhoit/sunbeam/internal/filter"
)

func TestParseValues(t *testing.T) {
	v, err := url.ParseQuery("categories=Sofas,Desks&rooms=Living+Room&styles=Mid+Century&width=24-36,72%2B" +
		"&minPrice=100&maxPrice=2500.5&search=+walnut+&sort=price-high&limit=10")
	require.NoError(t, err)

	spec, err := filter.ParseValues(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sofas", "Desks"}, spec.Categories)
	assert.Equal(t, []catalog.Room{catalog.RoomLivingRoom}, spec.Rooms)
	assert.Equal(t, []catalog.Style{catalog.StyleMidCentury}, spec.Styles)
	assert.Equal(t, []filter.Bucket{filter.Bucket24To36, filter.Bucket72Plus}, spec.Widths)
	assert.Nil(t, spec.Depths)
	require.NotNil(t, spec.MinPrice)
	assert.Equal(t, 100.0, *spec.MinPrice)
	assert.Equal(t, 2500.5, *spec.MaxPrice)
	assert.Equal(t, "walnut", spec.Query)
	assert.Equal(t, filter.SortPriceDesc, spec.Sort)
	assert.Equal(t, 10, spec.Limit)
}

func TestParseValues_Empty(t *testing.T) {
	spec, err := filter.ParseValues(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, filter.Spec{}, spec)
}

func TestParseValues_Invalid(t *testing.T) {
	bad := []string{
		"rooms=Attic",
		"styles=Baroque",
		"height=1-2",
		"minPrice=cheap",
		"minPrice=NaN",
		"maxPrice=nan",
		"sort=relevance",
		"limit=-1",
	}
	for _, raw := range bad {
		v, err := url.ParseQuery(raw)
		require.NoError(t, err)
		_, err = filter.ParseValues(v)
		assert.Error(t, err, raw)
	}
}

func TestValuesRoundTrip(t *testing.T) {
	spec := filter.Spec{
		Categories: []string{"Sofas", "Bar Stools"},
		Rooms:      []catalog.Room{catalog.RoomDiningRoom, catalog.RoomOutdoor},
		Styles:     []catalog.Style{catalog.StyleArtDeco},
		Heights:    []filter.Bucket{filter.BucketUnder24},
		MinPrice:   ptr(50),
		Query:      "brass",
		Sort:       filter.SortName,
	}

	v := spec.Values()
	assert.Equal(t, []string{"Sofas", "Bar Stools"}, v[filter.KeyCategories])
	assert.Equal(t, "name", v.Get(filter.KeySort))
	assert.False(t, v.Has(filter.KeyMaxPrice))

	back, err := filter.ParseValues(v)
	require.NoError(t, err)
	assert.Equal(t, spec, back)
}

func TestValues_DefaultsOmitted(t *testing.T) {
	assert.Empty(t, filter.Spec{}.Values().Encode())
}

func TestValuesRoundTrip_CategoryWithComma(t *testing.T) {
	spec := filter.Spec{Categories: []string{"Trays, Bowls & Objects", "Rugs"}}

	back, err := filter.ParseValues(spec.Values())
	require.NoError(t, err)
	assert.Equal(t, spec.Categories, back.Categories)
}

func TestParseValues_CategoryCommas(t *testing.T) {
	v, err := url.ParseQuery("categories=Sofas,Trays,+Bowls+%26+Objects,,Rugs&categories=Desks")
	require.NoError(t, err)

	spec, err := filter.ParseValues(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sofas", "Trays, Bowls & Objects", "Rugs", "Desks"}, spec.Categories)
}
