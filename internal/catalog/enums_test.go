package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swilhoit/sunbeam/internal/catalog"
)

func TestParseRoom(t *testing.T) {
	r, ok := catalog.ParseRoom("Living Room")
	require.True(t, ok)
	assert.Equal(t, catalog.RoomLivingRoom, r)

	_, ok = catalog.ParseRoom("living room")
	assert.False(t, ok, "room labels are case-sensitive")
	_, ok = catalog.ParseRoom("")
	assert.False(t, ok)
}

func TestAllMembersRoundTripThroughLabels(t *testing.T) {
	for _, r := range catalog.AllRooms() {
		got, ok := catalog.ParseRoom(r.String())
		assert.True(t, ok)
		assert.Equal(t, r, got)
	}
	for _, s := range catalog.AllStyles() {
		got, ok := catalog.ParseStyle(s.String())
		assert.True(t, ok)
		assert.Equal(t, s, got)
	}
	for _, e := range catalog.AllEras() {
		got, ok := catalog.ParseEra(e.String())
		assert.True(t, ok)
		assert.Equal(t, e, got)
	}
	assert.Len(t, catalog.AllRooms(), 7)
	assert.Len(t, catalog.AllStyles(), 8)
	assert.Len(t, catalog.AllConditions(), 4)
	assert.Len(t, catalog.AllEras(), 9)
}

func TestNullableEnumJSON(t *testing.T) {
	type doc struct {
		Style     catalog.Style     `json:"style"`
		Condition catalog.Condition `json:"condition"`
		Era       catalog.Era       `json:"era"`
	}

	out, err := json.Marshal(doc{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"style":null,"condition":null,"era":null}`, string(out))

	out, err = json.Marshal(doc{Style: catalog.StyleMidCentury, Condition: catalog.ConditionAsFound, Era: catalog.Era1970s})
	require.NoError(t, err)
	assert.JSONEq(t, `{"style":"Mid Century","condition":"As-Found","era":"1970s"}`, string(out))

	var back doc
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, catalog.StyleMidCentury, back.Style)
	assert.Equal(t, catalog.ConditionAsFound, back.Condition)
	assert.Equal(t, catalog.Era1970s, back.Era)
}

func TestUnknownEnumLabelsAreRejected(t *testing.T) {
	var s catalog.Style
	assert.Error(t, json.Unmarshal([]byte(`"Baroque"`), &s))

	var rooms []catalog.Room
	assert.Error(t, json.Unmarshal([]byte(`["Living Room","Attic"]`), &rooms))
	assert.Error(t, json.Unmarshal([]byte(`[null]`), &rooms))
}
