package catalog

import (
	"encoding/json"
	"fmt"
)

// Room is a room a piece is tagged for. The zero value is not a room.
type Room uint8

const (
	RoomLivingRoom Room = iota + 1
	RoomBedroom
	RoomDiningRoom
	RoomOffice
	RoomEntryway
	RoomBathroom
	RoomOutdoor
)

var roomLabels = [...]string{"", "Living Room", "Bedroom", "Dining Room", "Office", "Entryway", "Bathroom", "Outdoor"}

// Style is a design style. StyleNone means no style was identified.
type Style uint8

const (
	StyleNone Style = iota
	StyleVintage
	StyleModern
	StyleMidCentury
	StyleContemporary
	StyleArtDeco
	StyleBohemian
	StyleIndustrial
	StyleMinimalist
)

var styleLabels = [...]string{"", "Vintage", "Modern", "Mid Century", "Contemporary", "Art Deco", "Bohemian", "Industrial", "Minimalist"}

// Condition is the stated condition of a piece.
type Condition uint8

const (
	ConditionNone Condition = iota
	ConditionExcellent
	ConditionGood
	ConditionFair
	ConditionAsFound
)

var conditionLabels = [...]string{"", "Excellent", "Good", "Fair", "As-Found"}

// Era is the decade a piece dates from.
type Era uint8

const (
	EraNone Era = iota
	Era1940s
	Era1950s
	Era1960s
	Era1970s
	Era1980s
	Era1990s
	Era2000s
	Era2010s
	EraContemporary
)

var eraLabels = [...]string{"", "1940s", "1950s", "1960s", "1970s", "1980s", "1990s", "2000s", "2010s", "Contemporary"}

// Size is a coarse size class derived from dimensions.
type Size uint8

const (
	SizeNone Size = iota
	SizeSmall
	SizeMedium
	SizeLarge
	SizeExtraLarge
)

var sizeLabels = [...]string{"", "Small", "Medium", "Large", "Extra Large"}

// AllRooms returns every room in declaration order.
func AllRooms() []Room { return members[Room](len(roomLabels)) }

// AllStyles returns every style in declaration order.
func AllStyles() []Style { return members[Style](len(styleLabels)) }

// AllConditions returns every condition in declaration order.
func AllConditions() []Condition { return members[Condition](len(conditionLabels)) }

// AllEras returns every era in declaration order.
func AllEras() []Era { return members[Era](len(eraLabels)) }

func (r Room) String() string      { return label(roomLabels[:], r) }
func (s Style) String() string     { return label(styleLabels[:], s) }
func (c Condition) String() string { return label(conditionLabels[:], c) }
func (e Era) String() string       { return label(eraLabels[:], e) }
func (s Size) String() string      { return label(sizeLabels[:], s) }

// ParseRoom returns the room with the exact label s.
func ParseRoom(s string) (Room, bool) { return lookup[Room](roomLabels[:], s) }

// ParseStyle returns the style with the exact label s.
func ParseStyle(s string) (Style, bool) { return lookup[Style](styleLabels[:], s) }

// ParseCondition returns the condition with the exact label s.
func ParseCondition(s string) (Condition, bool) { return lookup[Condition](conditionLabels[:], s) }

// ParseEra returns the era with the exact label s.
func ParseEra(s string) (Era, bool) { return lookup[Era](eraLabels[:], s) }

func (r Room) MarshalJSON() ([]byte, error) {
	if r.String() == "" {
		return nil, fmt.Errorf("invalid room %d", r)
	}
	return json.Marshal(r.String())
}

func (r *Room) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("room: %w", err)
	}
	v, ok := ParseRoom(s)
	if !ok {
		return fmt.Errorf("unknown room %q", s)
	}
	*r = v
	return nil
}

func (s Style) MarshalJSON() ([]byte, error)     { return marshalNullable(s.String()) }
func (c Condition) MarshalJSON() ([]byte, error) { return marshalNullable(c.String()) }
func (e Era) MarshalJSON() ([]byte, error)       { return marshalNullable(e.String()) }
func (s Size) MarshalJSON() ([]byte, error)      { return marshalNullable(s.String()) }

func (s *Style) UnmarshalJSON(data []byte) error {
	return unmarshalNullable(data, "style", styleLabels[:], s)
}

func (c *Condition) UnmarshalJSON(data []byte) error {
	return unmarshalNullable(data, "condition", conditionLabels[:], c)
}

func (e *Era) UnmarshalJSON(data []byte) error {
	return unmarshalNullable(data, "era", eraLabels[:], e)
}

func label[T ~uint8](labels []string, v T) string {
	if int(v) >= len(labels) {
		return ""
	}
	return labels[v]
}

func lookup[T ~uint8](labels []string, s string) (T, bool) {
	if s == "" {
		return 0, false
	}
	for i, l := range labels {
		if l == s {
			return T(i), true
		}
	}
	return 0, false
}

func members[T ~uint8](n int) []T {
	out := make([]T, 0, n-1)
	for i := 1; i < n; i++ {
		out = append(out, T(i))
	}
	return out
}

func marshalNullable(s string) ([]byte, error) {
	if s == "" {
		return []byte("null"), nil
	}
	return json.Marshal(s)
}

func unmarshalNullable[T ~uint8](data []byte, kind string, labels []string, dst *T) error {
	if string(data) == "null" {
		*dst = 0
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	v, ok := lookup[T](labels, s)
	if !ok {
		return fmt.Errorf("unknown %s %q", kind, s)
	}
	*dst = v
	return nil
}
