package filter

import (
	"encoding/json"
	"fmt"
	"math"
)

// Bucket is a fixed half-open size range in inches.
type Bucket uint8

const (
	BucketUnder24 Bucket = iota + 1
	Bucket24To36
	Bucket36To48
	Bucket48To60
	Bucket60To72
	Bucket72Plus
)

var bucketBounds = [...]struct {
	min, max   float64
	key, label string
}{
	{},
	{0, 24, "0-24", `Under 24"`},
	{24, 36, "24-36", `24-36"`},
	{36, 48, "36-48", `36-48"`},
	{48, 60, "48-60", `48-60"`},
	{60, 72, "60-72", `60-72"`},
	{72, math.Inf(1), "72+", `72"+`},
}

// AllBuckets returns every bucket in ascending order.
func AllBuckets() []Bucket {
	return []Bucket{BucketUnder24, Bucket24To36, Bucket36To48, Bucket48To60, Bucket60To72, Bucket72Plus}
}

func (b Bucket) valid() bool { return b >= BucketUnder24 && b <= Bucket72Plus }

func (b Bucket) bounds() (float64, float64) {
	if !b.valid() {
		return 0, 0
	}
	return bucketBounds[b].min, bucketBounds[b].max
}

// Min is the inclusive lower bound.
func (b Bucket) Min() float64 {
	lo, _ := b.bounds()
	return lo
}

// Max is the exclusive upper bound; the last bucket is unbounded.
func (b Bucket) Max() float64 {
	_, hi := b.bounds()
	return hi
}

// Contains reports whether v falls in [Min, Max).
func (b Bucket) Contains(v float64) bool {
	lo, hi := b.bounds()
	return b.valid() && v >= lo && v < hi
}

// Key is the stable identifier used in query strings and flags.
func (b Bucket) Key() string {
	if !b.valid() {
		return ""
	}
	return bucketBounds[b].key
}

// Label is the display name.
func (b Bucket) Label() string {
	if !b.valid() {
		return ""
	}
	return bucketBounds[b].label
}

func (b Bucket) String() string { return b.Key() }

// ParseBucket resolves a bucket key such as "24-36" or "72+".
func ParseBucket(key string) (Bucket, bool) {
	for _, b := range AllBuckets() {
		if b.Key() == key {
			return b, true
		}
	}
	return 0, false
}

func (b Bucket) MarshalJSON() ([]byte, error) {
	if !b.valid() {
		return nil, fmt.Errorf("invalid bucket %d", b)
	}
	out := struct {
		Key   string   `json:"key"`
		Label string   `json:"label"`
		Min   float64  `json:"min"`
		Max   *float64 `json:"max,omitempty"`
	}{Key: b.Key(), Label: b.Label(), Min: b.Min()}
	if !math.IsInf(b.Max(), 1) {
		hi := b.Max()
		out.Max = &hi
	}
	return json.Marshal(out)
}
