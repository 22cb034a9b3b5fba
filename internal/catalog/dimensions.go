package catalog

// Dimensions holds measurements in inches. Each field is nil when the
// description did not state it.
type Dimensions struct {
	Width      *float64 `json:"width,omitempty"`
	Depth      *float64 `json:"depth,omitempty"`
	Height     *float64 `json:"height,omitempty"`
	SeatHeight *float64 `json:"seatHeight,omitempty"`
	Diameter   *float64 `json:"diameter,omitempty"`
}

// IsZero reports whether no measurement is set.
func (d Dimensions) IsZero() bool {
	return d.Width == nil && d.Depth == nil && d.Height == nil &&
		d.SeatHeight == nil && d.Diameter == nil
}

// Size classifies a piece by its largest overall measurement. Seat height
// does not count. It returns SizeNone when nothing is known.
func (d *Dimensions) Size() Size {
	if d == nil {
		return SizeNone
	}
	largest, ok := 0.0, false
	for _, v := range []*float64{d.Width, d.Depth, d.Height, d.Diameter} {
		if v != nil && (!ok || *v > largest) {
			largest, ok = *v, true
		}
	}
	switch {
	case !ok:
		return SizeNone
	case largest < 24:
		return SizeSmall
	case largest < 48:
		return SizeMedium
	case largest < 72:
		return SizeLarge
	default:
		return SizeExtraLarge
	}
}

// Inches returns a pointer to v, for building Dimensions literals.
func Inches(v float64) *float64 { return &v }
