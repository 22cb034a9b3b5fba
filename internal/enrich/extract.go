// Package enrich derives structured attributes from storefront listings
// and turns raw snapshots into catalog records.
package enrich

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/swilhoit/sunbeam/internal/catalog"
)

var (
	reWxDxH      = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)"?\s*W[,\s]+(\d+(?:\.\d+)?)"?\s*D[,\s]+(\d+(?:\.\d+)?)"?\s*H`)
	reWxDxHAlt   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)"\s*W\s*x\s*(\d+(?:\.\d+)?)"\s*D\s*x\s*(\d+(?:\.\d+)?)"\s*H`)
	reSeatHeight = regexp.MustCompile(`(?i)(?:SH|Seat Height):\s*(\d+(?:\.\d+)?)"`)
	reDiameter   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)"?\s*(?:Diameter|Dia\.?)`)
	reWhitespace = regexp.MustCompile(`\s+`)

	reConditionSection = regexp.MustCompile(`(?i)CONDITION\s*\n\s*(Excellent|Good|Fair|Poor)`)
	reDecade           = regexp.MustCompile(`\b(19|20)?([0-9])0'?s\b`)

	quoteReplacer = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")
)

// NormalizeCategory maps a storefront product type to its canonical
// category. Unknown types are returned unchanged.
func NormalizeCategory(productType string) string {
	if c, ok := categoryTable[productType]; ok {
		return c
	}
	return productType
}

// Rooms returns the tags that name a room exactly, in tag order.
func Rooms(tags []string) []catalog.Room {
	rooms := []catalog.Room{}
	for _, t := range tags {
		r, ok := catalog.ParseRoom(t)
		if !ok || containsRoom(rooms, r) {
			continue
		}
		rooms = append(rooms, r)
	}
	return rooms
}

func containsRoom(rooms []catalog.Room, r catalog.Room) bool {
	for _, have := range rooms {
		if have == r {
			return true
		}
	}
	return false
}

// Style resolves a single style from the vendor, then from exact style
// tags, then from mid-century mentions in tags.
func Style(vendor string, tags []string) catalog.Style {
	if s, ok := vendorStyles[vendor]; ok {
		return s
	}
	for _, t := range tags {
		if s, ok := catalog.ParseStyle(t); ok {
			return s
		}
	}
	for _, t := range tags {
		lower := strings.ToLower(t)
		if strings.Contains(lower, "mid century") || strings.Contains(lower, "mid-century") {
			return catalog.StyleMidCentury
		}
	}
	return catalog.StyleNone
}

// Condition reads the CONDITION section of a description, falling back to
// condition phrases anywhere in the text. Poor is reported as Fair.
func Condition(description string) catalog.Condition {
	if m := reConditionSection.FindStringSubmatch(description); m != nil {
		switch strings.ToLower(m[1]) {
		case "excellent":
			return catalog.ConditionExcellent
		case "good":
			return catalog.ConditionGood
		default:
			return catalog.ConditionFair
		}
	}

	lower := strings.ToLower(description)
	for _, p := range conditionPhrases {
		if strings.Contains(lower, p.phrase) {
			return p.condition
		}
	}
	return catalog.ConditionNone
}

// Era finds a known era label in the description or tags, then falls back
// to decade shorthand such as "70s" or "1960's".
func Era(description string, tags []string) catalog.Era {
	text := strings.ToLower(quoteReplacer.Replace(description + " " + strings.Join(tags, " ")))

	for _, e := range catalog.AllEras() {
		if strings.Contains(text, strings.ToLower(e.String())) {
			return e
		}
	}

	for _, m := range reDecade.FindAllStringSubmatch(text, -1) {
		base := 1900
		if m[1] == "20" {
			base = 2000
		}
		digit, _ := strconv.Atoi(m[2])
		if e, ok := catalog.ParseEra(strconv.Itoa(base+digit*10) + "s"); ok {
			return e
		}
	}
	return catalog.EraNone
}

// Materials returns the vocabulary materials mentioned in the description,
// capitalized, in vocabulary order, without case-insensitive duplicates.
func Materials(description string) []string {
	lower := strings.ToLower(description)
	found := []string{}
	for _, m := range materialVocabulary {
		if !strings.Contains(lower, m) {
			continue
		}
		name := capitalize(m)
		dup := false
		for _, f := range found {
			if strings.EqualFold(f, name) {
				dup = true
				break
			}
		}
		if !dup {
			found = append(found, name)
		}
	}
	return found
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Dimensions parses stated measurements from a description. It returns nil
// when nothing was found; partial results are kept.
func Dimensions(description string) *catalog.Dimensions {
	text := quoteReplacer.Replace(reWhitespace.ReplaceAllString(description, " "))
	var d catalog.Dimensions

	m := reWxDxH.FindStringSubmatch(text)
	if m == nil {
		m = reWxDxHAlt.FindStringSubmatch(text)
	}
	if m != nil {
		d.Width, d.Depth, d.Height = inches(m[1]), inches(m[2]), inches(m[3])
	}
	if m := reSeatHeight.FindStringSubmatch(text); m != nil {
		d.SeatHeight = inches(m[1])
	}
	if m := reDiameter.FindStringSubmatch(text); m != nil {
		d.Diameter = inches(m[1])
	}

	if d.IsZero() {
		return nil
	}
	return &d
}

func inches(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
