// Package style maps a geozone segment's lower limit to the visual encoding
// used for its polygon.
package style

import (
	"fmt"
	"image/color"
	"strings"
)

// Policy selects how altitude and altitude mode are derived.
type Policy int

const (
	// Fixed draws every zone at FixedAltitude, clamped to ground.
	Fixed Policy = iota
	// Tiered draws zones at a small per-limit altitude code relative to
	// ground and adds the lower limit to the description.
	Tiered
)

func (p Policy) String() string {
	switch p {
	case Fixed:
		return "fixed"
	case Tiered:
		return "tiered"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy accepts "fixed"/"a" and "tiered"/"b", in any case.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "a":
		return Fixed, nil
	case "tiered", "b":
		return Tiered, nil
	}
	return 0, fmt.Errorf("unknown style policy %q (want fixed or tiered)", s)
}

// AltitudeMode is the KML altitude interpretation of a polygon.
type AltitudeMode string

const (
	ClampToGround    AltitudeMode = "clampToGround"
	RelativeToGround AltitudeMode = "relativeToGround"
)

// Zone colors. Alpha is opaque; see Fill for the polygon interior.
var (
	Cyan   = color.RGBA{R: 0x00, G: 0xff, B: 0xff, A: 0xff}
	Yellow = color.RGBA{R: 0xff, G: 0xff, B: 0x00, A: 0xff}
	Orange = color.RGBA{R: 0xff, G: 0xa5, B: 0x00, A: 0xff}
	Red    = color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
)

const (
	// FixedAltitude is the vertex altitude of the Fixed policy, in meters.
	FixedAltitude = 10000
	// FillAlpha is the polygon interior alpha, roughly 50%.
	FillAlpha = 0x80
	// LineWidth is the outline width of every zone.
	LineWidth = 2
)

// Exact-match tables. Values not listed fall through to the fallback
// below; 44, 50 or 61 are not rounded to a neighbouring tier.
var (
	colorByLimit = map[int]color.RGBA{
		60: Cyan,
		45: Yellow,
		25: Orange,
	}
	tierByLimit = map[int]float64{
		60: 102,
		45: 101,
		25: 100,
	}
)

const fallbackTier = 103

// Style is the visual encoding of one segment.
type Style struct {
	Color        color.RGBA
	Altitude     float64
	AltitudeMode AltitudeMode
	Extrude      bool
}

// ColorFor returns the zone color for lowerLimit. Anything outside the
// table, including 0 and negatives, is Red.
func ColorFor(lowerLimit int) color.RGBA {
	if c, ok := colorByLimit[lowerLimit]; ok {
		return c
	}
	return Red
}

// TierFor returns the Tiered altitude code for lowerLimit.
func TierFor(lowerLimit int) float64 {
	if a, ok := tierByLimit[lowerLimit]; ok {
		return a
	}
	return fallbackTier
}

// Fill returns c at FillAlpha. The channels are kept as is, the way KML
// writers expect an aabbggrr value.
func Fill(c color.RGBA) color.RGBA {
	c.A = FillAlpha
	return c
}

// For derives the style of a segment with the given lower limit.
func (p Policy) For(lowerLimit int) Style {
	return p.style(ColorFor(lowerLimit), TierFor(lowerLimit))
}

// Fallback is the style of a segment whose lower limit is not an integer
// at all, so no table entry can match it.
func (p Policy) Fallback() Style {
	return p.style(Red, fallbackTier)
}

func (p Policy) style(c color.RGBA, tier float64) Style {
	s := Style{Color: c, Extrude: true}
	switch p {
	case Tiered:
		s.Altitude = tier
		s.AltitudeMode = RelativeToGround
	default:
		s.Altitude = FixedAltitude
		s.AltitudeMode = ClampToGround
	}
	return s
}

// DescriptionPrefix returns the policy specific first line(s) of a
// placemark description, or "". limit is printed as given.
func (p Policy) DescriptionPrefix(limit string) string {
	if p == Tiered {
		return fmt.Sprintf("Max altitude: %sm\n", limit)
	}
	return ""
}

// ColorName is used in log lines.
func ColorName(c color.RGBA) string {
	c.A = 0xff
	switch c {
	case Cyan:
		return "cyan"
	case Yellow:
		return "yellow"
	case Orange:
		return "orange"
	case Red:
		return "red"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
