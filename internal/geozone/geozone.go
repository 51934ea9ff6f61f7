package geozone

import (
	"errors"
	"strconv"

	"github.com/paulmach/orb"
)

var (
	// ErrNotFound: the input path is missing or unreadable.
	ErrNotFound = errors.New("input not found")
	// ErrParse: the input is not valid JSON.
	ErrParse = errors.New("input is not valid JSON")
	// ErrShape: the document does not have the structure a geozone feed must
	// have, e.g. a segment without horizontalProjection.coordinates.
	ErrShape = errors.New("unexpected geozone shape")
)

// Feature is one restricted-airspace record of the feed.
type Feature struct {
	Name        string
	Identifier  string
	Type        string
	Restriction string
	Geometry    []Segment
}

// Segment is one vertical slab of a feature's airspace.
type Segment struct {
	LowerLimit int
	// Untabled is set when the feed's lowerLimit is not an integer in int32
	// range (45.5, "45", 1e300). No style table matches such a segment and
	// RawLimit carries the value as text.
	Untabled bool
	RawLimit string
	// Ring is the outer boundary, ring 0 of horizontalProjection.coordinates.
	Ring orb.Ring
	// Holes counts the interior rings that were dropped.
	Holes int
}

// Defaults holds the values substituted for missing optional fields.
type Defaults struct {
	Name        string `yaml:"name"`
	Identifier  string `yaml:"identifier"`
	Type        string `yaml:"type"`
	Restriction string `yaml:"restriction"`
	LowerLimit  int    `yaml:"lower_limit"`
}

// DefaultDefaults returns the literal defaults used by the D-Flight converter.
func DefaultDefaults() Defaults {
	return Defaults{
		Name:        "Unnamed Zone",
		Identifier:  "No ID",
		Type:        "N/A",
		Restriction: "N/A",
		LowerLimit:  0,
	}
}

// LimitText is the lower limit as shown to users.
func (s Segment) LimitText() string {
	if s.Untabled {
		return s.RawLimit
	}
	return strconv.Itoa(s.LowerLimit)
}

// SegmentCount returns the number of segments across all features.
func SegmentCount(features []Feature) int {
	n := 0
	for _, f := range features {
		n += len(f.Geometry)
	}
	return n
}
