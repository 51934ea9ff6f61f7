package emitter

import (
	"fmt"
	"image/color"
	"io"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"github.com/curbz/dflight2kml/internal/geozone"
	"github.com/curbz/dflight2kml/internal/style"
	"github.com/curbz/dflight2kml/pkg/geometry"
)

// Vertex is one ring vertex with the altitude chosen by the policy.
type Vertex struct {
	Lon, Lat, Alt float64
}

// Polygon is one styled placemark of the output document.
type Polygon struct {
	Name         string
	Description  string
	Ring         []Vertex
	LineColor    color.RGBA
	LineWidth    float64
	FillColor    color.RGBA
	AltitudeMode style.AltitudeMode
	Extrude      bool
	// LowerLimit is the limit as text, kept for logging and summaries.
	LowerLimit string
}

// Document is the in-memory output of one conversion run.
type Document struct {
	Name     string
	Polygons []Polygon
}

// Bound returns the extent of all non-empty rings of the document.
func (d *Document) Bound() (orb.Bound, bool) {
	rings := make([]orb.Ring, 0, len(d.Polygons))
	for _, p := range d.Polygons {
		r := make(orb.Ring, 0, len(p.Ring))
		for _, v := range p.Ring {
			r = append(r, orb.Point{v.Lon, v.Lat})
		}
		rings = append(rings, r)
	}
	return geometry.Extent(rings)
}

// ColorCounts returns how many polygons were drawn in each color.
func (d *Document) ColorCounts() map[string]int {
	counts := make(map[string]int)
	for _, p := range d.Polygons {
		counts[style.ColorName(p.LineColor)]++
	}
	return counts
}

// Emitter turns decoded features into a Document under one style policy.
type Emitter struct {
	policy  style.Policy
	docName string
	log     logrus.FieldLogger
}

type Option func(*Emitter)

// WithDocumentName sets the name of the KML document.
func WithDocumentName(name string) Option {
	return func(e *Emitter) { e.docName = name }
}

// WithLogger routes per-polygon diagnostics to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Emitter) { e.log = l }
}

func New(policy style.Policy, opts ...Option) *Emitter {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	e := &Emitter{
		policy:  policy,
		docName: "Geozones",
		log:     discard,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Convert emits one polygon per geometry segment, in input order.
func (e *Emitter) Convert(features []geozone.Feature) *Document {
	doc := &Document{
		Name:     e.docName,
		Polygons: make([]Polygon, 0, geozone.SegmentCount(features)),
	}
	for _, f := range features {
		for i, seg := range f.Geometry {
			p := e.polygon(f, seg)
			e.inspect(f, i, seg, p)
			doc.Polygons = append(doc.Polygons, p)
		}
	}
	return doc
}

func (e *Emitter) polygon(f geozone.Feature, seg geozone.Segment) Polygon {
	st := e.policy.For(seg.LowerLimit)
	if seg.Untabled {
		st = e.policy.Fallback()
	}

	ring := make([]Vertex, 0, len(seg.Ring))
	for _, pt := range seg.Ring {
		ring = append(ring, Vertex{Lon: pt.Lon(), Lat: pt.Lat(), Alt: st.Altitude})
	}

	return Polygon{
		Name:         f.Name,
		Description:  e.policy.DescriptionPrefix(seg.LimitText()) + Description(f),
		Ring:         ring,
		LineColor:    st.Color,
		LineWidth:    style.LineWidth,
		FillColor:    style.Fill(st.Color),
		AltitudeMode: st.AltitudeMode,
		Extrude:      st.Extrude,
		LowerLimit:   seg.LimitText(),
	}
}

// Description is the policy independent placemark description.
func Description(f geozone.Feature) string {
	return fmt.Sprintf("ID: %s\nType: %s\nRestriction: %s", f.Identifier, f.Type, f.Restriction)
}

func (e *Emitter) inspect(f geozone.Feature, idx int, seg geozone.Segment, p Polygon) {
	entry := e.log.WithFields(logrus.Fields{
		"zone":       f.Identifier,
		"segment":    idx,
		"lowerLimit": seg.LimitText(),
	})
	if geometry.IsDegenerate(seg.Ring) {
		entry.Warnf("Zone %q segment %d has a degenerate ring (%d vertices), emitting as is", f.Name, idx, len(seg.Ring))
	}
	if seg.Holes > 0 {
		entry.Debugf("Dropped %d interior ring(s) of zone %q", seg.Holes, f.Name)
	}
	entry.Debugf("Emitted %s polygon %q, rough area %.6f sq deg", style.ColorName(p.LineColor), p.Name, geometry.RoughArea(seg.Ring))
}
