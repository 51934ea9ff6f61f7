package geozone

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/curbz/dflight2kml/pkg/geometry"
)

// Decode maps the generic value returned by Load onto typed features.
// Missing optional fields take their value from d. A missing features array
// yields no features; structural surprises inside it are ErrShape.
func Decode(root any, d Defaults) ([]Feature, error) {
	doc, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: root is %s, want object", ErrShape, kindOf(root))
	}

	raw, err := optionalList(doc, "features")
	if err != nil {
		return nil, err
	}

	features := make([]Feature, 0, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: features[%d] is %s, want object", ErrShape, i, kindOf(item))
		}
		f, err := decodeFeature(obj, d)
		if err != nil {
			return nil, fmt.Errorf("features[%d]: %w", i, err)
		}
		features = append(features, f)
	}
	return features, nil
}

func decodeFeature(obj map[string]any, d Defaults) (Feature, error) {
	f := Feature{
		Name:        text(obj, "name", d.Name),
		Identifier:  text(obj, "identifier", d.Identifier),
		Type:        text(obj, "type", d.Type),
		Restriction: text(obj, "restriction", d.Restriction),
	}

	raw, err := optionalList(obj, "geometry")
	if err != nil {
		return Feature{}, err
	}
	for i, item := range raw {
		g, ok := item.(map[string]any)
		if !ok {
			return Feature{}, fmt.Errorf("%w: geometry[%d] is %s, want object", ErrShape, i, kindOf(item))
		}
		seg, err := decodeSegment(g, d)
		if err != nil {
			return Feature{}, fmt.Errorf("geometry[%d]: %w", i, err)
		}
		f.Geometry = append(f.Geometry, seg)
	}
	return f, nil
}

func decodeSegment(g map[string]any, d Defaults) (Segment, error) {
	hp, ok := g["horizontalProjection"].(map[string]any)
	if !ok {
		return Segment{}, fmt.Errorf("%w: missing horizontalProjection", ErrShape)
	}
	rings, ok := hp["coordinates"].([]any)
	if !ok || len(rings) == 0 {
		return Segment{}, fmt.Errorf("%w: missing horizontalProjection.coordinates", ErrShape)
	}

	outer, err := positions(rings[0])
	if err != nil {
		return Segment{}, err
	}

	seg := Segment{
		Ring:  geometry.RingFromPositions(outer),
		Holes: len(rings) - 1,
	}
	seg.LowerLimit, seg.Untabled, seg.RawLimit = lowerLimit(g, d.LowerLimit)
	return seg, nil
}

// positions converts ring 0 into [lon, lat] pairs. An empty ring is allowed.
func positions(v any) ([][]float64, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: ring 0 is %s, want array", ErrShape, kindOf(v))
	}
	out := make([][]float64, 0, len(list))
	for i, p := range list {
		pair, ok := p.([]any)
		if !ok || len(pair) < 2 {
			return nil, fmt.Errorf("%w: position %d is not a [lon, lat] pair", ErrShape, i)
		}
		lon, okLon := pair[0].(float64)
		lat, okLat := pair[1].(float64)
		if !okLon || !okLat {
			return nil, fmt.Errorf("%w: position %d has non-numeric ordinates", ErrShape, i)
		}
		out = append(out, []float64{lon, lat})
	}
	return out, nil
}

// lowerLimit returns the segment's limit. Values that are not an integer
// within int32 range are reported as untabled together with their text.
func lowerLimit(g map[string]any, def int) (n int, untabled bool, raw string) {
	v, ok := g["lowerLimit"]
	if !ok || v == nil {
		return def, false, ""
	}
	switch x := v.(type) {
	case float64:
		if x == math.Trunc(x) && x >= math.MinInt32 && x <= math.MaxInt32 {
			return int(x), false, ""
		}
		return 0, true, formatNumber(x)
	case string:
		return 0, true, norm.NFC.String(x)
	}
	return 0, true, fmt.Sprint(v)
}

// formatNumber prints integral values without exponent up to 1e21, the way
// the feed would have written them.
func formatNumber(x float64) string {
	if x == math.Trunc(x) && math.Abs(x) < 1e21 {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

func optionalList(obj map[string]any, key string) ([]any, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, want array", ErrShape, key, kindOf(v))
	}
	return list, nil
}

// text returns obj[key] as NFC-normalized text, or def when absent or null.
func text(obj map[string]any, key, def string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return def
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return norm.NFC.String(s)
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", v)
}
