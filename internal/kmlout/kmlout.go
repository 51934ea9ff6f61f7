package kmlout

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	kml "github.com/twpayne/go-kml"

	"github.com/curbz/dflight2kml/internal/emitter"
	"github.com/curbz/dflight2kml/internal/style"
)

// ErrWrite wraps every failure to persist the output file.
var ErrWrite = errors.New("cannot write KML")

const (
	filePerm = 0o644
	bufSize  = 64 * 1024
)

func altitudeMode(m style.AltitudeMode) kml.AltitudeModeEnum {
	if m == style.RelativeToGround {
		return kml.AltitudeModeRelativeToGround
	}
	return kml.AltitudeModeClampToGround
}

func placemark(p emitter.Polygon) kml.Element {
	coords := make([]kml.Coordinate, 0, len(p.Ring))
	for _, v := range p.Ring {
		coords = append(coords, kml.Coordinate{Lon: v.Lon, Lat: v.Lat, Alt: v.Alt})
	}
	return kml.Placemark(
		kml.Name(p.Name),
		kml.Description(p.Description),
		kml.Style(
			kml.LineStyle(
				kml.Color(p.LineColor),
				kml.Width(p.LineWidth),
			),
			kml.PolyStyle(
				kml.Color(p.FillColor),
			),
		),
		kml.Polygon(
			kml.Extrude(p.Extrude),
			kml.AltitudeMode(altitudeMode(p.AltitudeMode)),
			kml.OuterBoundaryIs(
				kml.LinearRing(
					kml.Coordinates(coords...),
				),
			),
		),
	)
}

// Render builds the KML tree for doc: one Document holding one Placemark per
// polygon, each with an inline style.
func Render(doc *emitter.Document) *kml.CompoundElement {
	d := kml.Document(kml.Name(doc.Name))
	for _, p := range doc.Polygons {
		d.Add(placemark(p))
	}
	return kml.KML(d)
}

// Encode writes doc as indented KML to w.
func Encode(w io.Writer, doc *emitter.Document) error {
	return Render(doc).WriteIndent(w, "", "  ")
}

// WriteFile encodes doc into a temporary file next to path and renames it
// into place, so path holds either the previous content or the complete new
// document. The parent directory must exist.
func WriteFile(path string, doc *emitter.Document) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*.kml")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	// CreateTemp opens with 0600; the result should be readable like any
	// other file the user writes.
	if err := tmp.Chmod(filePerm); err != nil {
		return fail(err)
	}

	bw := bufio.NewWriterSize(tmp, bufSize)
	if err := Encode(bw, doc); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	if err := osReplace(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	_ = syncDir(dir)
	return nil
}
