// Package geometry models the spatial extent of recognized text.
//
// A predictor reports each block, line and word either as a straight box
// (two corner points) or as a polygon (rotated or curved text). Resolve
// classifies the raw point list once; every consumer afterwards switches on
// the resolved Kind instead of inspecting the points again.
//
// All coordinates are normalized to [0,1] relative to the page size and are
// never transformed by this package.
package geometry

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned when a point list is neither a two-point box
// nor a polygon of at least three points.
var ErrInvalidGeometry = errors.New("invalid geometry")

// Kind discriminates the two geometry shapes
type Kind int

const (
	KindBox Kind = iota + 1
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindPolygon:
		return "polygon"
	}
	return "invalid"
}

// Point is a normalized (x, y) coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is a straight, axis-aligned box given by its two corners
type Box struct {
	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}

// Width returns the normalized width of the box
func (b Box) Width() float64 { return b.XMax - b.XMin }

// Height returns the normalized height of the box
func (b Box) Height() float64 { return b.YMax - b.YMin }

// Geometry is either a Box or a Polygon. The zero value is invalid.
type Geometry struct {
	kind    Kind
	box     Box
	polygon []Point
}

// NewBox wraps a straight box. Corners must satisfy XMin <= XMax and YMin <= YMax.
func NewBox(b Box) (Geometry, error) {
	if b.XMin > b.XMax || b.YMin > b.YMax {
		return Geometry{}, fmt.Errorf("%w: box corners out of order (%g,%g)-(%g,%g)",
			ErrInvalidGeometry, b.XMin, b.YMin, b.XMax, b.YMax)
	}
	return Geometry{kind: KindBox, box: b}, nil
}

// NewPolygon wraps an ordered polygon of at least three points.
// The points are copied.
func NewPolygon(points []Point) (Geometry, error) {
	if len(points) < 3 {
		return Geometry{}, fmt.Errorf("%w: polygon needs at least 3 points, got %d",
			ErrInvalidGeometry, len(points))
	}
	return Geometry{kind: KindPolygon, polygon: append([]Point(nil), points...)}, nil
}

// Resolve classifies a raw point list as produced by a predictor.
//
//   - 2 points: a straight box ((xmin, ymin), (xmax, ymax))
//   - 3 or more points: a polygon, order preserved
//
// Any other shape fails with ErrInvalidGeometry.
func Resolve(points [][2]float64) (Geometry, error) {
	switch n := len(points); {
	case n == 2:
		return NewBox(Box{
			XMin: points[0][0],
			YMin: points[0][1],
			XMax: points[1][0],
			YMax: points[1][1],
		})
	case n >= 3:
		poly := make([]Point, n)
		for i, p := range points {
			poly[i] = Point{X: p[0], Y: p[1]}
		}
		return NewPolygon(poly)
	default:
		return Geometry{}, fmt.Errorf("%w: %d points", ErrInvalidGeometry, n)
	}
}

// MustResolve is like Resolve but panics on error. Intended for fixtures.
func MustResolve(points [][2]float64) Geometry {
	g, err := Resolve(points)
	if err != nil {
		panic(err)
	}
	return g
}

// Kind reports the shape of the geometry
func (g Geometry) Kind() Kind { return g.kind }

// IsZero reports whether g was never resolved
func (g Geometry) IsZero() bool { return g.kind == 0 }

// Box returns the straight box and true, or false for polygons
func (g Geometry) Box() (Box, bool) {
	return g.box, g.kind == KindBox
}

// Polygon returns a copy of the polygon points and true, or false for boxes
func (g Geometry) Polygon() ([]Point, bool) {
	if g.kind != KindPolygon {
		return nil, false
	}
	return append([]Point(nil), g.polygon...), true
}

// Bounds returns the enclosing axis-aligned box. For a Box this is the box
// itself; a polygon is approximated by the min/max of its points.
func (g Geometry) Bounds() Box {
	if g.kind != KindPolygon {
		return g.box
	}
	b := Box{
		XMin: g.polygon[0].X, YMin: g.polygon[0].Y,
		XMax: g.polygon[0].X, YMax: g.polygon[0].Y,
	}
	for _, p := range g.polygon[1:] {
		b.XMin = min(b.XMin, p.X)
		b.YMin = min(b.YMin, p.Y)
		b.XMax = max(b.XMax, p.X)
		b.YMax = max(b.YMax, p.Y)
	}
	return b
}

// Points returns the geometry in the predictor's raw form: two corners for a
// box, every vertex for a polygon.
func (g Geometry) Points() [][2]float64 {
	switch g.kind {
	case KindBox:
		return [][2]float64{{g.box.XMin, g.box.YMin}, {g.box.XMax, g.box.YMax}}
	case KindPolygon:
		out := make([][2]float64, len(g.polygon))
		for i, p := range g.polygon {
			out[i] = [2]float64{p.X, p.Y}
		}
		return out
	}
	return nil
}

// MarshalJSON writes a box as {"xmin","ymin","xmax","ymax"} and a polygon as
// a list of {"x","y"} points.
func (g Geometry) MarshalJSON() ([]byte, error) {
	switch g.kind {
	case KindBox:
		return json.Marshal(g.box)
	case KindPolygon:
		return json.Marshal(g.polygon)
	}
	return nil, fmt.Errorf("%w: unresolved geometry", ErrInvalidGeometry)
}

// UnmarshalJSON accepts the forms written by MarshalJSON
func (g *Geometry) UnmarshalJSON(data []byte) error {
	var poly []Point
	if err := json.Unmarshal(data, &poly); err == nil {
		r, err := NewPolygon(poly)
		if err != nil {
			return err
		}
		*g = r
		return nil
	}

	var box Box
	if err := json.Unmarshal(data, &box); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	r, err := NewBox(box)
	if err != nil {
		return err
	}
	*g = r
	return nil
}
