package material

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/notargets/framemodal/utils"
)

// ShapeKind identifies the geometry of a cross-section
type ShapeKind uint8

const (
	Square ShapeKind = iota
	Rectangle
	Circle
	Ring
)

func (k ShapeKind) String() string {
	switch k {
	case Square:
		return "square"
	case Rectangle:
		return "rectangle"
	case Circle:
		return "circle"
	case Ring:
		return "ring"
	default:
		return fmt.Sprintf("ShapeKind(%d)", uint8(k))
	}
}

// ParseShapeKind maps a shape name to its kind
func ParseShapeKind(name string) (ShapeKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "square":
		return Square, nil
	case "rectangle":
		return Rectangle, nil
	case "circle":
		return Circle, nil
	case "ring":
		return Ring, nil
	}
	return 0, fmt.Errorf("shape %q: %w", name, utils.ErrUnsupportedSection)
}

// Shape is the closed set of cross-section geometries. Each variant carries
// only the dimensions it needs.
type Shape interface {
	Kind() ShapeKind
	Area() float64
	Inertia() float64 // second moment of area about the bending axis
	validate() error
}

// SquareShape is a solid square of side SideLen
type SquareShape struct {
	SideLen float64
}

// RectangleShape is a solid rectangle; SideLen is the depth in the bending plane
type RectangleShape struct {
	SideLen float64
	Width   float64
}

// CircleShape is a solid circle
type CircleShape struct {
	Radius float64
}

// RingShape is an annulus
type RingShape struct {
	OutRadius   float64
	InnerRadius float64
}

func (SquareShape) Kind() ShapeKind    { return Square }
func (RectangleShape) Kind() ShapeKind { return Rectangle }
func (CircleShape) Kind() ShapeKind    { return Circle }
func (RingShape) Kind() ShapeKind      { return Ring }

func (s SquareShape) Area() float64    { return s.SideLen * s.SideLen }
func (s RectangleShape) Area() float64 { return s.SideLen * s.Width }
func (s CircleShape) Area() float64    { return math.Pi * s.Radius * s.Radius }
func (s RingShape) Area() float64 {
	return math.Pi*s.OutRadius*s.OutRadius - math.Pi*s.InnerRadius*s.InnerRadius
}

func (s SquareShape) Inertia() float64 { return math.Pow(s.SideLen, 4) / 12 }
func (s RectangleShape) Inertia() float64 {
	return s.Width * s.SideLen * s.SideLen * s.SideLen / 12
}
func (s CircleShape) Inertia() float64 { return math.Pi * math.Pow(s.Radius, 4) / 4 }
func (s RingShape) Inertia() float64 {
	return math.Pi * (math.Pow(s.OutRadius, 4) - math.Pow(s.InnerRadius, 4)) / 4
}

func (s SquareShape) validate() error { return positive("sideLen", s.SideLen) }

func (s RectangleShape) validate() error {
	if err := positive("sideLen", s.SideLen); err != nil {
		return err
	}
	return positive("width", s.Width)
}

func (s CircleShape) validate() error { return positive("radius", s.Radius) }

func (s RingShape) validate() error {
	if err := positive("outRadius", s.OutRadius); err != nil {
		return err
	}
	if !isFinite(s.InnerRadius) || s.InnerRadius < 0 {
		return fmt.Errorf("innerRadius=%g: %w", s.InnerRadius, utils.ErrInvalidSectionParameters)
	}
	if s.OutRadius <= s.InnerRadius {
		return fmt.Errorf("outRadius=%g must exceed innerRadius=%g: %w",
			s.OutRadius, s.InnerRadius, utils.ErrInvalidSectionParameters)
	}
	return nil
}

func positive(name string, v float64) error {
	if !isFinite(v) || v <= 0 {
		return fmt.Errorf("%s=%g: %w", name, v, utils.ErrInvalidSectionParameters)
	}
	return nil
}

// Section is a cross-section with its derived properties computed once
type Section struct {
	ID      int
	Shape   Shape
	Area    float64
	Inertia float64
}

// NewSection validates the shape and caches its area and inertia
func NewSection(id int, shape Shape) (*Section, error) {
	if shape == nil {
		return nil, fmt.Errorf("section %d: nil shape: %w", id, utils.ErrUnsupportedSection)
	}
	if err := shape.validate(); err != nil {
		return nil, fmt.Errorf("section %d (%v): %w", id, shape.Kind(), err)
	}
	return &Section{
		ID:      id,
		Shape:   shape,
		Area:    shape.Area(),
		Inertia: shape.Inertia(),
	}, nil
}

// ParseSection builds a section from a shape name and its named parameters,
// e.g. ("ring", {"outRadius": 10, "innerRadius": 8}). Keys not used by the
// shape are ignored.
func ParseSection(id int, kind string, params map[string]float64) (*Section, error) {
	k, err := ParseShapeKind(kind)
	if err != nil {
		return nil, fmt.Errorf("section %d: %w", id, err)
	}

	get := func(names ...string) ([]float64, error) {
		vals := make([]float64, len(names))
		var missing []string
		for i, n := range names {
			v, ok := params[n]
			if !ok {
				missing = append(missing, n)
				continue
			}
			vals[i] = v
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return nil, fmt.Errorf("section %d (%v): missing %s: %w",
				id, k, strings.Join(missing, ", "), utils.ErrInvalidSectionParameters)
		}
		return vals, nil
	}

	var shape Shape
	switch k {
	case Square:
		v, err := get("sideLen")
		if err != nil {
			return nil, err
		}
		shape = SquareShape{SideLen: v[0]}
	case Rectangle:
		v, err := get("sideLen", "width")
		if err != nil {
			return nil, err
		}
		shape = RectangleShape{SideLen: v[0], Width: v[1]}
	case Circle:
		v, err := get("radius")
		if err != nil {
			return nil, err
		}
		shape = CircleShape{Radius: v[0]}
	case Ring:
		v, err := get("outRadius", "innerRadius")
		if err != nil {
			return nil, err
		}
		shape = RingShape{OutRadius: v[0], InnerRadius: v[1]}
	default:
		panic(fmt.Sprintf("unhandled shape kind %v", k))
	}
	return NewSection(id, shape)
}
