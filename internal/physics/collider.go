package physics

import "fmt"

// Kind identifies a collider shape. Every Kind must have a pair handler for
// every other Kind in the dispatch table (see pairs.go).
type Kind int

const (
	KindBox Kind = iota
	KindCircle

	numKinds
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindCircle:
		return "circle"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Collider is a closed set of shapes. The unexported method keeps
// implementations inside this package.
type Collider interface {
	Kind() Kind
	collider()
}

// Box is an axis-aligned rectangle on the X/Z plane, stored as half extents.
type Box struct {
	HalfW float64 // along X
	HalfH float64 // along Z
}

// BoxFromSize builds a box from full width and depth.
func BoxFromSize(w, h float64) Box {
	return Box{HalfW: w / 2, HalfH: h / 2}
}

func (Box) Kind() Kind { return KindBox }
func (Box) collider()  {}

// Circle is a disc on the X/Z plane.
type Circle struct {
	Radius float64
}

func (Circle) Kind() Kind { return KindCircle }
func (Circle) collider()  {}
