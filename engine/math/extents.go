package math

import "github.com/chewxy/math32"

// NewExtents3DEmpty returns inverted extents (min +inf, max -inf) that any
// point or box expands.
func NewExtents3DEmpty() Extents3D {
	inf := math32.Inf(1)
	return Extents3D{
		Min: NewVec3Scalar(inf),
		Max: NewVec3Scalar(-inf),
	}
}

// ExtentsFromPoints returns the smallest extents holding every point.
func ExtentsFromPoints(points []Vec3) Extents3D {
	e := NewExtents3DEmpty()
	for _, p := range points {
		e = e.ExpandByPoint(p)
	}
	return e
}

// IsEmpty is true when max < min on any axis.
func (e Extents3D) IsEmpty() bool {
	return e.Max.X < e.Min.X || e.Max.Y < e.Min.Y || e.Max.Z < e.Min.Z
}

func (e Extents3D) ExpandByPoint(p Vec3) Extents3D {
	return Extents3D{
		Min: e.Min.Min(p),
		Max: e.Max.Max(p),
	}
}

// Union returns extents enclosing both e and other. Empty extents are ignored.
func (e Extents3D) Union(other Extents3D) Extents3D {
	if other.IsEmpty() {
		return e
	}
	if e.IsEmpty() {
		return other
	}
	return Extents3D{
		Min: e.Min.Min(other.Min),
		Max: e.Max.Max(other.Max),
	}
}

func (e Extents3D) Center() Vec3 {
	if e.IsEmpty() {
		return NewVec3Zero()
	}
	return e.Min.Add(e.Max).MulScalar(0.5)
}

func (e Extents3D) Size() Vec3 {
	if e.IsEmpty() {
		return NewVec3Zero()
	}
	return e.Max.Sub(e.Min)
}

// Diagonal is the distance between the min and max corners.
func (e Extents3D) Diagonal() float32 {
	if e.IsEmpty() {
		return 0
	}
	return e.Min.Distance(e.Max)
}

// Corners returns the eight corner points.
func (e Extents3D) Corners() [8]Vec3 {
	return [8]Vec3{
		{e.Min.X, e.Min.Y, e.Min.Z},
		{e.Max.X, e.Min.Y, e.Min.Z},
		{e.Min.X, e.Max.Y, e.Min.Z},
		{e.Max.X, e.Max.Y, e.Min.Z},
		{e.Min.X, e.Min.Y, e.Max.Z},
		{e.Max.X, e.Min.Y, e.Max.Z},
		{e.Min.X, e.Max.Y, e.Max.Z},
		{e.Max.X, e.Max.Y, e.Max.Z},
	}
}

// Transformed returns the axis aligned extents of e after applying t.
func (e Extents3D) Transformed(t *Transform) Extents3D {
	if e.IsEmpty() {
		return e
	}
	out := NewExtents3DEmpty()
	for _, c := range e.Corners() {
		out = out.ExpandByPoint(t.Apply(c))
	}
	return out
}
