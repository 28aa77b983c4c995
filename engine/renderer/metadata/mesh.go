package metadata

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/meshview/engine/math"
)

// Mesh is the renderable handle of a layer: geometry in local coordinates
// plus the transform placing it in the world.
type Mesh struct {
	UniqueID  uuid.UUID
	Name      string
	Geometry  *Geometry
	Transform *math.Transform
	Visible   bool
	// OriginShift is the accumulated local offset applied to the vertices by
	// CenterOrigin.
	OriginShift math.Vec3
	disposed    bool
}

func NewMesh(name string, geometry *Geometry) *Mesh {
	return &Mesh{
		UniqueID:  uuid.New(),
		Name:      name,
		Geometry:  geometry,
		Transform: math.TransformCreate(),
		Visible:   true,
	}
}

// Extents returns the world space bounding box. A mesh without geometry has
// empty extents.
func (m *Mesh) Extents() math.Extents3D {
	if m.Geometry == nil {
		return math.NewExtents3DEmpty()
	}
	return m.Geometry.Extents.Transformed(m.Transform)
}

// CenterOrigin moves the mesh origin to the center of its geometry without
// moving it in the world. It returns the local shift applied to the vertices.
func (m *Mesh) CenterOrigin() math.Vec3 {
	if m.Geometry == nil || m.Geometry.Extents.IsEmpty() {
		return math.NewVec3Zero()
	}
	center := m.Geometry.Center
	if center == math.NewVec3Zero() {
		return center
	}
	m.Transform.SetPosition(m.Transform.Apply(center))
	m.Geometry.Translate(center.Negate())
	m.OriginShift = m.OriginShift.Add(center.Negate())
	return center.Negate()
}

// ReplaceGeometry swaps in freshly built geometry expressed in the original
// local frame. The origin shift recorded so far is applied to it so the mesh
// keeps its place in the world.
func (m *Mesh) ReplaceGeometry(geometry *Geometry) {
	if geometry != nil && m.OriginShift != math.NewVec3Zero() {
		geometry.Translate(m.OriginShift)
	}
	m.Geometry = geometry
}

// Dispose releases the geometry. The mesh must not be drawn afterwards.
func (m *Mesh) Dispose() {
	m.Geometry = nil
	m.Visible = false
	m.disposed = true
}

func (m *Mesh) IsDisposed() bool {
	return m.disposed
}
